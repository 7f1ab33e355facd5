package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// maxLineSize bounds a single request line.
const maxLineSize = 1 << 20

// Serve reads requests from r, one JSON object per line, and writes a
// Response for each to out. Requests run concurrently because handlers may
// block on file I/O. Lines over maxLineSize are answered with an error and
// skipped. Serve returns at EOF or when ctx is done, after the
// requests already started have answered.
func Serve(ctx context.Context, r io.Reader, out *Stream, router *Router) error {
	lines := make(chan line)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		br := bufio.NewReaderSize(r, 64*1024)
		for {
			data, tooLong, err := readLine(br)
			if err != nil {
				if err != io.EOF {
					readErr <- err
				}
				return
			}
			select {
			case lines <- line{data: data, tooLong: tooLong}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return fmt.Errorf("failed to read requests: %w", err)
				default:
				}
				return nil
			}
			if l.tooLong {
				_ = out.Write(Response{Error: fmt.Sprintf("request exceeds %d bytes", maxLineSize)})
				continue
			}
			if len(l.data) == 0 {
				continue
			}

			var req Request
			if err := json.Unmarshal(l.data, &req); err != nil {
				_ = out.Write(Response{Error: fmt.Sprintf("malformed request: %v", err)})
				continue
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = out.Write(handle(ctx, router, req))
			}()
		}
	}
}

type line struct {
	data    []byte
	tooLong bool
}

// readLine returns the next line without its terminator. A line longer than
// maxLineSize is consumed up to its newline and reported as tooLong.
func readLine(br *bufio.Reader) ([]byte, bool, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return nil, false, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineSize {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return buf, tooLong, nil
		}
	}
}

func handle(ctx context.Context, router *Router, req Request) Response {
	result, err := router.Invoke(ctx, req.Cmd, req.Args)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: result}
}
