// Package sniff classifies files by the magic numbers at the start of their content.
package sniff

import (
	"errors"
	"io"
	"os"

	"github.com/h2non/filetype"
)

// DefaultHeaderSize is the number of leading bytes read for detection.
// It matches the buffer filetype itself uses when matching files.
const DefaultHeaderSize = 8192

// MinHeaderSize is the smallest header that still covers every signature
// in the table (tar's "ustar" marker ends at offset 262).
const MinHeaderSize = 262

// ErrIO is matched by every open or read failure returned from this package.
var ErrIO = errors.New("io failure")

// Result is the detected MIME type and file extension.
type Result struct {
	MIMEType  string
	Extension string
}

// Fallback is returned for readable content that matches no signature.
var Fallback = Result{
	MIMEType:  "application/octet-stream",
	Extension: "bin",
}

// IOError reports a failure to open or read the file being classified.
type IOError struct {
	Path string
	Err  error
}

// Error returns the underlying message unchanged.
func (e *IOError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrIO.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// Sniffer classifies content. The zero value is not usable; use New.
type Sniffer struct {
	headerSize int
}

// Option configures a Sniffer.
type Option func(*Sniffer)

// WithHeaderSize sets how many leading bytes are read. Values below
// MinHeaderSize are raised to it.
func WithHeaderSize(n int) Option {
	return func(s *Sniffer) {
		s.headerSize = max(n, MinHeaderSize)
	}
}

// New creates a sniffer with the given options
func New(opts ...Option) *Sniffer {
	s := &Sniffer{headerSize: DefaultHeaderSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSniffer = New()

// Classify classifies the file at path using the default sniffer.
func Classify(path string) (Result, error) {
	return defaultSniffer.Classify(path)
}

// HeaderSize returns the number of bytes the sniffer reads.
func (s *Sniffer) HeaderSize() int {
	return s.headerSize
}

// Classify opens path and classifies its leading bytes.
func (s *Sniffer) Classify(path string) (Result, error) {
	// #nosec G304 - classifying caller-chosen paths is the point of this function
	f, err := os.Open(path)
	if err != nil {
		return Result{}, &IOError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	header, err := s.readHeader(f)
	if err != nil {
		return Result{}, &IOError{Path: path, Err: err}
	}
	return ClassifyBytes(header), nil
}

// ClassifyReader classifies the leading bytes of r.
func (s *Sniffer) ClassifyReader(r io.Reader) (Result, error) {
	header, err := s.readHeader(r)
	if err != nil {
		return Result{}, &IOError{Err: err}
	}
	return ClassifyBytes(header), nil
}

// readHeader reads up to headerSize bytes. Hitting EOF early is not an error.
func (s *Sniffer) readHeader(r io.Reader) ([]byte, error) {
	buf := make([]byte, s.headerSize)
	n, err := io.ReadFull(r, buf)
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return buf[:n], nil
	default:
		return nil, err
	}
}

// ClassifyBytes matches header against the signature table. Empty or
// unrecognized input yields Fallback.
func ClassifyBytes(header []byte) Result {
	if len(header) == 0 {
		return Fallback
	}

	kind, err := filetype.Match(header)
	if err != nil || kind == filetype.Unknown || kind.Extension == "" {
		return Fallback
	}

	return Result{
		MIMEType:  kind.MIME.Value,
		Extension: kind.Extension,
	}
}
