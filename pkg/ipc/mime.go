package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/sniffnotify/pkg/sniff"
)

// CommandGetMIMEType is the command name the front-end invokes.
const CommandGetMIMEType = "get_mime_type"

// GetMIMETypeArgs are the arguments of get_mime_type.
type GetMIMETypeArgs struct {
	Path string `json:"path"`
}

// Classifier classifies the file at a path.
type Classifier interface {
	Classify(path string) (sniff.Result, error)
}

// RegisterSniffer registers get_mime_type on r. The result is a
// [mimeType, extension] pair.
func RegisterSniffer(r *Router, c Classifier) {
	r.Handle(CommandGetMIMEType, func(_ context.Context, raw json.RawMessage) (any, error) {
		var args GetMIMETypeArgs
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
		}
		if args.Path == "" {
			return nil, errors.New("invalid arguments: path is required")
		}

		res, err := c.Classify(args.Path)
		if err != nil {
			return nil, err
		}
		return [2]string{res.MIMEType, res.Extension}, nil
	})
}
