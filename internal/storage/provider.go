package storage

import (
	"context"
	"io"
)

// Provider persists finished export artifacts. Implementations stream: the
// writer returned by StreamToFile is fed row by row while the upload (or
// local write) runs, so an export never has to fit in memory.
type Provider interface {
	// StreamToFile begins storing an object under key and returns the writer
	// to feed it through. Closing the writer ends the object; the channel
	// then delivers exactly one value, the final storage error or nil.
	StreamToFile(ctx context.Context, key string) (io.WriteCloser, <-chan error)

	// OpenFile reads back a previously stored object.
	OpenFile(ctx context.Context, key string) (io.ReadCloser, error)

	// GetDownloadURL returns where a caller can fetch the stored object.
	GetDownloadURL(key string) string
}
