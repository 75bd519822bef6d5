package pickups

import (
	"context"
	"io"
)

// Source abstracts where raw CSV bytes come from (the remote pickups file, an upload).
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// UploadSource is a caller-supplied file identified by a digest of its content.
type UploadSource interface {
	Source
	Digest() string
}
