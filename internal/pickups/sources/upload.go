package sources

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"github.com/i474232898/pickups-dashboard/internal/pickups"
)

// acceptedUploadTypes are the content types (or ancestors of them) an upload may have.
var acceptedUploadTypes = []string{"text/csv", "text/plain", "application/gzip"}

// UploadSource implements pickups.UploadSource for a file received from a user.
type UploadSource struct {
	name   string
	data   []byte
	digest string
	mime   string
}

// NewUploadSource sniffs data and returns a source for it, or an error wrapping
// pickups.ErrDataFetch if the content is not CSV (plain or gzip compressed).
func NewUploadSource(name string, data []byte) (*UploadSource, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: upload %q is empty", pickups.ErrDataFetch, name)
	}

	detected := mimetype.Detect(data)
	if !isAccepted(detected) {
		return nil, fmt.Errorf("%w: upload %q has unsupported type %s", pickups.ErrDataFetch, name, detected.String())
	}

	sum := sha256.Sum256(data)
	return &UploadSource{
		name:   name,
		data:   data,
		digest: hex.EncodeToString(sum[:]),
		mime:   detected.String(),
	}, nil
}

func (u *UploadSource) Name() string {
	return "upload " + u.name
}

// Digest returns the hex sha256 of the upload content.
func (u *UploadSource) Digest() string {
	return u.digest
}

// MIME returns the sniffed content type.
func (u *UploadSource) MIME() string {
	return u.mime
}

func (u *UploadSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(u.data)), nil
}

func isAccepted(detected *mimetype.MIME) bool {
	for m := detected; m != nil; m = m.Parent() {
		for _, accepted := range acceptedUploadTypes {
			if m.Is(accepted) {
				return true
			}
		}
	}
	return false
}
