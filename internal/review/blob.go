package review

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sevigo/mr-warden/internal/core"
	"github.com/sevigo/mr-warden/internal/gitlab"
)

// BlobFetcher reads a single file at a revision and decodes it to text.
type BlobFetcher struct {
	client gitlab.Client
}

func NewBlobFetcher(client gitlab.Client) *BlobFetcher {
	return &BlobFetcher{client: client}
}

// Fetch returns the text content of path at ref. Every failure wraps
// ErrBlobRead; content that is not text additionally wraps ErrDecode.
func (f *BlobFetcher) Fetch(ctx context.Context, repo *core.Repository, path, ref string) (string, error) {
	encoded, err := f.client.GetFileContent(ctx, repo.ID, path, ref)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrBlobRead, path, err)
	}
	return DecodeBlob(path, encoded)
}

// DecodeBlob decodes host-encoded (base64) content. The host escapes some
// newlines as the two characters `\n`; they are turned back into newlines,
// which leaves already-correct text unchanged.
func DecodeBlob(path, encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(encoded), ""))
	if err != nil {
		return "", fmt.Errorf("%w %s: %w: %w", ErrBlobRead, path, ErrDecode, err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w %s: %w", ErrBlobRead, path, ErrDecode)
	}
	return strings.ReplaceAll(string(raw), `\n`, "\n"), nil
}
