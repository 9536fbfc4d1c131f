package review

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/mr-warden/internal/core"
	"github.com/sevigo/mr-warden/internal/gitlab"
	"github.com/sevigo/mr-warden/mocks"
)

func encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestDecodeBlob(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    string
		wantErr error
	}{
		{name: "escaped newlines are restored", encoded: encode(`line one\nline two`), want: "line one\nline two"},
		{name: "correct text is a fixed point", encoded: encode("line one\nline two\n"), want: "line one\nline two\n"},
		{name: "wrapped base64", encoded: encode("hello")[:4] + "\n" + encode("hello")[4:], want: "hello"},
		{name: "empty file", encoded: "", want: ""},
		{name: "binary content", encoded: base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0x00}), wantErr: ErrDecode},
		{name: "not base64", encoded: "%%%", wantErr: ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBlob("file.txt", tt.encoded)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrBlobRead)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := DecodeBlob("file.txt", encode(got))
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestBlobFetcher_Fetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	repo := &core.Repository{ID: 7, Name: "svc"}

	client.EXPECT().GetFileContent(gomock.Any(), int64(7), "main.go", "abc").Return(encode("package main"), nil)
	client.EXPECT().GetFileContent(gomock.Any(), int64(7), "gone.go", "abc").
		Return("", errors.Join(gitlab.ErrNotFound, errors.New("404")))

	fetcher := NewBlobFetcher(client)

	content, err := fetcher.Fetch(context.Background(), repo, "main.go", "abc")
	require.NoError(t, err)
	assert.Equal(t, "package main", content)

	_, err = fetcher.Fetch(context.Background(), repo, "gone.go", "abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBlobRead)
	assert.ErrorIs(t, err, gitlab.ErrNotFound)
	assert.Contains(t, err.Error(), "gone.go")
}
