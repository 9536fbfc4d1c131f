package gitlab

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/sevigo/mr-warden/internal/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := gl.NewClient("token", gl.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return NewGitLabClient(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestListTree_Pagination(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v4/projects/7/repository/tree", r.URL.Path)
		assert.Equal(t, "src", r.URL.Query().Get("path"))
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		if r.URL.Query().Get("page") == "2" {
			writeJSON(t, w, []map[string]string{{"path": "src/b.go", "type": "blob"}})
			return
		}
		w.Header().Set("X-Next-Page", "2")
		writeJSON(t, w, []map[string]string{
			{"path": "src/a.go", "type": "blob"},
			{"path": "src/pkg", "type": "tree"},
		})
	})

	entries, err := client.ListTree(context.Background(), 7, "src", "main", false)
	require.NoError(t, err)
	assert.Equal(t, []core.TreeEntry{
		{Path: "src/a.go", Kind: core.KindBlob},
		{Path: "src/pkg", Kind: core.KindTree},
		{Path: "src/b.go", Kind: core.KindBlob},
	}, entries)
}

func TestGetFileContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.EscapedPath(), "missing") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"404 File Not Found"}`))
			return
		}
		assert.Equal(t, "abc123", r.URL.Query().Get("ref"))
		writeJSON(t, w, map[string]string{"file_path": "main.go", "content": "cGFja2FnZSBtYWlu", "encoding": "base64"})
	})

	t.Run("returns encoded content", func(t *testing.T) {
		content, err := client.GetFileContent(context.Background(), 7, "main.go", "abc123")
		require.NoError(t, err)
		assert.Equal(t, "cGFja2FnZSBtYWlu", content)
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		_, err := client.GetFileContent(context.Background(), 7, "missing.go", "abc123")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrTransport)
	})
}

func TestGetApprovals(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v4/projects/7/merge_requests/3/approvals", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"approved": true,
			"approved_by": []map[string]any{
				{"user": map[string]any{"id": 352, "username": "bot"}},
				{"user": map[string]any{"id": 9, "username": "alice"}},
			},
		})
	})

	state, err := client.GetApprovals(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.True(t, state.Approved)
	assert.True(t, state.ApprovedBy(352))
	assert.True(t, state.ApprovedBy(9))
	assert.False(t, state.ApprovedBy(1))
}

func TestGetChangeSet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v4/projects/7/merge_requests/3":
			writeJSON(t, w, map[string]any{
				"iid": 3, "title": "Add parser", "description": "desc",
				"source_branch": "feature", "target_branch": "main", "sha": "deadbeef",
			})
		case "/api/v4/projects/7/merge_requests/3/diffs":
			writeJSON(t, w, []map[string]any{
				{"old_path": "a.go", "new_path": "a.go", "diff": "@@ -1 +1 @@"},
				{"old_path": "b.go", "new_path": "b.go", "deleted_file": true},
			})
		case "/api/v4/projects/7/merge_requests/3/commits":
			writeJSON(t, w, []map[string]any{{"title": "feat: parser", "message": "feat: parser\n\nbody"}})
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	cs, err := client.GetChangeSet(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cs.IID)
	assert.Equal(t, "deadbeef", cs.Revision("main"))
	require.Len(t, cs.Changes, 2)
	assert.True(t, cs.Changes[1].DeletedFile)
	require.Len(t, cs.Commits, 1)
	assert.Equal(t, "feat: parser", cs.Commits[0].Title)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(cs.Raw, &raw))
	assert.Equal(t, "Add parser", raw["title"])
	assert.Len(t, raw["changes"], 2)
}

func TestApproveAndNote_TransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"403 Forbidden"}`))
	})

	err := client.Approve(context.Background(), 7, 3)
	assert.ErrorIs(t, err, ErrTransport)

	err = client.CreateNote(context.Background(), 7, 3, "hello")
	assert.ErrorIs(t, err, ErrTransport)
}
