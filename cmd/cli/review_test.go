package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeRequestTarget(t *testing.T) {
	t.Run("from url", func(t *testing.T) {
		project, iid, host, err := mergeRequestTarget([]string{"https://gitlab.example.com/group/sub/svc/-/merge_requests/42"})
		require.NoError(t, err)
		assert.Equal(t, "group/sub/svc", project)
		assert.Equal(t, int64(42), iid)
		assert.Equal(t, "gitlab.example.com", host)
	})

	t.Run("numeric project flag", func(t *testing.T) {
		projectRef, mrIID = "1234", 7
		defer func() { projectRef, mrIID = "", 0 }()

		project, iid, _, err := mergeRequestTarget(nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1234), project)
		assert.Equal(t, int64(7), iid)
	})

	t.Run("path project flag", func(t *testing.T) {
		projectRef, mrIID = "group/svc", 3
		defer func() { projectRef, mrIID = "", 0 }()

		project, _, _, err := mergeRequestTarget(nil)
		require.NoError(t, err)
		assert.Equal(t, "group/svc", project)
	})

	t.Run("missing target", func(t *testing.T) {
		_, _, _, err := mergeRequestTarget(nil)
		assert.Error(t, err)
	})

	t.Run("bad url", func(t *testing.T) {
		_, _, _, err := mergeRequestTarget([]string{"https://gitlab.example.com/group/svc"})
		assert.Error(t, err)
	})
}

func TestSameHost(t *testing.T) {
	assert.True(t, sameHost("gitlab.example.com", "https://GitLab.example.com"))
	assert.False(t, sameHost("gitlab.com", "https://gitlab.example.com/"))
}
