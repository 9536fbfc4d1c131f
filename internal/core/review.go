package core

import (
	"sort"
	"sync"
)

// Repository identifies a remote GitLab project. It is immutable for the
// duration of one review.
type Repository struct {
	ID                int64
	Name              string
	PathWithNamespace string
	DefaultBranch     string
	WebURL            string
	HTTPURLToRepo     string
}

// EntryKind classifies a tree entry.
type EntryKind string

const (
	KindBlob EntryKind = "blob"
	KindTree EntryKind = "tree"
)

// TreeEntry is a single item of a repository tree listing.
type TreeEntry struct {
	Path string
	Kind EntryKind
}

// Change is one file touched by a merge request.
type Change struct {
	OldPath     string `json:"old_path"`
	NewPath     string `json:"new_path"`
	Diff        string `json:"diff"`
	NewFile     bool   `json:"new_file"`
	RenamedFile bool   `json:"renamed_file"`
	DeletedFile bool   `json:"deleted_file"`
}

// Commit is the title and message of one merge request commit.
type Commit struct {
	Title   string
	Message string
}

// ChangeSet is a pending merge request as read from the host. It is sourced
// once per review and read-only afterwards.
type ChangeSet struct {
	IID          int64
	Title        string
	Description  string
	SourceBranch string
	TargetBranch string
	HeadSHA      string
	WebURL       string
	Changes      []Change
	// Commits are kept in the order the host reported them.
	Commits []Commit
	// Raw is the host's merge request payload (metadata plus diffs) as JSON.
	Raw []byte
}

// Revision returns the ref touched files should be read at.
func (c *ChangeSet) Revision(fallback string) string {
	switch {
	case c.HeadSHA != "":
		return c.HeadSHA
	case c.SourceBranch != "":
		return c.SourceBranch
	default:
		return fallback
	}
}

// ApprovalState is the live approval state of a merge request.
type ApprovalState struct {
	Approved    bool
	ApproverIDs map[int64]struct{}
}

// ApprovedBy reports whether the given user is among the current approvers.
func (s ApprovalState) ApprovedBy(userID int64) bool {
	_, ok := s.ApproverIDs[userID]
	return ok
}

// FileContents maps file paths to decoded text. It is safe for concurrent use.
type FileContents struct {
	mu    sync.RWMutex
	files map[string]string
}

// NewFileContents returns an empty FileContents.
func NewFileContents() *FileContents {
	return &FileContents{files: make(map[string]string)}
}

// Set stores the content for path, replacing any previous value.
func (f *FileContents) Set(path, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = content
}

// Get returns the content stored for path.
func (f *FileContents) Get(path string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	content, ok := f.files[path]
	return content, ok
}

// Len returns the number of stored files.
func (f *FileContents) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.files)
}

// Paths returns all stored paths in lexical order.
func (f *FileContents) Paths() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	paths := make([]string, 0, len(f.files))
	for p := range f.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Each calls fn for every file in lexical path order.
func (f *FileContents) Each(fn func(path, content string)) {
	for _, p := range f.Paths() {
		content, _ := f.Get(p)
		fn(p, content)
	}
}
