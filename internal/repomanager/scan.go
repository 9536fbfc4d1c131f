package repomanager

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/sevigo/mr-warden/internal/config"
	"github.com/sevigo/mr-warden/internal/core"
)

// readSnapshot walks the snapshot and reads every file worth reviewing. An
// archive wraps the repository in a single top-level folder; when that is the
// only entry, the walk starts inside it.
func (m *Manager) readSnapshot(dest string) (*core.FileContents, error) {
	wrapped := m.cfg.Review.SnapshotSource == config.SnapshotSourceArchive || m.cfg.Review.SnapshotSource == ""
	root, err := snapshotRoot(dest, wrapped)
	if err != nil {
		return nil, err
	}

	repoCfg, err := config.LoadRepoConfig(root)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		m.logger.Warn("ignoring invalid repository config", "path", root, "error", err)
	}
	rules := newScanRules(m.cfg.Review.IgnoreExtensions, repoCfg)

	files := core.NewFileContents()
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && rules.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || rules.skipFile(d.Name()) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if !utf8.Valid(data) {
			return nil
		}
		files.Set(path, string(data))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk snapshot %s: %w", dest, err)
	}
	return files, nil
}

// snapshotRoot returns the directory the walk starts from. Only an archive's
// wrapper folder is descended into, and never a hidden one.
func snapshotRoot(dest string, wrapped bool) (string, error) {
	entries, err := os.ReadDir(dest)
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot directory: %w", err)
	}
	if wrapped && len(entries) == 1 && entries[0].IsDir() && !strings.HasPrefix(entries[0].Name(), ".") {
		return filepath.Join(dest, entries[0].Name()), nil
	}
	return dest, nil
}

type scanRules struct {
	excludeDirs map[string]struct{}
	excludeExts map[string]struct{}
}

func newScanRules(ignoreExts []string, repoCfg *core.RepoConfig) scanRules {
	rules := scanRules{
		excludeDirs: make(map[string]struct{}),
		excludeExts: make(map[string]struct{}),
	}
	for _, ext := range ignoreExts {
		rules.excludeExts[normalizeExt(ext)] = struct{}{}
	}
	if repoCfg != nil {
		for _, dir := range repoCfg.ExcludeDirs {
			rules.excludeDirs[strings.Trim(dir, "/")] = struct{}{}
		}
		for _, ext := range repoCfg.ExcludeExts {
			rules.excludeExts[normalizeExt(ext)] = struct{}{}
		}
	}
	return rules
}

func (r scanRules) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := r.excludeDirs[name]
	return ok
}

func (r scanRules) skipFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := r.excludeExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
