// Package repomanager keeps on-disk snapshots of repositories' default
// branches and reads them back as review context.
package repomanager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sevigo/mr-warden/internal/config"
	"github.com/sevigo/mr-warden/internal/core"
	"github.com/sevigo/mr-warden/internal/gitlab"
	"github.com/sevigo/mr-warden/internal/gitutil"
	"github.com/sevigo/mr-warden/internal/review"
	"github.com/sevigo/mr-warden/internal/util"
)

const cloneTimeout = 5 * time.Minute

// Manager materialises repository snapshots under the install path.
//
// A snapshot directory is keyed by repository name only. Once it exists it is
// treated as complete and is never refreshed for the life of the process.
type Manager struct {
	cfg       *config.Config
	client    gitlab.Client
	walker    *review.TreeWalker
	gitClient *gitutil.Client
	logger    *slog.Logger
	repoMux   sync.Map
}

// New creates a new Manager.
func New(cfg *config.Config, client gitlab.Client, walker *review.TreeWalker, gitClient *gitutil.Client, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:       cfg,
		client:    client,
		walker:    walker,
		gitClient: gitClient,
		logger:    logger,
	}
}

// SnapshotPath is the directory the repository's snapshot lives in.
func (m *Manager) SnapshotPath(repo *core.Repository) string {
	return filepath.Join(m.cfg.Review.InstallPath, util.SafeDirName(repo.Name))
}

// Materialize makes sure a snapshot of repo exists on disk and returns the
// contents of its readable text files, keyed by on-disk path.
func (m *Manager) Materialize(ctx context.Context, repo *core.Repository) (*core.FileContents, error) {
	dest := m.SnapshotPath(repo)

	val, _ := m.repoMux.LoadOrStore(dest, &sync.Mutex{})
	mux, ok := val.(*sync.Mutex)
	if !ok {
		return nil, fmt.Errorf("internal error: failed to assert mutex type")
	}
	mux.Lock()
	defer mux.Unlock()

	exists, err := dirExists(dest)
	if err != nil {
		return nil, err
	}
	if exists {
		m.logger.Debug("snapshot already present, skipping download", "repo", repo.Name, "path", dest)
	} else {
		if err := os.MkdirAll(m.cfg.Review.InstallPath, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create install path: %w", err)
		}
		if err := m.populate(ctx, repo, dest); err != nil {
			m.cleanupRepoDir(dest)
			return nil, err
		}
	}

	files, err := m.readSnapshot(dest)
	if err != nil {
		return nil, err
	}
	m.logger.Info("done reading repository contents", "repo", repo.Name, "files", files.Len())
	return files, nil
}

func (m *Manager) populate(ctx context.Context, repo *core.Repository, dest string) error {
	switch m.cfg.Review.SnapshotSource {
	case config.SnapshotSourceArchive, "":
		return m.fromArchive(ctx, repo, dest)
	case config.SnapshotSourceClone:
		return m.fromClone(ctx, repo, dest)
	case config.SnapshotSourceTree:
		return m.fromTree(ctx, repo, dest)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSource, m.cfg.Review.SnapshotSource)
	}
}

// fromArchive downloads a zip of the default branch next to dest, extracts it
// into dest and always removes the zip afterwards.
func (m *Manager) fromArchive(ctx context.Context, repo *core.Repository, dest string) error {
	data, err := m.client.Archive(ctx, repo.ID, "zip")
	if err != nil {
		return fmt.Errorf("failed to download archive of %s: %w", repo.Name, err)
	}

	zipPath := dest + ".zip"
	if err := os.WriteFile(zipPath, data, 0o600); err != nil {
		m.removeFile(zipPath)
		return fmt.Errorf("failed to write archive: %w", err)
	}
	defer m.removeFile(zipPath)

	if err := os.MkdirAll(dest, 0o750); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := extractZip(zipPath, dest); err != nil {
		return fmt.Errorf("failed to extract archive of %s: %w", repo.Name, err)
	}
	m.logger.Info("repository archive extracted", "repo", repo.Name, "path", dest, "bytes", len(data))
	return nil
}

func (m *Manager) fromClone(ctx context.Context, repo *core.Repository, dest string) error {
	cloneCtx, cancel := context.WithTimeout(ctx, cloneTimeout)
	defer cancel()

	return m.gitClient.ShallowClone(cloneCtx, repo.HTTPURLToRepo, repo.DefaultBranch, dest, m.cfg.GitLab.Token)
}

// fromTree walks the repository through the API and writes what it read to
// dest so later calls can reuse it.
func (m *Manager) fromTree(ctx context.Context, repo *core.Repository, dest string) error {
	result, err := m.walker.Walk(ctx, repo, repo.DefaultBranch, "")
	if err != nil {
		return err
	}

	var writeErr error
	result.Files.Each(func(path, content string) {
		if writeErr != nil {
			return
		}
		target, err := safeJoin(dest, path)
		if err != nil {
			writeErr = err
			return
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			writeErr = err
			return
		}
		writeErr = os.WriteFile(target, []byte(content), 0o600)
	})
	if writeErr != nil {
		return fmt.Errorf("failed to write tree snapshot: %w", writeErr)
	}
	if result.Files.Len() == 0 {
		// Keep the directory so an empty repository is not walked again.
		return os.MkdirAll(dest, 0o750)
	}
	return nil
}

func (m *Manager) cleanupRepoDir(path string) {
	if err := os.RemoveAll(path); err != nil {
		m.logger.Warn("failed to clean up repository directory", "path", path, "error", err)
	}
}

func (m *Manager) removeFile(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.logger.Warn("failed to remove archive", "path", path, "error", err)
	}
}

func dirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return info.IsDir(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
}
