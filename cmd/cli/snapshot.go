package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sevigo/mr-warden/internal/wire"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <project>",
	Short: "Download a project's default branch into the snapshot cache",
	Long: `Materialise the snapshot of a project's default branch so later
reviews of it skip the download. An existing snapshot is reused as is.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var project any = args[0]
	if id, err := strconv.ParseInt(args[0], 10, 64); err == nil {
		project = id
	}

	application, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer cleanup()
	defer func() { _ = application.Stop() }()

	repo, err := application.GitLab().GetProject(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to resolve project %v: %w", project, err)
	}

	manager := application.Snapshots()
	files, err := manager.Materialize(ctx, repo)
	if err != nil {
		return err
	}

	successColor.Printf("Snapshot of %s ready\n", repo.PathWithNamespace)
	printField("Path", manager.SnapshotPath(repo))
	printField("Branch", repo.DefaultBranch)
	printField("Files", files.Len())
	return nil
}
