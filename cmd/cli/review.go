package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/mr-warden/internal/gitutil"
	"github.com/sevigo/mr-warden/internal/review"
	"github.com/sevigo/mr-warden/internal/wire"
)

var (
	projectRef string
	mrIID      int64
	dryRun     bool
	verbose    bool
)

var reviewCmd = &cobra.Command{
	Use:   "review [mr-url]",
	Short: "Review a GitLab merge request",
	Long: `Review a GitLab merge request the same way the webhook does.

The merge request is named either by its URL or by --project and --mr.
With --dry-run the review is printed and the planned actions are listed,
but nothing is posted and the approval is left alone.

Examples:
  mrw-cli review https://gitlab.example.com/group/svc/-/merge_requests/42
  mrw-cli review --project group/svc --mr 42 --dry-run
  mrw-cli review --project 1234 --mr 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project id or path with namespace")
	reviewCmd.Flags().Int64VarP(&mrIID, "mr", "m", 0, "Merge request iid")
	reviewCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the review without commenting or changing the approval")
	reviewCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the assembled prompt as well")
	rootCmd.AddCommand(reviewCmd)
}

// mergeRequestTarget resolves the command line into a project reference
// (numeric id or path) and an iid.
func mergeRequestTarget(args []string) (project any, iid int64, host string, err error) {
	if len(args) == 1 {
		host, path, iid, err := gitutil.ParseMergeRequestURL(args[0])
		if err != nil {
			return nil, 0, "", err
		}
		return path, iid, host, nil
	}
	if projectRef == "" || mrIID <= 0 {
		return nil, 0, "", errors.New("either a merge request URL or both --project and --mr are required")
	}
	if id, err := strconv.ParseInt(projectRef, 10, 64); err == nil {
		return id, mrIID, "", nil
	}
	return projectRef, mrIID, "", nil
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	project, iid, host, err := mergeRequestTarget(args)
	if err != nil {
		return err
	}

	titleColor.Println("MR-Warden - merge request review")

	application, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w\n\nTip: check that your config.yml exists and is valid", err)
	}
	defer cleanup()
	defer func() { _ = application.Stop() }()

	if host != "" && !sameHost(host, application.Config().GitLab.URL) {
		warnColor.Printf("   URL host %s differs from configured gitlab.url %s\n", host, application.Config().GitLab.URL)
	}

	repo, err := application.GitLab().GetProject(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to resolve project %v: %w", project, err)
	}

	engine := application.Engine()
	draft, err := engine.Draft(ctx, repo.ID, iid)
	if err != nil {
		return err
	}

	printField("Repository", draft.Repository.PathWithNamespace)
	printField("Merge request", fmt.Sprintf("!%d %s", draft.ChangeSet.IID, draft.ChangeSet.Title))
	printField("Changed files", fmt.Sprintf("%d (%d unreadable)", draft.ChangedFiles.Files.Len(), len(draft.ChangedFiles.Failures)))
	printField("Snapshot files", draft.SnapshotSize)
	printField("Prompt bytes", len(draft.Prompt))
	if draft.Verdict.MRType != "" {
		printField("MR type", draft.Verdict.MRType)
	}

	if verbose {
		boldColor.Println("\nPrompt")
		fmt.Println(draft.Prompt)
	}

	boldColor.Println("\nReview")
	fmt.Println(renderMarkdown(draft.Response))

	plan, err := engine.Plan(ctx, draft)
	if err != nil {
		return err
	}
	printPlan(plan)

	if dryRun {
		warnColor.Println("\nDry run: nothing was posted.")
		return nil
	}
	if err := engine.Apply(ctx, draft, plan); err != nil {
		return err
	}
	successColor.Printf("\nDone in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func printPlan(plan review.Plan) {
	kinds := make([]string, 0, len(plan.Actions))
	for _, k := range plan.Kinds() {
		kinds = append(kinds, string(k))
	}
	printField("Decision", plan.Decision)
	printField("Actions", strings.Join(kinds, ", "))
}

func sameHost(host, baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, host)
}
