package review

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/mr-warden/internal/config"
	"github.com/sevigo/mr-warden/internal/core"
	"github.com/sevigo/mr-warden/internal/gitlab"
	"github.com/sevigo/mr-warden/internal/llm"
	"github.com/sevigo/mr-warden/internal/logger"
)

// SnapshotStore materialises the full contents of a repository's default branch.
type SnapshotStore interface {
	Materialize(ctx context.Context, repo *core.Repository) (*core.FileContents, error)
}

// Draft is a generated review that has not been acted on yet.
type Draft struct {
	Repository   *core.Repository
	ChangeSet    *core.ChangeSet
	ChangedFiles *PhaseResult
	SnapshotSize int
	Prompt       string
	Response     string
	Verdict      llm.Verdict
}

// Engine runs one merge request through context gathering, generation and
// the approval decision. It is safe for concurrent reviews.
type Engine struct {
	client    gitlab.Client
	resolver  *ChangeSetResolver
	snapshots SnapshotStore
	assembler *Assembler
	generator llm.Generator
	executor  *Executor
	logger    *slog.Logger

	botMu     sync.Mutex
	botUserID int64
}

func NewEngine(
	cfg *config.Config,
	client gitlab.Client,
	resolver *ChangeSetResolver,
	snapshots SnapshotStore,
	assembler *Assembler,
	generator llm.Generator,
	executor *Executor,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		client:    client,
		resolver:  resolver,
		snapshots: snapshots,
		assembler: assembler,
		generator: generator,
		executor:  executor,
		logger:    logger,
		botUserID: cfg.GitLab.BotUserID,
	}
}

// Review generates a review for the event's merge request and applies the
// resulting decision.
func (e *Engine) Review(ctx context.Context, event *core.MergeRequestEvent) error {
	defer logger.Timed(e.logger, "review", "project", event.ProjectID, "mr", event.MRIID)()

	draft, err := e.Draft(ctx, event.ProjectID, event.MRIID)
	if err != nil {
		return err
	}
	plan, err := e.Plan(ctx, draft)
	if err != nil {
		return err
	}
	return e.Apply(ctx, draft, plan)
}

// Draft gathers context and generates the review text without touching the
// merge request.
func (e *Engine) Draft(ctx context.Context, projectID, iid int64) (*Draft, error) {
	log := e.logger.With("project", projectID, "mr", iid)

	repo, err := e.client.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", projectID, err)
	}
	cs, err := e.client.GetChangeSet(ctx, repo.ID, iid)
	if err != nil {
		return nil, fmt.Errorf("failed to get merge request %d: %w", iid, err)
	}
	log.Info("fetched merge request", "repo", repo.PathWithNamespace, "title", cs.Title,
		"changes", len(cs.Changes), "commits", len(cs.Commits))

	var (
		changed  *PhaseResult
		snapshot *core.FileContents
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		changed = e.resolver.Resolve(gctx, repo, cs)
		return nil
	})
	g.Go(func() error {
		var err error
		snapshot, err = e.snapshots.Materialize(gctx, repo)
		if err != nil {
			return fmt.Errorf("failed to materialize snapshot of %s: %w", repo.Name, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("done getting merge request and repository context",
		"changed_files", changed.Files.Len(), "snapshot_files", snapshot.Len())

	prompt, err := e.assembler.Assemble(snapshot, cs, changed.Files)
	if err != nil {
		return nil, err
	}
	persona, err := e.assembler.Persona()
	if err != nil {
		return nil, fmt.Errorf("failed to render persona: %w", err)
	}
	log.Info("prompt is ready", "bytes", len(prompt))

	response, err := e.generator.Generate(ctx, prompt, persona)
	if err != nil {
		return nil, fmt.Errorf("failed to generate review: %w", err)
	}
	verdict := llm.ParseVerdict(response)
	log.Info("model response ready", "mr_type", verdict.MRType, "decision", verdict.Decision)

	return &Draft{
		Repository:   repo,
		ChangeSet:    cs,
		ChangedFiles: changed,
		SnapshotSize: snapshot.Len(),
		Prompt:       prompt,
		Response:     response,
		Verdict:      verdict,
	}, nil
}

// Plan reads the live approval state and decides what to do with the draft.
func (e *Engine) Plan(ctx context.Context, draft *Draft) (Plan, error) {
	botID, err := e.resolveBotUserID(ctx)
	if err != nil {
		return Plan{}, err
	}
	state, err := e.client.GetApprovals(ctx, draft.Repository.ID, draft.ChangeSet.IID)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to read approvals: %w", err)
	}
	return Decide(state, botID, draft.Response), nil
}

// Apply carries out the plan on the merge request.
func (e *Engine) Apply(ctx context.Context, draft *Draft, plan Plan) error {
	if err := e.executor.Apply(ctx, draft.Repository.ID, draft.ChangeSet.IID, plan); err != nil {
		return err
	}

	log := e.logger.With("project", draft.Repository.ID, "mr", draft.ChangeSet.IID, "title", draft.ChangeSet.Title)
	switch plan.Decision {
	case DecisionApprove:
		log.Info("approved", "actions", plan.Kinds(), "already_approved", plan.BotHadApproved)
	default:
		log.Info("not approved", "actions", plan.Kinds())
	}
	return nil
}

// resolveBotUserID returns the configured bot user, falling back to the
// token's own user on first use.
func (e *Engine) resolveBotUserID(ctx context.Context) (int64, error) {
	e.botMu.Lock()
	defer e.botMu.Unlock()
	if e.botUserID != 0 {
		return e.botUserID, nil
	}
	id, err := e.client.CurrentUserID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve bot user: %w", err)
	}
	e.botUserID = id
	return id, nil
}
