package wire

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/sevigo/mr-warden/internal/app"
	"github.com/sevigo/mr-warden/internal/config"
	"github.com/sevigo/mr-warden/internal/core"
	"github.com/sevigo/mr-warden/internal/gitlab"
	"github.com/sevigo/mr-warden/internal/gitutil"
	"github.com/sevigo/mr-warden/internal/jobs"
	"github.com/sevigo/mr-warden/internal/llm"
	"github.com/sevigo/mr-warden/internal/logger"
	"github.com/sevigo/mr-warden/internal/repomanager"
	"github.com/sevigo/mr-warden/internal/review"
	"github.com/sevigo/mr-warden/internal/server"
)

// ProviderSet is the full application graph.
var ProviderSet = wire.NewSet(
	config.LoadConfig,
	provideSlogLogger,
	gitlab.NewTokenClient,
	gitutil.NewClient,
	llm.NewPromptManager,
	llm.NewGenerator,
	providePool,
	review.NewBlobFetcher,
	review.NewTreeWalker,
	review.NewChangeSetResolver,
	provideAssembler,
	review.NewExecutor,
	repomanager.New,
	wire.Bind(new(review.SnapshotStore), new(*repomanager.Manager)),
	review.NewEngine,
	wire.Bind(new(jobs.Reviewer), new(*review.Engine)),
	jobs.NewReviewJob,
	provideDispatcher,
	server.NewServer,
	app.NewApp,
)

func provideSlogLogger(cfg *config.Config) *slog.Logger {
	log := logger.NewLogger(cfg.Logging, nil)
	slog.SetDefault(log)
	return log
}

func providePool(cfg *config.Config) *review.Pool {
	return review.NewPool(cfg.Review.MaxFetchWorkers)
}

func provideAssembler(cfg *config.Config, prompts *llm.PromptManager) *review.Assembler {
	return review.NewAssembler(prompts, llm.ModelProvider(cfg.Generator.Provider))
}

func provideDispatcher(cfg *config.Config, job core.Job, logger *slog.Logger) core.JobDispatcher {
	return jobs.NewDispatcher(job, cfg.MaxWorkers, logger)
}
