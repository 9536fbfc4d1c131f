package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/mr-warden/internal/config"
	"github.com/sevigo/mr-warden/internal/core"
	"github.com/sevigo/mr-warden/mocks"
)

type fakeSnapshots struct {
	files *core.FileContents
	err   error
	calls int
}

func (f *fakeSnapshots) Materialize(context.Context, *core.Repository) (*core.FileContents, error) {
	f.calls++
	return f.files, f.err
}

type engineDeps struct {
	client    *mocks.MockClient
	generator *mocks.MockGenerator
	snapshots *fakeSnapshots
	engine    *Engine
}

func newTestEngine(t *testing.T, botUserID int64) *engineDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := &engineDeps{
		client:    mocks.NewMockClient(ctrl),
		generator: mocks.NewMockGenerator(ctrl),
		snapshots: &fakeSnapshots{files: filesOf("/tmp/repos/svc/README.md", "# svc")},
	}
	cfg := &config.Config{GitLab: config.GitLabConfig{BotUserID: botUserID}}
	logger := discardLogger()
	d.engine = NewEngine(cfg,
		d.client,
		NewChangeSetResolver(NewBlobFetcher(d.client), NewPool(4), logger),
		d.snapshots,
		newAssembler(t),
		d.generator,
		NewExecutor(d.client, logger),
		logger,
	)
	return d
}

func (d *engineDeps) expectContext() {
	repo := &core.Repository{ID: 7, Name: "svc", PathWithNamespace: "team/svc", DefaultBranch: "main"}
	d.client.EXPECT().GetProject(gomock.Any(), int64(7)).Return(repo, nil)
	d.client.EXPECT().GetChangeSet(gomock.Any(), int64(7), int64(3)).Return(&core.ChangeSet{
		IID:     3,
		Title:   "Tidy handlers",
		HeadSHA: "cafe",
		Changes: []core.Change{
			{OldPath: "ok.go", NewPath: "ok.go", Diff: "+ok"},
			{OldPath: "broken.go", NewPath: "broken.go", Diff: "+broken"},
		},
		Commits: []core.Commit{{Title: "refactor: handlers", Message: "refactor: handlers"}},
		Raw:     []byte(`{"iid":3}`),
	}, nil)
	d.client.EXPECT().GetFileContent(gomock.Any(), int64(7), "ok.go", "cafe").Return(encode("func ok() {}"), nil)
	d.client.EXPECT().GetFileContent(gomock.Any(), int64(7), "broken.go", "cafe").Return("", errors.New("connection reset"))
}

func TestEngine_Review_EndToEnd(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newTestEngine(t, 0)
	d.expectContext()

	var prompt string
	d.generator.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p, system string) (string, error) {
			prompt = p
			assert.Contains(t, system, "iamksm-bot")
			return "1. 🧰 **MR Type**\n - **📌 Refactoring**\n6. 🤔 **Decision**\n - ✅ Approved", nil
		})
	d.client.EXPECT().CurrentUserID(gomock.Any()).Return(int64(352), nil)
	d.client.EXPECT().GetApprovals(gomock.Any(), int64(7), int64(3)).Return(approvedBy(9), nil)
	d.client.EXPECT().CreateNote(gomock.Any(), int64(7), int64(3), gomock.Any()).Return(nil)
	d.client.EXPECT().Approve(gomock.Any(), int64(7), int64(3)).Return(nil)

	err := d.engine.Review(context.Background(), &core.MergeRequestEvent{ProjectID: 7, MRIID: 3})
	require.NoError(t, err)

	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "--- ok.go ---\nfunc ok() {}")
	assert.NotContains(t, prompt, "--- broken.go ---")
	assert.Contains(t, prompt, "# svc")
	assert.Equal(t, 1, d.snapshots.calls)
}

func TestEngine_Review_ConfiguredBotSkipsLookup(t *testing.T) {
	d := newTestEngine(t, 352)
	d.expectContext()

	d.generator.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Return("🚧 Needs Work", nil)
	d.client.EXPECT().GetApprovals(gomock.Any(), int64(7), int64(3)).Return(approvedBy(352), nil)
	d.client.EXPECT().CreateDiscussion(gomock.Any(), int64(7), int64(3), "🚧 Needs Work").Return(nil)
	d.client.EXPECT().Unapprove(gomock.Any(), int64(7), int64(3)).Return(nil)

	require.NoError(t, d.engine.Review(context.Background(), &core.MergeRequestEvent{ProjectID: 7, MRIID: 3}))
}

func TestEngine_Review_Failures(t *testing.T) {
	t.Run("change set fetch aborts the review", func(t *testing.T) {
		d := newTestEngine(t, 352)
		d.client.EXPECT().GetProject(gomock.Any(), int64(7)).Return(&core.Repository{ID: 7, Name: "svc"}, nil)
		d.client.EXPECT().GetChangeSet(gomock.Any(), int64(7), int64(3)).Return(nil, errors.New("502"))

		err := d.engine.Review(context.Background(), &core.MergeRequestEvent{ProjectID: 7, MRIID: 3})
		assert.Error(t, err)
		assert.Equal(t, 0, d.snapshots.calls)
	})

	t.Run("snapshot failure aborts before generation", func(t *testing.T) {
		d := newTestEngine(t, 352)
		d.snapshots.err = errors.New("disk full")
		d.expectContext()

		err := d.engine.Review(context.Background(), &core.MergeRequestEvent{ProjectID: 7, MRIID: 3})
		assert.ErrorContains(t, err, "disk full")
	})

	t.Run("generation failure leaves the merge request untouched", func(t *testing.T) {
		d := newTestEngine(t, 352)
		d.expectContext()
		d.generator.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("model not found"))

		err := d.engine.Review(context.Background(), &core.MergeRequestEvent{ProjectID: 7, MRIID: 3})
		assert.ErrorContains(t, err, "model not found")
	})
}
