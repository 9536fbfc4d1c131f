package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/mr-warden/internal/core"
	"github.com/sevigo/mr-warden/internal/gitlab"
	"github.com/sevigo/mr-warden/mocks"
)

const botID int64 = 352

func approvedBy(ids ...int64) core.ApprovalState {
	state := core.ApprovalState{ApproverIDs: make(map[int64]struct{})}
	for _, id := range ids {
		state.ApproverIDs[id] = struct{}{}
	}
	state.Approved = len(ids) > 0
	return state
}

func TestDecide(t *testing.T) {
	const approve = "6. 🤔 **Decision**\n    - ✅ Approved"
	const reject = "6. 🤔 **Decision**\n    - 🚧 Needs Work"

	tests := []struct {
		name         string
		state        core.ApprovalState
		response     string
		wantDecision Decision
		wantKinds    []ActionKind
	}{
		{
			name:         "A: marker present, bot has not approved",
			state:        approvedBy(9),
			response:     approve,
			wantDecision: DecisionApprove,
			wantKinds:    []ActionKind{ActionNote, ActionApprove},
		},
		{
			name:         "B: marker present, bot already approved",
			state:        approvedBy(9, botID),
			response:     approve,
			wantDecision: DecisionApprove,
			wantKinds:    []ActionKind{ActionNote},
		},
		{
			name:         "C: marker absent, bot had approved",
			state:        approvedBy(botID),
			response:     reject,
			wantDecision: DecisionRequestChanges,
			wantKinds:    []ActionKind{ActionDiscussion, ActionUnapprove},
		},
		{
			name:         "D: marker absent, bot has not approved",
			state:        approvedBy(),
			response:     reject,
			wantDecision: DecisionRequestChanges,
			wantKinds:    []ActionKind{ActionDiscussion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Decide(tt.state, botID, tt.response)
			assert.Equal(t, tt.wantDecision, plan.Decision)
			assert.Equal(t, tt.wantKinds, plan.Kinds())
			for _, a := range plan.Actions {
				if a.Kind == ActionNote || a.Kind == ActionDiscussion {
					assert.Equal(t, tt.response, a.Body)
				}
			}
		})
	}
}

func TestExecutor_Apply(t *testing.T) {
	const response = "✅ Approved"

	t.Run("A: one note with the full text and one approval", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)
		gomock.InOrder(
			client.EXPECT().CreateNote(gomock.Any(), int64(7), int64(3), response).Return(nil),
			client.EXPECT().Approve(gomock.Any(), int64(7), int64(3)).Return(nil),
		)

		plan := Decide(approvedBy(), botID, response)
		require.NoError(t, NewExecutor(client, discardLogger()).Apply(context.Background(), 7, 3, plan))
	})

	t.Run("B: one note, no approval", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)
		client.EXPECT().CreateNote(gomock.Any(), int64(7), int64(3), response).Return(nil)

		plan := Decide(approvedBy(botID), botID, response)
		require.NoError(t, NewExecutor(client, discardLogger()).Apply(context.Background(), 7, 3, plan))
	})

	t.Run("C: one discussion and one unapprove", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)
		gomock.InOrder(
			client.EXPECT().CreateDiscussion(gomock.Any(), int64(7), int64(3), "needs work").Return(nil),
			client.EXPECT().Unapprove(gomock.Any(), int64(7), int64(3)).Return(nil),
		)

		plan := Decide(approvedBy(botID), botID, "needs work")
		require.NoError(t, NewExecutor(client, discardLogger()).Apply(context.Background(), 7, 3, plan))
	})

	t.Run("D: one discussion, no unapprove", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)
		client.EXPECT().CreateDiscussion(gomock.Any(), int64(7), int64(3), "needs work").Return(nil)

		plan := Decide(approvedBy(), botID, "needs work")
		require.NoError(t, NewExecutor(client, discardLogger()).Apply(context.Background(), 7, 3, plan))
	})

	t.Run("approval fails after the note was posted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)
		hostErr := errors.Join(gitlab.ErrTransport, errors.New("403 Forbidden"))
		client.EXPECT().CreateNote(gomock.Any(), int64(7), int64(3), response).Return(nil)
		client.EXPECT().Approve(gomock.Any(), int64(7), int64(3)).Return(hostErr)

		err := NewExecutor(client, discardLogger()).Apply(context.Background(), 7, 3, Decide(approvedBy(), botID, response))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPartialAction)
		assert.ErrorIs(t, err, gitlab.ErrTransport)

		var partial *PartialActionError
		require.ErrorAs(t, err, &partial)
		assert.Equal(t, []ActionKind{ActionNote}, partial.Applied)
		assert.Equal(t, ActionApprove, partial.Failed)
	})

	t.Run("first action fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)
		client.EXPECT().CreateDiscussion(gomock.Any(), int64(7), int64(3), "no").Return(errors.New("boom"))

		err := NewExecutor(client, discardLogger()).Apply(context.Background(), 7, 3, Decide(approvedBy(botID), botID, "no"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrPartialAction)
	})
}
