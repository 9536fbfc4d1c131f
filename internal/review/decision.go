package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/mr-warden/internal/core"
	"github.com/sevigo/mr-warden/internal/gitlab"
)

// ApprovalMarker is the literal the review template asks the model to keep
// when it approves. Its presence anywhere in the response means approve.
const ApprovalMarker = "✅ Approved"

type Decision int

const (
	DecisionApprove Decision = iota + 1
	DecisionRequestChanges
)

func (d Decision) String() string {
	switch d {
	case DecisionApprove:
		return "approving"
	case DecisionRequestChanges:
		return "requesting_changes"
	default:
		return "pending"
	}
}

type ActionKind string

const (
	ActionNote       ActionKind = "note"
	ActionApprove    ActionKind = "approve"
	ActionDiscussion ActionKind = "discussion"
	ActionUnapprove  ActionKind = "unapprove"
)

// Action is one host call. Body is set for notes and discussions.
type Action struct {
	Kind ActionKind
	Body string
}

// Plan is the outcome of Decide: the decision and the ordered host actions
// that carry it out.
type Plan struct {
	Decision       Decision
	BotHadApproved bool
	Actions        []Action
}

// Kinds lists the plan's action kinds in order.
func (p Plan) Kinds() []ActionKind {
	kinds := make([]ActionKind, 0, len(p.Actions))
	for _, a := range p.Actions {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

// Decide maps the live approval state and the model response to a plan. It
// only consults state, never earlier reviews.
//
//	marker present, bot not approver  -> note, approve
//	marker present, bot approver      -> note
//	marker absent,  bot approver      -> discussion, unapprove
//	marker absent,  bot not approver  -> discussion
func Decide(state core.ApprovalState, botUserID int64, response string) Plan {
	plan := Plan{BotHadApproved: state.ApprovedBy(botUserID)}

	if strings.Contains(response, ApprovalMarker) {
		plan.Decision = DecisionApprove
		plan.Actions = append(plan.Actions, Action{Kind: ActionNote, Body: response})
		if !plan.BotHadApproved {
			plan.Actions = append(plan.Actions, Action{Kind: ActionApprove})
		}
		return plan
	}

	plan.Decision = DecisionRequestChanges
	plan.Actions = append(plan.Actions, Action{Kind: ActionDiscussion, Body: response})
	if plan.BotHadApproved {
		plan.Actions = append(plan.Actions, Action{Kind: ActionUnapprove})
	}
	return plan
}

// PartialActionError reports a plan that stopped after some actions were
// already applied on the host. Nothing is rolled back.
type PartialActionError struct {
	Applied []ActionKind
	Failed  ActionKind
	Err     error
}

func (e *PartialActionError) Error() string {
	return fmt.Sprintf("%s: applied %v, %s failed: %v", ErrPartialAction, e.Applied, e.Failed, e.Err)
}

func (e *PartialActionError) Unwrap() []error {
	return []error{ErrPartialAction, e.Err}
}

// Executor applies plans against the host.
type Executor struct {
	client gitlab.Client
	logger *slog.Logger
}

func NewExecutor(client gitlab.Client, logger *slog.Logger) *Executor {
	return &Executor{client: client, logger: logger}
}

// Apply runs the plan's actions in order and stops at the first failure.
// A failure after at least one applied action is a *PartialActionError.
func (e *Executor) Apply(ctx context.Context, projectID, iid int64, plan Plan) error {
	applied := make([]ActionKind, 0, len(plan.Actions))
	for _, action := range plan.Actions {
		if err := e.apply(ctx, projectID, iid, action); err != nil {
			if len(applied) == 0 {
				return fmt.Errorf("%s failed: %w", action.Kind, err)
			}
			partial := &PartialActionError{Applied: applied, Failed: action.Kind, Err: err}
			e.logger.Error("decision partially applied", "project", projectID, "mr", iid,
				"applied", applied, "failed", action.Kind, "error", err)
			return partial
		}
		applied = append(applied, action.Kind)
	}
	return nil
}

func (e *Executor) apply(ctx context.Context, projectID, iid int64, action Action) error {
	switch action.Kind {
	case ActionNote:
		return e.client.CreateNote(ctx, projectID, iid, action.Body)
	case ActionDiscussion:
		return e.client.CreateDiscussion(ctx, projectID, iid, action.Body)
	case ActionApprove:
		return e.client.Approve(ctx, projectID, iid)
	case ActionUnapprove:
		return e.client.Unapprove(ctx, projectID, iid)
	default:
		return fmt.Errorf("unknown action %q", action.Kind)
	}
}
