// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"fmt"
	"strings"
)

// MergeRequestEvent represents a simplified, internal view of a GitLab merge
// request webhook that passed every review gate.
type MergeRequestEvent struct {
	ProjectID   int64
	ProjectName string
	MRIID       int64
	MRTitle     string
	Action      string
}

// MergeRequestHook is the subset of the GitLab merge request webhook payload
// the gates are evaluated on. Pointer fields distinguish "absent" from "false".
type MergeRequestHook struct {
	EventType string `json:"event_type"`
	Project   struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"project"`
	ObjectAttributes struct {
		IID                         int64  `json:"iid"`
		Title                       string `json:"title"`
		Draft                       *bool  `json:"draft"`
		WorkInProgress              *bool  `json:"work_in_progress"`
		BlockingDiscussionsResolved *bool  `json:"blocking_discussions_resolved"`
		Action                      string `json:"action"`
		State                       string `json:"state"`
	} `json:"object_attributes"`
}

// GateError lists every review gate a webhook payload failed.
type GateError struct {
	Reasons []string
}

func (e *GateError) Error() string {
	return "cannot review due to: " + strings.Join(e.Reasons, "; ")
}

// EventFromMergeRequestHook transforms a raw GitLab merge request webhook into the
// application's internal MergeRequestEvent. It acts as an anti-corruption layer:
// only opened, non-draft, non-WIP merge requests without blocking discussions,
// on an open or update action, are turned into review events. Every failed gate
// is reported, not just the first one.
func EventFromMergeRequestHook(hook *MergeRequestHook) (*MergeRequestEvent, error) {
	attrs := hook.ObjectAttributes
	var reasons []string

	if hook.EventType != "merge_request" {
		reasons = append(reasons, fmt.Sprintf("event_type = %q should be `merge_request`", hook.EventType))
	}
	if attrs.Draft == nil || *attrs.Draft {
		reasons = append(reasons, fmt.Sprintf("draft = %s should be `false`", boolField(attrs.Draft)))
	}
	if attrs.WorkInProgress == nil || *attrs.WorkInProgress {
		reasons = append(reasons, fmt.Sprintf("work_in_progress = %s should be `false`", boolField(attrs.WorkInProgress)))
	}
	if attrs.BlockingDiscussionsResolved == nil || !*attrs.BlockingDiscussionsResolved {
		reasons = append(reasons, fmt.Sprintf("blocking_discussions_resolved = %s should be `true`", boolField(attrs.BlockingDiscussionsResolved)))
	}
	if attrs.Action != "open" && attrs.Action != "update" {
		reasons = append(reasons, fmt.Sprintf("action = %q should be either open or update", attrs.Action))
	}
	if attrs.State != "opened" {
		reasons = append(reasons, fmt.Sprintf("state = %q should be opened", attrs.State))
	}
	if len(reasons) > 0 {
		return nil, &GateError{Reasons: reasons}
	}

	if hook.Project.ID <= 0 {
		return nil, fmt.Errorf("invalid project id: %d", hook.Project.ID)
	}
	if attrs.IID <= 0 {
		return nil, fmt.Errorf("invalid merge request iid: %d", attrs.IID)
	}

	return &MergeRequestEvent{
		ProjectID:   hook.Project.ID,
		ProjectName: hook.Project.Name,
		MRIID:       attrs.IID,
		MRTitle:     attrs.Title,
		Action:      attrs.Action,
	}, nil
}

func boolField(b *bool) string {
	if b == nil {
		return "<missing>"
	}
	return fmt.Sprintf("%t", *b)
}
