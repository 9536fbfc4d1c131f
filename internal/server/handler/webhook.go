// Package handler provides HTTP handlers for the MR-Warden application.
package handler

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sevigo/mr-warden/internal/config"
	"github.com/sevigo/mr-warden/internal/core"
)

const (
	tokenHeader  = "X-Gitlab-Token"
	maxHookBytes = 10 << 20
)

// WebhookHandler processes incoming merge request webhooks from GitLab.
type WebhookHandler struct {
	cfg        *config.Config
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with the given configuration and dispatcher.
func NewWebhookHandler(cfg *config.Config, dispatcher core.JobDispatcher, logger *slog.Logger) *WebhookHandler {
	if cfg.GitLab.WebhookSecret == "" {
		logger.Warn("gitlab.webhook_secret is empty, only requests with an empty X-Gitlab-Token are accepted")
	}
	return &WebhookHandler{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle processes GitLab merge request webhook requests. The review itself
// runs asynchronously; the response only reports whether it was queued.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		h.logger.Warn("rejecting webhook with invalid token", "remote", r.RemoteAddr)
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	var hook core.MergeRequestHook
	if err := json.NewDecoder(io.LimitReader(r.Body, maxHookBytes)).Decode(&hook); err != nil {
		h.logger.Error("could not parse webhook", "error", err)
		http.Error(w, "Could not parse webhook", http.StatusBadRequest)
		return
	}

	event, err := core.EventFromMergeRequestHook(&hook)
	if err != nil {
		var gateErr *core.GateError
		if errors.As(err, &gateErr) {
			h.logger.Warn("merge request not eligible for review",
				"project", hook.Project.Name,
				"mr", hook.ObjectAttributes.IID,
				"reasons", strings.Join(gateErr.Reasons, "; "),
			)
			http.Error(w, gateErr.Error(), http.StatusForbidden)
			return
		}
		h.logger.Error("invalid merge request webhook", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
		h.logger.Error("failed to dispatch review job", "error", err, "project", event.ProjectName, "mr", event.MRIID)
		if errors.Is(err, core.ErrQueueFull) {
			http.Error(w, "Review queue is full", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "Failed to start review job", http.StatusInternalServerError)
		return
	}

	h.logger.Info("review job dispatched successfully", "project", event.ProjectName, "mr", event.MRIID)
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

// authorized requires the token header to be present and equal to the
// configured secret, including when that secret is empty.
func (h *WebhookHandler) authorized(r *http.Request) bool {
	values := r.Header.Values(tokenHeader)
	if len(values) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(values[0]), []byte(h.cfg.GitLab.WebhookSecret)) == 1
}
