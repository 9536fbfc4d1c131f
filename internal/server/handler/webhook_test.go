package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/mr-warden/internal/config"
	"github.com/sevigo/mr-warden/internal/core"
)

type stubDispatcher struct {
	events []*core.MergeRequestEvent
	err    error
}

func (s *stubDispatcher) Dispatch(_ context.Context, event *core.MergeRequestEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *stubDispatcher) Stop() {}

const eligibleHook = `{
  "event_type": "merge_request",
  "project": {"id": 15, "name": "svc"},
  "object_attributes": {
    "iid": 7,
    "title": "Add cache",
    "draft": false,
    "work_in_progress": false,
    "blocking_discussions_resolved": true,
    "action": "update",
    "state": "opened"
  }
}`

func newHandler(secret string, d core.JobDispatcher) *WebhookHandler {
	cfg := &config.Config{GitLab: config.GitLabConfig{WebhookSecret: secret}}
	return NewWebhookHandler(cfg, d, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func post(h *WebhookHandler, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/review-mr", strings.NewReader(body))
	req.Header.Set(tokenHeader, token)
	return serve(h, req)
}

func serve(h *WebhookHandler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestWebhookHandler_Accepts(t *testing.T) {
	d := &stubDispatcher{}
	rec := post(newHandler("s3cret", d), "s3cret", eligibleHook)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	require.Len(t, d.events, 1)
	assert.Equal(t, int64(15), d.events[0].ProjectID)
	assert.Equal(t, int64(7), d.events[0].MRIID)
	assert.Equal(t, "svc", d.events[0].ProjectName)
}

func TestWebhookHandler_Token(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		token    string
		wantCode int
	}{
		{name: "Empty token", secret: "s3cret", wantCode: http.StatusUnauthorized},
		{name: "Wrong token", secret: "s3cret", token: "guess", wantCode: http.StatusUnauthorized},
		{name: "Wrong token without secret", secret: "", token: "guess", wantCode: http.StatusUnauthorized},
		{name: "Empty token without secret", secret: "", token: "", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &stubDispatcher{}
			rec := post(newHandler(tt.secret, d), tt.token, eligibleHook)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				assert.Empty(t, d.events)
			}
		})
	}
}

func TestWebhookHandler_MissingHeader(t *testing.T) {
	for _, secret := range []string{"s3cret", ""} {
		d := &stubDispatcher{}
		req := httptest.NewRequest(http.MethodPost, "/review-mr", strings.NewReader(eligibleHook))

		rec := serve(newHandler(secret, d), req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "secret %q", secret)
		assert.Empty(t, d.events)
	}
}

func TestWebhookHandler_GateFailure(t *testing.T) {
	d := &stubDispatcher{}
	body := strings.NewReplacer(`"draft": false`, `"draft": true`, `"state": "opened"`, `"state": "merged"`).Replace(eligibleHook)

	rec := post(newHandler("", d), "", body)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "draft = true")
	assert.Contains(t, rec.Body.String(), `state = "merged"`)
	assert.Empty(t, d.events)
}

func TestWebhookHandler_BadPayload(t *testing.T) {
	rec := post(newHandler("", &stubDispatcher{}), "", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookHandler_DispatchErrors(t *testing.T) {
	rec := post(newHandler("", &stubDispatcher{err: core.ErrQueueFull}), "", eligibleHook)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = post(newHandler("", &stubDispatcher{err: errors.New("closed")}), "", eligibleHook)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
