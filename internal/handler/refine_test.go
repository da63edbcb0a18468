package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/promptforge/promptforge/internal/auth"
	"github.com/promptforge/promptforge/internal/handler/dto"
	"github.com/promptforge/promptforge/internal/llm"
	"github.com/promptforge/promptforge/internal/model"
	"github.com/promptforge/promptforge/internal/service"
)

func newRefineHandler(store *fakeUserStore, provider llm.Provider) *RefineHandler {
	ledger := service.NewQuotaLedger(store, 25, 5, nil)
	svc := service.NewRefineService(service.RefineConfig{
		Ledger: ledger,
		Providers: map[model.Tier]llm.Provider{
			model.TierBasic: provider,
			model.TierPro:   provider,
		},
		UpstreamTimeout: time.Second,
		MaxPromptChars:  4000,
	})
	return NewRefineHandler(svc, discardLogger())
}

func refineRequest(userID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/refine/basic", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(auth.ContextWithSession(req.Context(), &model.Session{
		UserID: userID,
		Email:  "ann@example.com",
	}))
}

func TestRefineHandler_Basic(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = &model.User{ID: "u1", BasicRemaining: 3, ProRemaining: 5}
	h := newRefineHandler(store, &fakeProvider{output: " <s>Refined prompt</s> "})

	rec := httptest.NewRecorder()
	h.Basic(rec, refineRequest("u1", `{"prompt":"make me a todo app"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.RefineResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Tier != "basic" {
		t.Errorf("expected tier basic, got %q", resp.Tier)
	}
	if resp.Refined != "Refined prompt" {
		t.Errorf("expected sanitized output, got %q", resp.Refined)
	}
	if resp.Remaining != 2 {
		t.Errorf("expected remaining 2, got %d", resp.Remaining)
	}
}

func TestRefineHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		body      string
		provider  *fakeProvider
		remaining int
		wantCode  int
		wantErr   string
	}{
		{
			name:      "invalid json",
			userID:    "u1",
			body:      `{`,
			provider:  &fakeProvider{output: "ok"},
			remaining: 5,
			wantCode:  http.StatusBadRequest,
			wantErr:   "INVALID_JSON",
		},
		{
			name:      "empty prompt",
			userID:    "u1",
			body:      `{"prompt":"   "}`,
			provider:  &fakeProvider{output: "ok"},
			remaining: 5,
			wantCode:  http.StatusBadRequest,
			wantErr:   "EMPTY_PROMPT",
		},
		{
			name:      "quota exhausted",
			userID:    "u1",
			body:      `{"prompt":"hello"}`,
			provider:  &fakeProvider{output: "ok"},
			remaining: 0,
			wantCode:  http.StatusPaymentRequired,
			wantErr:   "QUOTA_EXCEEDED",
		},
		{
			name:      "unknown user",
			userID:    "ghost",
			body:      `{"prompt":"hello"}`,
			provider:  &fakeProvider{output: "ok"},
			remaining: 5,
			wantCode:  http.StatusNotFound,
			wantErr:   "USER_NOT_FOUND",
		},
		{
			name:      "upstream failure",
			userID:    "u1",
			body:      `{"prompt":"hello"}`,
			provider:  &fakeProvider{err: llm.ErrUpstream},
			remaining: 5,
			wantCode:  http.StatusBadGateway,
			wantErr:   "UPSTREAM_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeUserStore()
			store.users["u1"] = &model.User{ID: "u1", BasicRemaining: tt.remaining, ProRemaining: tt.remaining}
			h := newRefineHandler(store, tt.provider)

			rec := httptest.NewRecorder()
			h.Basic(rec, refineRequest(tt.userID, tt.body))

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			var resp dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Code != tt.wantErr {
				t.Errorf("expected code %s, got %s", tt.wantErr, resp.Code)
			}
		})
	}
}

func TestRefineHandler_FailureDoesNotCharge(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = &model.User{ID: "u1", BasicRemaining: 3}
	h := newRefineHandler(store, &fakeProvider{err: llm.ErrUpstream})

	rec := httptest.NewRecorder()
	h.Basic(rec, refineRequest("u1", `{"prompt":"hello"}`))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if store.users["u1"].BasicRemaining != 3 {
		t.Errorf("failed refine must not spend quota, remaining = %d", store.users["u1"].BasicRemaining)
	}
}

func TestRefineHandler_Pro(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = &model.User{ID: "u1", BasicRemaining: 25, ProRemaining: 1}
	h := newRefineHandler(store, &fakeProvider{output: "pro output"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refine/pro", strings.NewReader(`{"prompt":"build it"}`))
	req = req.WithContext(auth.ContextWithSession(req.Context(), &model.Session{UserID: "u1"}))
	rec := httptest.NewRecorder()
	h.Pro(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.RefineResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Tier != "pro" || resp.Remaining != 0 {
		t.Errorf("unexpected response: %+v", resp)
	}
	// Basic counter untouched by a pro refine.
	if store.users["u1"].BasicRemaining != 25 {
		t.Errorf("basic counter changed: %d", store.users["u1"].BasicRemaining)
	}
}
