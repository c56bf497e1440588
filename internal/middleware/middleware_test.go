package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// dummyHandler is a placeholder that records if it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
	status int
	body   string
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	if d.status != 0 {
		w.WriteHeader(d.status)
	}
	_, _ = w.Write([]byte(d.body))
}

func TestRequestID_Generated(t *testing.T) {
	dummy := &dummyHandler{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	RequestID(dummy).ServeHTTP(rec, req)

	if !dummy.called {
		t.Fatal("expected next handler to be called")
	}
	id := GetRequestIDFromContext(dummy.ctx)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("request id %q is not a UUID: %v", id, err)
	}
	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("response header = %q; want %q", got, id)
	}
}

func TestRequestID_Inbound(t *testing.T) {
	dummy := &dummyHandler{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "trace-42")

	RequestID(dummy).ServeHTTP(rec, req)

	if got := GetRequestIDFromContext(dummy.ctx); got != "trace-42" {
		t.Errorf("context id = %q; want %q", got, "trace-42")
	}
	if got := rec.Header().Get(RequestIDHeader); got != "trace-42" {
		t.Errorf("response header = %q; want %q", got, "trace-42")
	}
}

func TestRequestID_VisibleToChi(t *testing.T) {
	dummy := &dummyHandler{}
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "trace-7")

	RequestID(dummy).ServeHTTP(httptest.NewRecorder(), req)

	if got := chiMiddleware.GetReqID(dummy.ctx); got != "trace-7" {
		t.Errorf("chi request id = %q; want %q", got, "trace-7")
	}
}

func TestGetRequestIDFromContext_Missing(t *testing.T) {
	if got := GetRequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty id, got %q", got)
	}
}

func TestWithRequestLogging(t *testing.T) {
	tests := []struct {
		name       string
		handler    *dummyHandler
		wantStatus int
		wantSize   int64
	}{
		{name: "implicit ok", handler: &dummyHandler{body: "hello"}, wantStatus: http.StatusOK, wantSize: 5},
		{name: "explicit status", handler: &dummyHandler{status: http.StatusNotFound, body: "{}"}, wantStatus: http.StatusNotFound, wantSize: 2},
		{name: "no body", handler: &dummyHandler{}, wantStatus: http.StatusOK, wantSize: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			h := RequestID(WithRequestLogging(zap.New(core))(tt.handler))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/entry/save", nil)
			req.Header.Set(RequestIDHeader, "req-1")
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("recorded status = %d; want %d", rec.Code, tt.wantStatus)
			}
			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			fields := entries[0].ContextMap()
			if fields["method"] != http.MethodPost || fields["path"] != "/api/entry/save" {
				t.Errorf("unexpected method/path fields: %v", fields)
			}
			if fields["status"] != int64(tt.wantStatus) {
				t.Errorf("status field = %v; want %d", fields["status"], tt.wantStatus)
			}
			if fields["size"] != tt.wantSize {
				t.Errorf("size field = %v; want %d", fields["size"], tt.wantSize)
			}
			if fields["request_id"] != "req-1" {
				t.Errorf("request_id field = %v; want req-1", fields["request_id"])
			}
		})
	}
}
