package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/middlewares"
	"github.com/mmdatafocus/ricemill_backend/models"
	"github.com/mmdatafocus/ricemill_backend/utils"
)

func newTestRouter(isReady bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	var ready atomic.Bool
	ready.Store(isReady)
	return setupRouter(&ready, config.GetLogger())
}

func serve(r http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthzBypassesReadiness(t *testing.T) {
	w := serve(newTestRouter(false), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestReadinessGate(t *testing.T) {
	w := serve(newTestRouter(false), http.MethodGet, "/api/v1/parties", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before ready, got %d", w.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	w := serve(newTestRouter(true), http.MethodGet, "/api/v1/nothing-here", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] != "route not found" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestBindingErrorsAreBadRequests(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"party without name", http.MethodPost, "/api/v1/parties", `{}`},
		{"godown with malformed json", http.MethodPost, "/api/v1/godowns", `{"name":`},
		{"transaction without party", http.MethodPost, "/api/v1/transactions", `{"transaction_type": true}`},
		{"return bags without lines", http.MethodPost, "/api/v1/transactions/3/return-bags", `{"returns": []}`},
		{"negative return count", http.MethodPost, "/api/v1/transactions/3/return-bags", `{"returns": [{"packaging_name": "PP", "returned_count": -1}]}`},
		{"non numeric id", http.MethodPut, "/api/v1/stock-items/abc", `{"name": "Sona"}`},
		{"zero id", http.MethodGet, "/api/v1/transactions/0", ""},
	}
	r := newTestRouter(true)
	for _, tc := range cases {
		w := serve(r, tc.method, tc.path, tc.body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d (%s)", tc.name, w.Code, w.Body.String())
		}
	}
}

func TestCorrelationIdHeader(t *testing.T) {
	r := newTestRouter(false)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middlewares.CorrelationIdHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(middlewares.CorrelationIdHeader); got != "abc-123" {
		t.Fatalf("expected echoed correlation id, got %q", got)
	}

	w = serve(r, http.MethodGet, "/healthz", "")
	if got := w.Header().Get(middlewares.CorrelationIdHeader); len(got) != 36 {
		t.Fatalf("expected a generated uuid, got %q", got)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err      error
		expected int
	}{
		{utils.ErrorRecordNotFound, http.StatusNotFound},
		{models.ErrTransactionNotFound, http.StatusNotFound},
		{&models.BagDetailNotFoundError{PackagingName: "PP"}, http.StatusNotFound},
		{&models.ReferenceNotFoundError{Kind: "party", Name: "x"}, http.StatusBadRequest},
		{&utils.DuplicateValueError{Column: "name"}, http.StatusBadRequest},
		{fmt.Errorf("posting: %w", &models.InsufficientStockError{GodownId: 1}), http.StatusBadRequest},
		{models.ErrBagsAlreadyReturned, http.StatusBadRequest},
		{utils.ErrorLockNotObtained, http.StatusConflict},
		{&models.StockUpdateError{Err: errors.New("deadlock")}, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.expected {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.expected, got)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	cases := []struct {
		in       string
		expected []string
	}{
		{"", nil},
		{" , ", []string{}},
		{"https://a.example, https://b.example ,", []string{"https://a.example", "https://b.example"}},
	}
	for _, tc := range cases {
		if got := splitAndTrim(tc.in); !reflect.DeepEqual(got, tc.expected) {
			t.Fatalf("splitAndTrim(%q): expected %v, got %v", tc.in, tc.expected, got)
		}
	}
}
