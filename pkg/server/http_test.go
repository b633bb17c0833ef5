package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"
)

func newTestEcho() *echo.Echo {
	return NewHTTPServer(newTestService()).NewEcho()
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHTTPSuggestions(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	rec := doJSON(t, e, http.MethodPost, "/v1/suggestions", `{"tokens":["cat","sat","on","the","mat"],"stop_words":["on"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}

	var resp SuggestionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	expected := []string{"cat", "cat sat", "sat", "mat"}
	if !slices.Equal(resp.Suggestions, expected) || resp.Count != 4 {
		t.Errorf("expected %q, got %+v", expected, resp)
	}
}

func TestHTTPEmptyTokens(t *testing.T) {
	t.Parallel()

	rec := doJSON(t, newTestEcho(), http.MethodPost, "/v1/suggestions", `{"tokens":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp SuggestionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Suggestions == nil || resp.Count != 0 {
		t.Errorf("expected an empty list, got %+v", resp)
	}
}

func TestHTTPIndexLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEcho()

	rec := doJSON(t, e, http.MethodPost, "/v1/index", `{"tokens":["chewing","gum","."]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("index status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var status IndexStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode index: %v", err)
	}
	if status.Added != 3 || status.Total != 3 {
		t.Errorf("unexpected index status %+v", status)
	}

	rec = doJSON(t, e, http.MethodGet, "/v1/complete?prefix=Chew&limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp SuggestionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode complete: %v", err)
	}
	if !slices.Equal(resp.Suggestions, []string{"chewing", "chewing gum"}) {
		t.Errorf("unexpected completions %q", resp.Suggestions)
	}

	rec = doJSON(t, e, http.MethodDelete, "/v1/index", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reset status: got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodGet, "/v1/complete?prefix=chew", "")
	resp = SuggestionsResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode complete: %v", err)
	}
	if len(resp.Suggestions) != 0 {
		t.Errorf("expected no completions after reset, got %q", resp.Suggestions)
	}
}

func TestHTTPBadRequests(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	testCases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/v1/suggestions", `{"tokens":`},
		{http.MethodPost, "/v1/index", `not json`},
		{http.MethodGet, "/v1/complete", ""},
		{http.MethodGet, "/v1/complete?prefix=a&limit=ten", ""},
	}

	for _, tc := range testCases {
		rec := doJSON(t, e, tc.method, tc.path, tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: expected 400, got %d", tc.method, tc.path, rec.Code)
			continue
		}
		var herr HTTPError
		if err := json.Unmarshal(rec.Body.Bytes(), &herr); err != nil || herr.Error == "" {
			t.Errorf("%s %s: expected error body, got %s", tc.method, tc.path, rec.Body.String())
		}
	}
}

func TestHTTPHealth(t *testing.T) {
	t.Parallel()

	rec := doJSON(t, newTestEcho(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}
