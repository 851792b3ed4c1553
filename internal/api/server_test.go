package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/david/funding-applicator/internal/db"
)

const testReport = `{
	"reportType": "funding_finder",
	"opportunities": [
		{
			"source_name": "Main Street Fund",
			"provider_name": "City of Springfield",
			"min_amount": 10000,
			"max_amount": 25000,
			"requirements_text": "Describe your business model. Articulate your project goals. Provide a timeline with key milestones. Explain your sustainability plan."
		},
		{
			"source_name": "Mega Grant",
			"eligibility_gaps": ["a", "b", "c", "d"]
		}
	]
}`

func newTestServer() *Server {
	return NewServer(db.NewMemoryKV())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response not JSON: %v: %s", err, rec.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}
}

func TestUploadReportErrors(t *testing.T) {
	s := newTestServer()

	rec := do(t, s, http.MethodPost, "/api/v1/reports", "{garbage")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unreadable input status = %d", rec.Code)
	}
	if msg := decode(t, rec)["error"].(string); !strings.Contains(msg, "Could not read the file") {
		t.Errorf("unreadable input message = %q", msg)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/reports", `{"reportType": "other", "opportunities": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid report status = %d", rec.Code)
	}
	if msg := decode(t, rec)["error"].(string); !strings.Contains(msg, "not a Funding Finder report") {
		t.Errorf("invalid report message = %q", msg)
	}
}

func TestListWithoutReport(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/api/v1/opportunities", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("list without report = %d, want 404", rec.Code)
	}
}

func TestUploadAndList(t *testing.T) {
	s := newTestServer()

	rec := do(t, s, http.MethodPost, "/api/v1/reports", testReport)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["opportunity_count"].(float64) != 2 {
		t.Fatalf("opportunity_count = %v", body["opportunity_count"])
	}

	rec = do(t, s, http.MethodGet, "/api/v1/opportunities?sort=easiest", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	opps := decode(t, rec)["opportunities"].([]interface{})
	first := opps[0].(map[string]interface{})
	// Mega Grant has 4 eligibility gaps and classifies hard, so the
	// easiest sort puts Main Street Fund first.
	if first["source_name"] != "Main Street Fund" {
		t.Errorf("easiest-first order wrong: %v", first["source_name"])
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestServer()

	rec := do(t, s, http.MethodPut, "/api/v1/profile", `{"business_name": "Acme", "location": "Springfield"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put profile = %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/profile", "")
	if got := decode(t, rec)["business_name"]; got != "Acme" {
		t.Fatalf("profile business_name = %v", got)
	}
}

func TestGlossaryEndpoints(t *testing.T) {
	s := newTestServer()

	rec := do(t, s, http.MethodGet, "/api/v1/glossary/deliverables", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("known term = %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/glossary/synergy", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown term = %d, want 404", rec.Code)
	}
}

func TestWizardFlow(t *testing.T) {
	s := newTestServer()
	do(t, s, http.MethodPost, "/api/v1/reports", testReport)

	rec := do(t, s, http.MethodPost, "/api/v1/wizard/select/0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("select = %d: %s", rec.Code, rec.Body.String())
	}
	state := decode(t, rec)["state"].(map[string]interface{})
	if state["stage"] != "overview" {
		t.Fatalf("stage after select = %v", state["stage"])
	}

	rec = do(t, s, http.MethodPost, "/api/v1/wizard/start", "")
	body := decode(t, rec)
	state = body["state"].(map[string]interface{})
	if state["stage"] != "section" || state["section_position"].(float64) != 0 {
		t.Fatalf("state after start = %v", state)
	}
	section := body["section"].(map[string]interface{})
	if section["answer"] != "" {
		t.Fatalf("fresh section has answer %v", section["answer"])
	}

	rec = do(t, s, http.MethodPut, "/api/v1/wizard/answer", `{"section_id": "sec-1", "answer": "we sell bread"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put answer = %d: %s", rec.Code, rec.Body.String())
	}

	// Walk through all four sections to reach review.
	for i := 0; i < 4; i++ {
		rec = do(t, s, http.MethodPost, "/api/v1/wizard/next", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("next #%d = %d: %s", i, rec.Code, rec.Body.String())
		}
	}
	state = decode(t, rec)["state"].(map[string]interface{})
	if state["stage"] != "review" {
		t.Fatalf("stage after last next = %v", state["stage"])
	}

	rec = do(t, s, http.MethodGet, "/api/v1/wizard/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Section 1\n\nwe sell bread") {
		t.Fatalf("export missing answered block: %q", rec.Body.String())
	}

	rec = do(t, s, http.MethodPost, "/api/v1/wizard/start", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("start from review = %d, want 409", rec.Code)
	}
}
