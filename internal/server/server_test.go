package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/source"
	"github.com/theirongolddev/budgetdash/internal/view"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const testCSV = `Ministry,Demand,Budget_2023_Total,Budget_2023_Revenue,Budget_2023_Capital,Budget_Category
Ministry of Agriculture,Crop Science,900,600,300,Medium
Ministry of Defence,Army,5000,3000,2000,High
Ministry of Defence,Navy,2500,1000,1500,High
Ministry of Health,Health Research,300,250,50,Low
`

func newTestService(t *testing.T) *Service {
	t.Helper()
	ds, err := source.Parse(strings.NewReader(testCSV), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	return New(ds, Config{}, zerolog.Nop())
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// testPayload decodes the parts of a view payload the tests look at.
type testPayload struct {
	Params   view.Params `json:"params"`
	Overview *struct {
		MinistryCount int    `json:"ministry_count"`
		TotalBudget   string `json:"total_budget"`
	} `json:"overview"`
	Insights *struct {
		Top []map[string]any `json:"top"`
	} `json:"insights"`
	Dynamic *struct {
		Category string           `json:"category"`
		Filtered []map[string]any `json:"filtered"`
		Title    string           `json:"title"`
		Points   []map[string]any `json:"points"`
	} `json:"dynamic"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestService(t).Handler(), "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestOverviewEndpoint(t *testing.T) {
	rec := get(t, newTestService(t).Handler(), "/v1/overview")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	p := decode[testPayload](t, rec)
	if p.Overview == nil {
		t.Fatal("overview missing from payload")
	}
	if p.Overview.MinistryCount != 3 {
		t.Errorf("ministry_count = %d, want 3", p.Overview.MinistryCount)
	}
	if p.Overview.TotalBudget != "8700" {
		t.Errorf("total_budget = %s, want 8700", p.Overview.TotalBudget)
	}
}

func TestInsightsTopN(t *testing.T) {
	rec := get(t, newTestService(t).Handler(), "/v1/insights?n=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	p := decode[testPayload](t, rec)
	if len(p.Insights.Top) != 2 {
		t.Fatalf("top len = %d, want 2", len(p.Insights.Top))
	}
	if got := p.Insights.Top[0]["Demand"]; got != "Army" {
		t.Errorf("top[0] demand = %v, want Army", got)
	}
}

func TestDynamicEndpoint(t *testing.T) {
	rec := get(t, newTestService(t).Handler(), "/v1/dynamic?category=high&x=Budget_2023_Revenue&y=Budget_2023_Capital")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	p := decode[testPayload](t, rec)
	if p.Dynamic.Category != "High" || len(p.Dynamic.Filtered) != 2 {
		t.Errorf("filter = %s/%d, want High/2", p.Dynamic.Category, len(p.Dynamic.Filtered))
	}
	if p.Dynamic.Title != "Budget_2023_Revenue vs Budget_2023_Capital" {
		t.Errorf("title = %q", p.Dynamic.Title)
	}
	if len(p.Dynamic.Points) != 4 {
		t.Errorf("points = %d, want 4", len(p.Dynamic.Points))
	}
}

func TestBadRequests(t *testing.T) {
	h := newTestService(t).Handler()
	tests := []struct {
		target    string
		wantField string
	}{
		{"/v1/dynamic?x=Ministry", "Ministry"},
		{"/v1/dynamic?y=Nope", "Nope"},
		{"/v1/dynamic?category=Huge", ""},
		{"/v1/insights?n=abc", ""},
		{"/v1/insights?n=-1", ""},
		{"/v1/insights?n=0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			body := decode[map[string]apiError](t, rec)
			e := body["error"]
			if e.Message == "" {
				t.Error("empty error message")
			}
			if e.Field != tt.wantField {
				t.Errorf("field = %q, want %q", e.Field, tt.wantField)
			}
			if tt.wantField != "" && len(e.Valid) != 3 {
				t.Errorf("valid = %v, want the 3 numeric columns", e.Valid)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestService(t)
	h := s.Handler()

	rec := get(t, h, "/v1/sessions")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/overview", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rec.Code)
	}

	if got := s.requests.Load(); got != 2 {
		t.Errorf("requests = %d, want unmatched requests counted", got)
	}
}

func TestStatusAndColumns(t *testing.T) {
	s := newTestService(t)
	h := s.Handler()

	_ = get(t, h, "/healthz")
	st := decode[Status](t, get(t, h, "/v1/status"))
	if st.Records != 4 || st.Source != "test.csv" {
		t.Errorf("status = %+v", st)
	}
	if st.Requests != 2 {
		t.Errorf("requests = %d, want 2", st.Requests)
	}

	cols := decode[map[string][]string](t, get(t, h, "/v1/columns"))
	if len(cols["numeric"]) != 3 || cols["numeric"][0] != model.FieldTotal {
		t.Errorf("numeric = %v", cols["numeric"])
	}
	if len(cols["columns"]) != 6 {
		t.Errorf("columns = %v", cols["columns"])
	}
}

func TestLiveRebuildsPerMessage(t *testing.T) {
	srv := httptest.NewServer(newTestService(t).Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	type reply struct {
		Type    string      `json:"type"`
		Payload testPayload `json:"payload"`
		Error   *apiError   `json:"error"`
	}

	send := func(p any) reply {
		t.Helper()
		if err := conn.WriteJSON(p); err != nil {
			t.Fatalf("write: %v", err)
		}
		var r reply
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&r); err != nil {
			t.Fatalf("read: %v", err)
		}
		return r
	}

	r := send(view.Params{View: view.Dynamic, Category: model.CategoryLow})
	if r.Type != "payload" || r.Payload.Dynamic == nil {
		t.Fatalf("reply = %+v", r)
	}
	if len(r.Payload.Dynamic.Filtered) != 1 {
		t.Errorf("Low filtered = %d, want 1", len(r.Payload.Dynamic.Filtered))
	}

	r = send(map[string]string{"view": "dynamic", "category": "medium"})
	if r.Type != "payload" || r.Payload.Dynamic.Category != "Medium" {
		t.Errorf("lower-case category reply = %+v", r)
	}

	r = send(view.Params{View: view.Dynamic, XField: "Demand"})
	if r.Type != "error" || r.Error == nil || r.Error.Field != "Demand" {
		t.Errorf("invalid axis reply = %+v", r)
	}

	r = send(map[string]any{"view": "insights", "top_n": -1})
	if r.Type != "error" || r.Error == nil {
		t.Errorf("negative top_n reply = %+v", r)
	}

	r = send(view.Params{View: view.Overview})
	if r.Type != "payload" || r.Payload.Overview == nil {
		t.Errorf("overview reply = %+v", r)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
