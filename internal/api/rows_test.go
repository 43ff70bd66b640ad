package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"reviewdesk/internal/cache"
	"reviewdesk/internal/config"
	"reviewdesk/internal/engine"
	"reviewdesk/internal/persist"
	"reviewdesk/internal/service/table"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	detail := "group_id,pattern,decision,comment\n" +
		"G1,P1,,\n" +
		"G2,P2,,\n"
	summary := "cluster,increase,decrease,status\n" +
		"X,10,2,Pending\n"
	if err := os.WriteFile(filepath.Join(dir, "july_data.csv"), []byte(detail), 0644); err != nil {
		t.Fatalf("write detail: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "july_summary.csv"), []byte(summary), 0644); err != nil {
		t.Fatalf("write summary: %v", err)
	}

	cfg := config.DefaultConfig()
	c := cache.New(table.LoadFile)
	eng := engine.New(cfg, dir, c, persist.New(c), nil)

	r := gin.New()
	apiGroup := r.Group("/api")
	NewHandler(eng).RegisterRoutes(apiGroup)
	return r, dir
}

func TestGetRowsByMonth(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rows?month=july", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("len(rows)=%d, want 2", len(resp.Rows))
	}
	// 缺失值序列化为 null
	if v, ok := resp.Rows[0]["decision"]; !ok || v != nil {
		t.Fatalf("decision=%v, want null", v)
	}
}

func TestGetRowsUnknownMonth(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rows?month=smarch", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}

func TestGetRowsMissingFile(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rows?month=march", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func TestUpdateRowsEndToEnd(t *testing.T) {
	r, dir := newTestRouter(t)

	three := 3.0
	body, _ := json.Marshal(map[string]any{
		"month": "july",
		"updates": []map[string]any{
			{
				"groupId":   "G1",
				"pattern":   "P1",
				"values":    map[string]any{"decision": "No Change", "comment": "known noise"},
				"cluster":   "X",
				"unitCount": three,
			},
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/rows", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Result struct {
			UpdatedRows   int                `json:"updatedRows"`
			ClusterDeltas map[string]float64 `json:"clusterDeltas"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Result.UpdatedRows != 1 {
		t.Fatalf("UpdatedRows=%d, want 1", resp.Result.UpdatedRows)
	}
	if got := resp.Result.ClusterDeltas["X"]; got != 3 {
		t.Fatalf("ClusterDeltas[X]=%v, want 3", got)
	}

	// 写回可见
	tbl, err := table.LoadFile(filepath.Join(dir, "july_data.csv"))
	if err != nil {
		t.Fatalf("load detail: %v", err)
	}
	if got, want := tbl.Rows[0]["decision"], "No Change"; got != want {
		t.Fatalf("decision=%v, want %v", got, want)
	}
}

func TestUpdateRowsUnknownColumn(t *testing.T) {
	r, _ := newTestRouter(t)

	body, _ := json.Marshal(map[string]any{
		"month": "july",
		"updates": []map[string]any{
			{"groupId": "G1", "pattern": "P1", "values": map[string]any{"no_such": "x"}},
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/rows", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400, body=%s", w.Code, w.Body.String())
	}
}

func TestListMonths(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/months", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}

	var resp struct {
		Items []struct {
			Month      string `json:"month"`
			HasSummary bool   `json:"hasSummary"`
		} `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Month != "july" || !resp.Items[0].HasSummary {
		t.Fatalf("items=%v, want one july entry with summary", resp.Items)
	}
}

func TestGetRowsByExplicitPath(t *testing.T) {
	r, dir := newTestRouter(t)

	path := filepath.Join(dir, "july_data.csv")
	req := httptest.NewRequest(http.MethodGet, "/api/rows?path="+url.QueryEscape(path), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200, body=%s", w.Code, w.Body.String())
	}
}
