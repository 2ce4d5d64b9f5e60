package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("catalog")
	c.HTTPRequests.WithLabelValues("GET", "/api/v1/menus", "200").Inc()
	c.CacheOps.WithLabelValues("get", "hit").Inc()
	c.ImportRuns.WithLabelValues("ok").Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`catalog_http_requests_total{method="GET",route="/api/v1/menus",status="200"} 1`,
		`catalog_cache_operations_total{op="get",result="hit"} 1`,
		`catalog_import_runs_total{result="ok"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition lacks %s", want)
		}
	}
}

func TestNewCollector_Independent(t *testing.T) {
	a := NewCollector("catalog")
	b := NewCollector("catalog")
	a.ImportRuns.WithLabelValues("ok").Inc()

	families, err := b.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() == "catalog_import_runs_total" && len(f.GetMetric()) != 0 {
			t.Fatal("collectors share state")
		}
	}
}
