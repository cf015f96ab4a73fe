package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mangli-store/internal/models"
)

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestImageCheck(t *testing.T) {
	srv := newImageServer(t)
	svc := NewImageCheckService(newServiceKV(t))

	results := svc.Check(context.Background(), []ImageCheckTarget{
		{ID: "p1", ImageURL: srv.URL + "/ok.jpg"},
		{ID: "p2", ImageURL: srv.URL + "/missing.jpg"},
		{ID: "p3", ImageURL: srv.URL + "/page.html"},
		{ID: "p4", ImageURL: "   "},
	})
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	if !results[0].IsValid {
		t.Fatalf("reachable image must be valid, reason: %s", results[0].Reason)
	}
	if results[1].IsValid || !strings.Contains(results[1].Reason, "404") {
		t.Fatalf("missing image must fail with the status code, got %+v", results[1])
	}
	if results[2].IsValid || !strings.Contains(results[2].Reason, "text/html") {
		t.Fatalf("non-image response must fail with its content type, got %+v", results[2])
	}
	if results[3].IsValid || results[3].Reason != "image URL is empty" {
		t.Fatalf("blank URL must fail, got %+v", results[3])
	}
}

func TestCheckCatalogStoresReport(t *testing.T) {
	srv := newImageServer(t)
	kv := newServiceKV(t)
	svc := NewImageCheckService(kv)

	products := []models.Product{
		{ID: "prod-1", Image: srv.URL + "/ok.jpg"},
		{ID: "prod-2", Image: srv.URL + "/missing.jpg"},
	}
	report, err := svc.CheckCatalog(context.Background(), products)
	if err != nil {
		t.Fatalf("check catalog failed: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	if report.CheckedAt.IsZero() {
		t.Fatalf("report must carry the check time")
	}

	loaded, err := svc.LatestReport()
	if err != nil {
		t.Fatalf("load report failed: %v", err)
	}
	if loaded == nil || len(loaded.Results) != 2 {
		t.Fatalf("stored report must round-trip, got %+v", loaded)
	}
	if loaded.Results[0].ID != "prod-1" || !loaded.Results[0].IsValid {
		t.Fatalf("unexpected first result: %+v", loaded.Results[0])
	}
}

func TestLatestReportMissing(t *testing.T) {
	svc := NewImageCheckService(newServiceKV(t))

	report, err := svc.LatestReport()
	if err != nil {
		t.Fatalf("missing report must not error: %v", err)
	}
	if report != nil {
		t.Fatalf("expected nil report, got %+v", report)
	}
}
