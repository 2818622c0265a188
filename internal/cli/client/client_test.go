package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeServerURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"localhost:8080", "http://localhost:8080"},
		{"http://localhost:8080", "http://localhost:8080"},
		{"http://localhost:8080/", "http://localhost:8080"},
		{"https://api.example.com/some/path", "https://api.example.com"},
	}

	for _, tt := range tests {
		got, err := normalizeServerURL(tt.in)
		if err != nil {
			t.Fatalf("normalize(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := normalizeServerURL("://"); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestLoginSendsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token/" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode credentials: %v", err)
		}
		if creds["username"] != "admin" || creds["password"] != "admin123" {
			t.Errorf("unexpected credentials: %v", creds)
		}

		json.NewEncoder(w).Encode(map[string]string{"access": "tok-1"})
	}))
	defer srv.Close()

	c, err := New(srv.URL, "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	token, err := c.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("unexpected token: %q", token)
	}
}

func TestListAttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		w.Write([]byte(`[{"id":1,"name":"plant.csv","uploaded_at":"2025-03-14T09:26:53Z","summary":{"total_count":2,"averages":{"Flowrate":100.5,"Pressure":5.5,"Temperature":50},"type_distribution":{"Pump":1,"Valve":1}}}]`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "tok-1")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	datasets, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(datasets) != 1 {
		t.Fatalf("expected 1 dataset, got %d", len(datasets))
	}
	ds := datasets[0]
	if ds.ID != 1 || ds.Name != "plant.csv" || ds.Summary.TotalCount != 2 {
		t.Fatalf("unexpected dataset: %+v", ds)
	}
	if avg := ds.Summary.Averages["Flowrate"]; avg == nil || *avg != 100.5 {
		t.Fatalf("unexpected flowrate average: %v", avg)
	}
}

func TestServerErrorMessageSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"dataset not found"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = c.Get(context.Background(), 42)
	if err == nil || !strings.Contains(err.Error(), "dataset not found") {
		t.Fatalf("expected server message in error, got %v", err)
	}
}

func TestUploadSendsMultipartFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		if header.Filename != "plant.csv" {
			t.Errorf("unexpected filename: %q", header.Filename)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "name": header.Filename})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "plant.csv")
	if err := os.WriteFile(path, []byte("Type,Flowrate,Pressure,Temperature\nPump,1,2,3\n"), 0644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}

	c, err := New(srv.URL, "tok-1")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ds, err := c.Upload(context.Background(), path)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if ds.ID != 7 || ds.Name != "plant.csv" {
		t.Fatalf("unexpected dataset: %+v", ds)
	}
}

func TestDownloadReportReturnsFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="plant.csv_report.pdf"`)
		w.Write([]byte("%PDF-1.3 fake"))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	pdf, filename, err := c.DownloadReport(context.Background(), 7)
	if err != nil {
		t.Fatalf("download report: %v", err)
	}
	if filename != "plant.csv_report.pdf" {
		t.Fatalf("unexpected filename: %q", filename)
	}
	if !strings.HasPrefix(string(pdf), "%PDF") {
		t.Fatalf("unexpected body: %q", pdf)
	}
}
