package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yoockh/coldreach/internal/utils"
)

func TestFetcherLoadReturnsBody(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><h1>Software Engineer</h1></body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher("coldreach-test", 5*time.Second)
	body, err := f.Load(context.Background(), srv.URL+"/careers")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(body, "Software Engineer") {
		t.Fatalf("unexpected body %q", body)
	}
	if gotUA != "coldreach-test" {
		t.Fatalf("user agent = %q", gotUA)
	}
}

func TestFetcherLoadNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher("", 5*time.Second)
	_, err := f.Load(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error")
	}
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestFetcherLoadRejectsBinary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	f := NewFetcher("", 5*time.Second)
	if _, err := f.Load(context.Background(), srv.URL); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "example.com/jobs", want: "https://example.com/jobs"},
		{in: "  http://example.com  ", want: "http://example.com"},
		{in: "", wantErr: true},
		{in: "ftp://example.com", wantErr: true},
		{in: "https://", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeURL(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("NormalizeURL(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("NormalizeURL(%q) = %q, %v", tt.in, got, err)
		}
	}
}
