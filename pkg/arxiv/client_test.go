package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractId(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"2401.12345", "2401.12345", true},
		{"2401.12345v2", "2401.12345v2", true},
		{"https://arxiv.org/abs/2401.12345", "2401.12345", true},
		{"https://arxiv.org/pdf/2401.12345v3", "2401.12345v3", true},
		{"  2401.12345  ", "2401.12345", true},
		{"https://example.com/paper.pdf", "", false},
		{"https://proceedings.example.org/2024.12345/paper.pdf", "", false},
		{"https://conference.net/papers/2401.12345v2.pdf", "", false},
		{"not an id", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ExtractId(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ExtractId(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2401.12345v1</id>
    <published>2024-01-22T18:59:59Z</published>
    <title>Attention Is
      Not All You Need</title>
    <summary>We revisit the attention
      mechanism.</summary>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <category term="cs.CL"/>
    <category term="cs.LG"/>
  </entry>
</feed>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>ArXiv Query: search_query=&amp;id_list=9999.99999</title>
  </entry>
</feed>`

func TestFetchMetadata(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Query().Get("id_list") == "2401.12345" {
			w.Write([]byte(sampleFeed))
			return
		}
		w.Write([]byte(emptyFeed))
	}))
	defer srv.Close()

	client := NewClient()
	client.QueryURL = srv.URL

	meta, err := client.FetchMetadata(context.Background(), "2401.12345")
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}

	if meta.Title != "Attention Is Not All You Need" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Abstract != "We revisit the attention mechanism." {
		t.Errorf("abstract = %q", meta.Abstract)
	}
	if len(meta.Authors) != 2 || meta.Authors[0] != "Ada Lovelace" {
		t.Errorf("authors = %#v", meta.Authors)
	}
	if len(meta.Categories) != 2 || meta.Categories[0] != "cs.CL" {
		t.Errorf("categories = %#v", meta.Categories)
	}
	if meta.SourceId != "2401.12345" {
		t.Errorf("source id = %q", meta.SourceId)
	}

	// Second lookup must come from cache.
	if _, err := client.FetchMetadata(context.Background(), "2401.12345"); err != nil {
		t.Fatalf("cached FetchMetadata: %v", err)
	}
	if hits != 1 {
		t.Errorf("expected 1 upstream hit, got %d", hits)
	}
}

func TestFetchMetadataUnknownId(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(emptyFeed))
	}))
	defer srv.Close()

	client := NewClient()
	client.QueryURL = srv.URL

	if _, err := client.FetchMetadata(context.Background(), "9999.99999"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestDownloadPDF(t *testing.T) {
	payload := []byte("%PDF-1.4 fake body")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2401.12345.pdf" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(payload)
	}))
	defer srv.Close()

	client := NewClient()
	client.PdfURL = srv.URL

	dir := t.TempDir()
	path, err := client.DownloadPDF(context.Background(), "2401.12345", dir)
	if err != nil {
		t.Fatalf("DownloadPDF: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("path %q outside dest dir %q", path, dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("downloaded content mismatch")
	}
}

func TestDownloadPDFUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient()
	client.PdfURL = srv.URL

	if _, err := client.DownloadPDF(context.Background(), "2401.12345", t.TempDir()); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}
