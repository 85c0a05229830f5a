package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultQueryURL = "http://export.arxiv.org/api/query"
	defaultPdfURL   = "https://arxiv.org/pdf"
)

// A modern arXiv identifier with an optional version suffix, either bare or
// embedded in an arxiv.org abs/pdf URL. Id-shaped path segments on other
// hosts are not identifiers.
var (
	bareIdPattern = regexp.MustCompile(`^(\d{4}\.\d{4,5})(v\d+)?$`)
	urlIdPattern  = regexp.MustCompile(`arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,5})(v\d+)?`)
)

// Metadata is the bibliographic record of one paper as the arXiv Atom feed
// reports it.
type Metadata struct {
	Title         string
	Authors       []string
	Abstract      string
	Categories    []string
	PublishedDate string
	SourceId      string
}

// Client talks to the arXiv export API. Metadata lookups are memoized
// in-process since paper records are immutable for a given version.
type Client struct {
	QueryURL string
	PdfURL   string
	http     *http.Client
	cache    *cache.Cache
}

func NewClient() *Client {
	return &Client{
		QueryURL: defaultQueryURL,
		PdfURL:   defaultPdfURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: cache.New(6*time.Hour, 30*time.Minute),
	}
}

// ExtractId pulls an arXiv identifier out of a raw id or an arxiv.org URL.
// Returns false when the input carries no recognizable identifier.
func ExtractId(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if m := bareIdPattern.FindStringSubmatch(input); m != nil {
		return m[1] + m[2], true
	}
	if m := urlIdPattern.FindStringSubmatch(input); m != nil {
		return m[1] + m[2], true
	}
	return "", false
}

// Atom feed shapes, trimmed to the fields the pipeline uses.

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Id         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// FetchMetadata queries the export API for one identifier.
func (c *Client) FetchMetadata(ctx context.Context, arxivId string) (*Metadata, error) {
	if cached, ok := c.cache.Get(arxivId); ok {
		return cached.(*Metadata), nil
	}

	url := fmt.Sprintf("%s?id_list=%s&max_results=1", c.QueryURL, arxivId)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv query failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv query: status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse atom feed: %w", err)
	}
	if len(feed.Entries) == 0 {
		return nil, fmt.Errorf("arxiv id %s not found", arxivId)
	}

	entry := feed.Entries[0]
	// A feed that echoes the query without a match has an entry without an id.
	if strings.TrimSpace(entry.Id) == "" {
		return nil, fmt.Errorf("arxiv id %s not found", arxivId)
	}

	meta := &Metadata{
		Title:         collapseWhitespace(entry.Title),
		Abstract:      collapseWhitespace(entry.Summary),
		PublishedDate: entry.Published,
		SourceId:      arxivId,
	}
	for _, a := range entry.Authors {
		meta.Authors = append(meta.Authors, a.Name)
	}
	for _, cat := range entry.Categories {
		meta.Categories = append(meta.Categories, cat.Term)
	}

	c.cache.Set(arxivId, meta, cache.DefaultExpiration)
	return meta, nil
}

// DownloadPDF fetches the paper's PDF into destDir and returns the local path.
func (c *Client) DownloadPDF(ctx context.Context, arxivId string, destDir string) (string, error) {
	url := fmt.Sprintf("%s/%s.pdf", c.PdfURL, arxivId)
	return c.DownloadPDFFromURL(ctx, url, destDir, sanitizeFilename(arxivId)+".pdf")
}

// DownloadPDFFromURL fetches an arbitrary PDF URL into destDir.
func (c *Client) DownloadPDFFromURL(ctx context.Context, url string, destDir string, filename string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: status %d for %s", res.StatusCode, url)
	}

	path := filepath.Join(destDir, filename)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, res.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write pdf: %w", err)
	}

	return path, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]`)

func sanitizeFilename(s string) string {
	return unsafeFilename.ReplaceAllString(s, "_")
}
