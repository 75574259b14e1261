package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"video_syncer/internal/domain"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// staticRoutes are the fixed pages of the site; article pages are appended
// from the database at generation time.
var staticRoutes = []route{
	{path: "/", changefreq: "weekly", priority: "1.0"},
	{path: "/articles", changefreq: "daily", priority: "0.9"},
	{path: "/resources", changefreq: "weekly", priority: "0.7"},
	{path: "/about", changefreq: "monthly", priority: "0.5"},
}

type route struct {
	path       string
	changefreq string
	priority   string
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// ArticleLister returns the published articles to include in the sitemap.
type ArticleLister interface {
	ListPublished(ctx context.Context) ([]domain.Article, error)
}

type Generator struct {
	articles ArticleLister
	hostname string
	logger   *slog.Logger
}

func NewGenerator(articles ArticleLister, hostname string, logger *slog.Logger) *Generator {
	return &Generator{
		articles: articles,
		hostname: hostname,
		logger:   logger,
	}
}

// Build renders the sitemap XML for the static routes plus every published
// article.
func (g *Generator) Build(ctx context.Context) ([]byte, error) {
	articles, err := g.articles.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published articles: %w", err)
	}

	now := time.Now().UTC().Format("2006-01-02")

	set := urlSet{Xmlns: xmlns}
	for _, r := range staticRoutes {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        g.hostname + r.path,
			LastMod:    now,
			ChangeFreq: r.changefreq,
			Priority:   r.priority,
		})
	}
	for _, a := range articles {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        g.hostname + "/articles/" + a.Slug,
			LastMod:    a.UpdatedAt.UTC().Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   "0.8",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}

// Write generates the sitemap and writes it to outputPath, creating parent
// directories as needed.
func (g *Generator) Write(ctx context.Context, outputPath string) error {
	body, err := g.Build(ctx)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, body, 0o644); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}

	g.logger.Info("sitemap written", "path", outputPath, "bytes", len(body))
	return nil
}
