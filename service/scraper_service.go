package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/tieubaoca/coredna-chatbot/types"
)

// ScraperServiceConfig configures one scrape run.
type ScraperServiceConfig struct {
	Pages          []string
	OutputDir      string
	ContentLimit   int
	MaxKeyPoints   int
	RequestDelay   time.Duration
	RequestTimeout time.Duration
	UserAgent      string
}

// contentSelectors are tried in order; the first element present on the page
// supplies the body text.
var contentSelectors = []string{
	"main",
	".main-content",
	".content",
	"#content",
	"article",
	".page-content",
}

// ScraperService harvests the configured marketing pages into the knowledge
// document the chatbot loads.
type ScraperService struct {
	config ScraperServiceConfig
	client *http.Client
	logger *zap.Logger
}

func NewScraperService(config ScraperServiceConfig, logger *zap.Logger) *ScraperService {
	if config.ContentLimit <= 0 {
		config.ContentLimit = 5000
	}
	if config.MaxKeyPoints <= 0 {
		config.MaxKeyPoints = 10
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &ScraperService{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.RequestTimeout,
		},
		logger: logger,
	}
}

// ScrapeAll fetches every configured page and returns the assembled base.
// A page that fails to fetch becomes an error record; the run keeps going.
func (s *ScraperService) ScrapeAll(ctx context.Context) (*types.KnowledgeBase, error) {
	base := types.NewKnowledgeBase()
	base.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	s.logger.Info("starting scrape", zap.Int("pages", len(s.config.Pages)))
	for i, pageURL := range s.config.Pages {
		if i > 0 && s.config.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return base, ctx.Err()
			case <-time.After(s.config.RequestDelay):
			}
		}
		base.Add(s.ScrapePage(ctx, pageURL))
	}
	s.logger.Info("scrape completed", zap.Int("pages", len(base.Slugs)))
	return base, nil
}

// ScrapePage fetches and extracts a single page. Failures yield a record
// with the error set and empty content so the document stays complete.
func (s *ScraperService) ScrapePage(ctx context.Context, pageURL string) types.Page {
	s.logger.Info("scraping page", zap.String("url", pageURL))
	scrapedAt := time.Now().UTC().Format(time.RFC3339)

	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		s.logger.Warn("scrape failed", zap.String("url", pageURL), zap.Error(err))
		return types.Page{
			URL:       pageURL,
			Slug:      slugFromURL(pageURL),
			Title:     "Error loading page",
			Content:   "",
			KeyPoints: []string{},
			Error:     err.Error(),
			ScrapedAt: scrapedAt,
		}
	}

	page := s.extract(doc)
	page.URL = pageURL
	page.Slug = slugFromURL(pageURL)
	page.ScrapedAt = scrapedAt
	return page
}

func (s *ScraperService) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	enc, _, _ := charset.DetermineEncoding(body, resp.Header.Get("Content-Type"))
	utf8Body, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		utf8Body = body
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(utf8Body))
}

func (s *ScraperService) extract(doc *goquery.Document) types.Page {
	doc.Find("script,noscript,style").Each(func(i int, sel *goquery.Selection) {
		sel.Remove()
	})

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		title = "No title found"
	}

	content := ""
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			content = strings.TrimSpace(sel.Text())
			break
		}
	}
	if content == "" {
		content = strings.TrimSpace(doc.Find("body").Text())
	}
	if runes := []rune(content); len(runes) > s.config.ContentLimit {
		content = string(runes[:s.config.ContentLimit])
	}

	keyPoints := []string{}
	doc.Find("h1, h2, h3, h4").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			keyPoints = append(keyPoints, text)
		}
		return len(keyPoints) < s.config.MaxKeyPoints
	})

	metaDescription := strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))

	return types.Page{
		Title:           title,
		Content:         content,
		KeyPoints:       keyPoints,
		MetaDescription: metaDescription,
	}
}

// SaveKnowledgeBase writes the knowledge document plus a small summary file
// next to it.
func (s *ScraperService) SaveKnowledgeBase(base *types.KnowledgeBase) error {
	if err := os.MkdirAll(s.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(base, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode knowledge base: %w", err)
	}
	outputPath := filepath.Join(s.config.OutputDir, "knowledge-base.json")
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write knowledge base: %w", err)
	}
	s.logger.Info("knowledge base saved", zap.String("path", outputPath))

	summary := struct {
		TotalPages  int      `json:"totalPages"`
		Pages       []string `json:"pages"`
		LastUpdated string   `json:"lastUpdated"`
	}{
		TotalPages:  len(base.Slugs),
		Pages:       base.Slugs,
		LastUpdated: base.LastUpdated,
	}
	summaryData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	summaryPath := filepath.Join(s.config.OutputDir, "summary.json")
	if err := os.WriteFile(summaryPath, summaryData, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	s.logger.Info("summary saved", zap.String("path", summaryPath))
	return nil
}

// slugFromURL keeps the last path segment, matching the slugs the category
// table routes to.
func slugFromURL(pageURL string) string {
	parts := strings.Split(pageURL, "/")
	slug := parts[len(parts)-1]
	if slug == "" {
		return pageURL
	}
	return slug
}
