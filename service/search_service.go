package service

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tieubaoca/coredna-chatbot/knowledge"
	"github.com/tieubaoca/coredna-chatbot/types"
)

// SearchHit is one scored page for a single query. Hits live for one query
// and are never persisted.
type SearchHit struct {
	Slug           string
	Page           types.Page
	Score          int
	RelevantPoints []string
}

const (
	maxResults        = 3
	maxRelevantPoints = 5
)

var (
	punctuationRe = regexp.MustCompile(`[^\w\s]`)
	sentenceRe    = regexp.MustCompile(`[.!?]+`)
)

// categorySlugs routes topic-shortcut categories to a page slug. This is
// configuration, not search: each category maps to exactly one known page.
var categorySlugs = map[string]string{
	"pricing":   "pricing",
	"features":  "features",
	"ecommerce": "ecommerce-platform",
	"cms":       "content-management-platform",
	"why":       "why-coredna",
	"about":     "why-coredna",
}

// SearchService ranks knowledge pages against free-text queries with plain
// substring term frequency. The arithmetic is part of the product's
// observable behavior; the response tests pin it down.
type SearchService struct {
	store *knowledge.Store
}

func NewSearchService(store *knowledge.Store) *SearchService {
	return &SearchService{
		store: store,
	}
}

// NormalizeTerms lowercases the query, strips punctuation and keeps the
// whitespace-separated terms longer than two characters.
func NormalizeTerms(query string) []string {
	cleaned := punctuationRe.ReplaceAllString(strings.ToLower(query), "")
	fields := strings.Fields(cleaned)
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) > 2 {
			terms = append(terms, field)
		}
	}
	return terms
}

// ScorePage accumulates per term: +10 for a title hit, +5 for a hit in the
// joined key points, +1 per occurrence anywhere in the page text. All checks
// are case-insensitive substring matches. Zero means not a result.
func ScorePage(page types.Page, terms []string) int {
	title := strings.ToLower(page.Title)
	keyPoints := strings.ToLower(strings.Join(page.KeyPoints, " "))
	body := strings.ToLower(page.Title + " " + page.Content + " " + page.MetaDescription)

	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += 10
		}
		if strings.Contains(keyPoints, term) {
			score += 5
		}
		score += strings.Count(body, term)
	}
	return score
}

// ExtractRelevantPoints collects up to five supporting snippets: matching
// key points first (in page order), then content sentences longer than 20
// characters that either contain two distinct terms or contain one term and
// stay under 200 characters.
func ExtractRelevantPoints(page types.Page, terms []string) []string {
	points := make([]string, 0, maxRelevantPoints)

	for _, keyPoint := range page.KeyPoints {
		lower := strings.ToLower(keyPoint)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				points = append(points, keyPoint)
				break
			}
		}
	}

	for _, sentence := range sentenceRe.Split(page.Content, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 20 {
			continue
		}
		lower := strings.ToLower(sentence)
		matches := 0
		for _, term := range terms {
			if strings.Contains(lower, term) {
				matches++
			}
		}
		if matches >= 2 || (matches >= 1 && len(sentence) < 200) {
			points = append(points, sentence)
		}
	}

	if len(points) > maxRelevantPoints {
		points = points[:maxRelevantPoints]
	}
	return points
}

// Search returns the best-scoring pages for query, at most three. Pages that
// score equally keep the order they appear in the knowledge document.
func (s *SearchService) Search(query string) []SearchHit {
	terms := NormalizeTerms(query)
	if len(terms) == 0 {
		return nil
	}

	base := s.store.Base()
	hits := make([]SearchHit, 0, len(base.Slugs))
	for _, slug := range base.Slugs {
		page := base.Pages[slug]
		score := ScorePage(page, terms)
		if score == 0 {
			continue
		}
		hits = append(hits, SearchHit{
			Slug:           slug,
			Page:           page,
			Score:          score,
			RelevantPoints: ExtractRelevantPoints(page, terms),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}
	return hits
}

// SearchByCategory resolves a topic-shortcut category to its page. Unknown
// categories and categories whose page is not loaded yield no results.
func (s *SearchService) SearchByCategory(category string) []types.Page {
	slug, ok := categorySlugs[strings.ToLower(category)]
	if !ok {
		return nil
	}
	page, ok := s.store.GetPage(slug)
	if !ok {
		return nil
	}
	return []types.Page{page}
}
