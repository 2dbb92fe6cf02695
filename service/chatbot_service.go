package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tieubaoca/coredna-chatbot/knowledge"
	"github.com/tieubaoca/coredna-chatbot/types"
)

// Intent keyword sets. processMessage checks them in this order and the
// first hit wins. "thanks"/"thank you" sit in the goodbye set, so gratitude
// mid-conversation ends it; that mirrors the live bot.
var (
	greetingWords = []string{"hello", "hi", "hey", "greetings", "good morning", "good afternoon", "good evening"}
	goodbyeWords  = []string{"bye", "goodbye", "see you", "farewell", "thanks", "thank you"}
	helpWords     = []string{"help", "what can you do", "how can you help", "what do you know"}

	pricingWords   = []string{"pricing", "cost", "price"}
	featureWords   = []string{"feature", "capability", "function"}
	ecommerceWords = []string{"ecommerce", "e-commerce", "online store"}
)

// PlanRule maps a literal substring of the pricing page to the plan line
// shown for it. The triggers track coredna.com copy; update the table when
// the pricing page changes.
type PlanRule struct {
	Trigger string
	Line    string
}

var defaultPlanRules = []PlanRule{
	{"$1250/month", "💼 CMS Plan: From $1,250/month - Includes 100k requests, content applications, API access"},
	{"$2450/month", "🛒 eCommerce Plan: From $2,450/month - Includes 300k requests, all CMS features, plus eCommerce tools"},
	{"Enterprise", "🏢 Enterprise DXP: Custom pricing - Multi-site, dedicated infrastructure, custom integrations"},
}

var pricingHighlights = []string{
	"✅ No transaction fees",
	"✅ Transparent pricing that scales",
	"✅ All plans include pre-built applications",
	"✅ Continuous support & training included",
}

var featureHighlights = []string{
	"🎯 All-in-one platform",
	"⚡ Fast setup, no learning curve",
	"🔧 Custom fit, no compromises",
	"📈 Future-proof flexibility",
	"🛠️ Managed services included",
}

var greetingSuggestions = []string{
	"What is CoreDNA?",
	"Tell me about pricing",
	"What features does CoreDNA offer?",
	"How does CoreDNA eCommerce work?",
}

var helpSuggestions = []string{
	"What are CoreDNA's pricing plans?",
	"How does CoreDNA compare to other platforms?",
	"What eCommerce features are available?",
	"Tell me about the CMS capabilities",
}

var noResultsSuggestions = []string{
	"What is CoreDNA?",
	"Pricing information",
	"Platform features",
	"eCommerce capabilities",
	"Content management",
}

// followUpSuggestions keys on the top result's slug.
var followUpSuggestions = map[string][]string{
	"pricing":                     {"What features are included?", "How does pricing compare to competitors?"},
	"features":                    {"Tell me about eCommerce features", "What about content management?"},
	"ecommerce-platform":          {"What are the pricing options?", "How does setup work?"},
	"content-management-platform": {"What are the key features?", "How easy is it to use?"},
	"why-coredna":                 {"What makes CoreDNA different?", "Show me pricing plans"},
}

var genericSuggestions = []string{"Tell me more about CoreDNA", "What are the pricing options?"}

// ChatbotService classifies incoming messages and shapes the reply. It is
// stateless between messages; every query is handled on its own.
type ChatbotService struct {
	store     *knowledge.Store
	search    *SearchService
	logger    *zap.Logger
	planRules []PlanRule
}

func NewChatbotService(store *knowledge.Store, search *SearchService, logger *zap.Logger) *ChatbotService {
	return &ChatbotService{
		store:     store,
		search:    search,
		logger:    logger,
		planRules: defaultPlanRules,
	}
}

// ProcessMessage turns one user message into a Response. Callers must reject
// empty messages at the boundary; everything else is handled here and never
// returns an error.
func (c *ChatbotService) ProcessMessage(message string) types.Response {
	response := c.route(message)
	c.logger.Debug("message processed", zap.String("type", response.ResponseType()))
	return response
}

func (c *ChatbotService) route(message string) types.Response {
	query := strings.ToLower(strings.TrimSpace(message))

	if containsAny(query, greetingWords) {
		return c.greetingResponse()
	}
	if containsAny(query, goodbyeWords) {
		return c.goodbyeResponse()
	}
	if containsAny(query, helpWords) {
		return c.helpResponse()
	}
	if response, ok := c.topicResponse(query); ok {
		return response
	}

	hits := c.search.Search(message)
	if len(hits) == 0 {
		return c.noResultsResponse(message)
	}
	return c.searchResponse(hits, message)
}

func containsAny(s string, words []string) bool {
	for _, word := range words {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}

func (c *ChatbotService) greetingResponse() types.Response {
	return types.GreetingResponse{
		Message:     "Hello! I'm the CoreDNA assistant. I can help you learn about CoreDNA's platform, pricing, features, and more. What would you like to know?",
		Type:        types.TypeGreeting,
		Suggestions: greetingSuggestions,
	}
}

func (c *ChatbotService) goodbyeResponse() types.Response {
	return types.GoodbyeResponse{
		Message: "Thank you for your interest in CoreDNA! If you have more questions, feel free to ask anytime or contact our team directly.",
		Type:    types.TypeGoodbye,
	}
}

func (c *ChatbotService) helpResponse() types.Response {
	topics := c.store.ListTopics()
	helpTopics := make([]types.HelpTopic, 0, len(topics))
	for _, topic := range topics {
		description := topic.Description
		if len(description) > 100 {
			description = description[:100]
		}
		helpTopics = append(helpTopics, types.HelpTopic{
			Title:       topic.Title,
			Description: description + "...",
		})
	}
	return types.HelpResponse{
		Message:     "I can help you with information about CoreDNA! Here are the main topics I know about:",
		Type:        types.TypeHelp,
		Topics:      helpTopics,
		Suggestions: helpSuggestions,
	}
}

// topicResponse attempts the pricing, features and ecommerce shortcuts in
// turn. A keyword hit whose page is not loaded falls through to the next
// shortcut and finally to free search.
func (c *ChatbotService) topicResponse(query string) (types.Response, bool) {
	if containsAny(query, pricingWords) {
		if pages := c.search.SearchByCategory("pricing"); len(pages) > 0 {
			return c.pricingResponse(pages[0]), true
		}
	}
	if containsAny(query, featureWords) {
		if pages := c.search.SearchByCategory("features"); len(pages) > 0 {
			return c.featuresResponse(pages[0]), true
		}
	}
	if containsAny(query, ecommerceWords) {
		if pages := c.search.SearchByCategory("ecommerce"); len(pages) > 0 {
			return c.ecommerceResponse(pages[0]), true
		}
	}
	return nil, false
}

func (c *ChatbotService) pricingResponse(page types.Page) types.Response {
	plans := make([]string, 0, len(c.planRules))
	for _, rule := range c.planRules {
		if strings.Contains(page.Content, rule.Trigger) {
			plans = append(plans, rule.Line)
		}
	}
	return types.PricingResponse{
		Message: "Here's information about CoreDNA's pricing:",
		Type:    types.TypePricing,
		Content: types.PricingContent{
			Plans:      plans,
			Highlights: pricingHighlights,
		},
		Source: page.Title,
	}
}

func (c *ChatbotService) featuresResponse(page types.Page) types.Response {
	return types.FeaturesResponse{
		Message: "Here are CoreDNA's key features:",
		Type:    types.TypeFeatures,
		Content: types.FeaturesContent{
			KeyFeatures: firstN(page.KeyPoints, 6),
			Highlights:  featureHighlights,
		},
		Source: page.Title,
	}
}

func (c *ChatbotService) ecommerceResponse(page types.Page) types.Response {
	return types.EcommerceResponse{
		Message: "Here's what CoreDNA offers for eCommerce:",
		Type:    types.TypeEcommerce,
		Content: types.EcommerceContent{
			MainPoints:  firstN(page.KeyPoints, 5),
			Description: page.MetaDescription,
		},
		Source: page.Title,
	}
}

func (c *ChatbotService) searchResponse(hits []SearchHit, originalQuery string) types.Response {
	top := hits[0]

	additional := make([]types.AdditionalResult, 0, len(hits)-1)
	for _, hit := range hits[1:] {
		snippet := hit.Page.MetaDescription
		if len(hit.RelevantPoints) > 0 {
			snippet = hit.RelevantPoints[0]
		}
		additional = append(additional, types.AdditionalResult{
			Title:   hit.Page.Title,
			Snippet: snippet,
		})
	}

	suggestions := followUpSuggestions[top.Slug]
	if suggestions == nil {
		suggestions = genericSuggestions
	}

	return types.SearchResponse{
		Message: fmt.Sprintf("Based on your question about \"%s\", here's what I found:", originalQuery),
		Type:    types.TypeSearch,
		MainResult: types.MainResult{
			Title:        top.Page.Title,
			Source:       top.Page.URL,
			RelevantInfo: firstN(top.RelevantPoints, 3),
		},
		AdditionalResults: additional,
		Suggestions:       suggestions,
	}
}

func (c *ChatbotService) noResultsResponse(query string) types.Response {
	return types.NoResultsResponse{
		Message:     fmt.Sprintf("I couldn't find specific information about \"%s\", but I can help you with these CoreDNA topics:", query),
		Type:        types.TypeNoResults,
		Suggestions: noResultsSuggestions,
	}
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
