package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tieubaoca/coredna-chatbot/types"
)

func newTestChatbot(pages ...types.Page) *ChatbotService {
	store := newTestStore(pages...)
	return NewChatbotService(store, NewSearchService(store), zap.NewNop())
}

func pricingPage() types.Page {
	return types.Page{
		URL:     "https://www.coredna.com/pricing",
		Slug:    "pricing",
		Title:   "CoreDNA Pricing",
		Content: "Plans start at $1250/month for the CMS tier. Enterprise options scale with dedicated infrastructure for larger teams.",
		KeyPoints: []string{
			"Transparent pricing",
		},
		MetaDescription: "CoreDNA pricing plans",
	}
}

func TestProcessMessageGreeting(t *testing.T) {
	bot := newTestChatbot(pricingPage())

	response := bot.ProcessMessage("hello there")
	greeting, ok := response.(types.GreetingResponse)
	require.True(t, ok)
	assert.Equal(t, types.TypeGreeting, greeting.Type)
	assert.Len(t, greeting.Suggestions, 4)
}

func TestGreetingWinsOverEverything(t *testing.T) {
	bot := newTestChatbot(pricingPage())

	// A greeting word anywhere in the message classifies it as a greeting,
	// even when the rest asks about pricing.
	response := bot.ProcessMessage("hey, what does your platform cost?")
	assert.Equal(t, types.TypeGreeting, response.ResponseType())
}

func TestProcessMessageTrimsAndLowercases(t *testing.T) {
	bot := newTestChatbot()
	assert.Equal(t, types.TypeGreeting, bot.ProcessMessage("   HELLO   ").ResponseType())
}

func TestGoodbyeBeatsHelp(t *testing.T) {
	bot := newTestChatbot(pricingPage())

	// "bye" and "help" both appear; goodbye is checked first.
	response := bot.ProcessMessage("bye, thanks for the help")
	goodbye, ok := response.(types.GoodbyeResponse)
	require.True(t, ok)
	assert.Equal(t, types.TypeGoodbye, goodbye.Type)
}

func TestThanksEndsConversation(t *testing.T) {
	bot := newTestChatbot(pricingPage())
	assert.Equal(t, types.TypeGoodbye, bot.ProcessMessage("thank you so much").ResponseType())
}

func TestProcessMessageHelp(t *testing.T) {
	longMeta := strings.Repeat("x", 150)
	bot := newTestChatbot(
		types.Page{Slug: "one", Title: "Page One", MetaDescription: longMeta},
		types.Page{Slug: "two", Title: "Page Two", MetaDescription: "short"},
	)

	response := bot.ProcessMessage("what can you do")
	help, ok := response.(types.HelpResponse)
	require.True(t, ok)
	require.Len(t, help.Topics, 2)
	assert.Equal(t, "Page One", help.Topics[0].Title)
	// Descriptions are clipped at 100 characters and always get an ellipsis.
	assert.Equal(t, strings.Repeat("x", 100)+"...", help.Topics[0].Description)
	assert.Equal(t, "short...", help.Topics[1].Description)
	assert.Len(t, help.Suggestions, 4)
}

func TestPricingScenario(t *testing.T) {
	// Content carries "$1250/month" and "Enterprise" but not "$2450/month":
	// exactly the CMS and Enterprise lines come back.
	bot := newTestChatbot(pricingPage())

	response := bot.ProcessMessage("What is CoreDNA's pricing?")
	pricing, ok := response.(types.PricingResponse)
	require.True(t, ok)
	assert.Equal(t, types.TypePricing, pricing.Type)
	require.Len(t, pricing.Content.Plans, 2)
	assert.Contains(t, pricing.Content.Plans[0], "CMS Plan")
	assert.Contains(t, pricing.Content.Plans[1], "Enterprise DXP")
	assert.Len(t, pricing.Content.Highlights, 4)
	assert.Equal(t, "CoreDNA Pricing", pricing.Source)
}

func TestFeaturesShortcut(t *testing.T) {
	bot := newTestChatbot(types.Page{
		Slug:  "features",
		Title: "CoreDNA Features",
		KeyPoints: []string{
			"One", "Two", "Three", "Four", "Five", "Six", "Seven",
		},
	})

	response := bot.ProcessMessage("tell me about your feature set")
	features, ok := response.(types.FeaturesResponse)
	require.True(t, ok)
	assert.Len(t, features.Content.KeyFeatures, 6)
	assert.Equal(t, "Six", features.Content.KeyFeatures[5])
	assert.Len(t, features.Content.Highlights, 5)
	assert.Equal(t, "CoreDNA Features", features.Source)
}

func TestEcommerceShortcut(t *testing.T) {
	bot := newTestChatbot(types.Page{
		Slug:            "ecommerce-platform",
		Title:           "CoreDNA eCommerce",
		KeyPoints:       []string{"One", "Two", "Three", "Four", "Five", "Six"},
		MetaDescription: "Sell everywhere",
	})

	response := bot.ProcessMessage("do you support an online store")
	ecommerce, ok := response.(types.EcommerceResponse)
	require.True(t, ok)
	assert.Len(t, ecommerce.Content.MainPoints, 5)
	assert.Equal(t, "Sell everywhere", ecommerce.Content.Description)
}

func TestTopicShortcutFallsThroughToSearch(t *testing.T) {
	// "cost" matches the pricing shortcut but no pricing page is loaded, so
	// the message falls through to free search and matches by content.
	bot := newTestChatbot(types.Page{
		Slug:    "why-coredna",
		Title:   "Total cost of ownership",
		Content: "We keep the total cost of ownership predictable for every team.",
	})

	response := bot.ProcessMessage("what does it cost")
	assert.Equal(t, types.TypeSearch, response.ResponseType())
}

func TestSearchResponseShape(t *testing.T) {
	bot := newTestChatbot(
		types.Page{
			Slug:  "why-coredna",
			Title: "Deployment options",
			URL:   "https://www.coredna.com/why-coredna",
			KeyPoints: []string{
				"Fast deployment", "Managed deployment pipeline",
				"Deployment safety", "Deployment reviews",
			},
			Content: "Deployment rollouts reach every region within minutes of release.",
		},
		types.Page{
			Slug:            "other-guide",
			Title:           "Deployment guide",
			URL:             "https://www.coredna.com/other-guide",
			Content:         "Deployment tips.",
			MetaDescription: "A short guide",
		},
	)

	response := bot.ProcessMessage("deployment strategy")
	search, ok := response.(types.SearchResponse)
	require.True(t, ok)

	assert.Contains(t, search.Message, `"deployment strategy"`)
	assert.Equal(t, "Deployment options", search.MainResult.Title)
	assert.Equal(t, "https://www.coredna.com/why-coredna", search.MainResult.Source)
	// Four key points matched but only the first three ship.
	assert.Len(t, search.MainResult.RelevantInfo, 3)

	require.Len(t, search.AdditionalResults, 1)
	assert.Equal(t, "Deployment guide", search.AdditionalResults[0].Title)
	// No relevant points were extracted for the runner-up ("Deployment
	// tips" is too short a sentence), so the meta description stands in.
	assert.Equal(t, "A short guide", search.AdditionalResults[0].Snippet)

	// Follow-ups come from the slug table for the top hit.
	assert.Equal(t, []string{"What makes CoreDNA different?", "Show me pricing plans"}, search.Suggestions)
}

func TestSearchSuggestionsFallBackToGeneric(t *testing.T) {
	bot := newTestChatbot(types.Page{
		Slug:    "unmapped-slug",
		Title:   "Deployment",
		Content: "Deployment rollouts reach every region within minutes of release.",
	})

	response := bot.ProcessMessage("deployment strategy")
	search, ok := response.(types.SearchResponse)
	require.True(t, ok)
	assert.Equal(t, []string{"Tell me more about CoreDNA", "What are the pricing options?"}, search.Suggestions)
	assert.Empty(t, search.AdditionalResults)
}

func TestNoResultsEchoesQuery(t *testing.T) {
	bot := newTestChatbot(pricingPage())

	response := bot.ProcessMessage("xyzzy unrelated nonsense")
	noResults, ok := response.(types.NoResultsResponse)
	require.True(t, ok)
	assert.Contains(t, noResults.Message, `"xyzzy unrelated nonsense"`)
	assert.Len(t, noResults.Suggestions, 5)
}

func TestEmptyBaseYieldsNoResults(t *testing.T) {
	bot := newTestChatbot()

	response := bot.ProcessMessage("tell me about your platform")
	assert.Equal(t, types.TypeNoResults, response.ResponseType())
}
