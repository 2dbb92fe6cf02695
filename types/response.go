package types

// Response type tags. Every chatbot reply carries exactly one of these.
const (
	TypeGreeting  = "greeting"
	TypeGoodbye   = "goodbye"
	TypeHelp      = "help"
	TypePricing   = "pricing"
	TypeFeatures  = "features"
	TypeEcommerce = "ecommerce"
	TypeSearch    = "search"
	TypeNoResults = "no_results"
)

// Response is the canonical chatbot reply. One concrete variant exists per
// type tag so consumers can switch over them; each variant marshals to the
// wire shape the chat UI renders.
type Response interface {
	ResponseType() string
}

type GreetingResponse struct {
	Message     string   `json:"message"`
	Type        string   `json:"type"`
	Suggestions []string `json:"suggestions"`
}

func (GreetingResponse) ResponseType() string { return TypeGreeting }

type GoodbyeResponse struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (GoodbyeResponse) ResponseType() string { return TypeGoodbye }

type HelpTopic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type HelpResponse struct {
	Message     string      `json:"message"`
	Type        string      `json:"type"`
	Topics      []HelpTopic `json:"topics"`
	Suggestions []string    `json:"suggestions"`
}

func (HelpResponse) ResponseType() string { return TypeHelp }

type PricingContent struct {
	Plans      []string `json:"plans"`
	Highlights []string `json:"highlights"`
}

type PricingResponse struct {
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Content PricingContent `json:"content"`
	Source  string         `json:"source"`
}

func (PricingResponse) ResponseType() string { return TypePricing }

type FeaturesContent struct {
	KeyFeatures []string `json:"keyFeatures"`
	Highlights  []string `json:"highlights"`
}

type FeaturesResponse struct {
	Message string          `json:"message"`
	Type    string          `json:"type"`
	Content FeaturesContent `json:"content"`
	Source  string          `json:"source"`
}

func (FeaturesResponse) ResponseType() string { return TypeFeatures }

type EcommerceContent struct {
	MainPoints  []string `json:"mainPoints"`
	Description string   `json:"description"`
}

type EcommerceResponse struct {
	Message string           `json:"message"`
	Type    string           `json:"type"`
	Content EcommerceContent `json:"content"`
	Source  string           `json:"source"`
}

func (EcommerceResponse) ResponseType() string { return TypeEcommerce }

type MainResult struct {
	Title        string   `json:"title"`
	Source       string   `json:"source"`
	RelevantInfo []string `json:"relevantInfo"`
}

type AdditionalResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type SearchResponse struct {
	Message           string             `json:"message"`
	Type              string             `json:"type"`
	MainResult        MainResult         `json:"mainResult"`
	AdditionalResults []AdditionalResult `json:"additionalResults"`
	Suggestions       []string           `json:"suggestions"`
}

func (SearchResponse) ResponseType() string { return TypeSearch }

type NoResultsResponse struct {
	Message     string   `json:"message"`
	Type        string   `json:"type"`
	Suggestions []string `json:"suggestions"`
}

func (NoResultsResponse) ResponseType() string { return TypeNoResults }

// TopicsResponse is the /api/topics body.
type TopicsResponse struct {
	Topics []Topic `json:"topics"`
	Count  int     `json:"count"`
}

// HealthResponse is the /api/health body.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
