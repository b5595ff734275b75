package types

// ProviderKind identifies which vendor wire protocol a backend speaks.
type ProviderKind string

const (
	ProviderAnthropic  ProviderKind = "anthropic"
	ProviderOpenAI     ProviderKind = "openai"
	ProviderOpenRouter ProviderKind = "openrouter"
	ProviderLMStudio   ProviderKind = "lmstudio"
	ProviderOllama     ProviderKind = "ollama"
	ProviderGoogle     ProviderKind = "google"
)

// Provider is the active LLM backend configuration. It is loaded from the
// settings store once per request and never mutated.
type Provider struct {
	Kind     ProviderKind `json:"type"`
	Name     string       `json:"name"`
	Endpoint string       `json:"endpoint"`
	APIKey   string       `json:"apiKey,omitempty"`
	Model    string       `json:"model"`
	IsLocal  bool         `json:"isLocal"`
}

// Settings mirrors the rows of the settings table the UI cares about.
type Settings struct {
	Provider        *Provider `json:"provider,omitempty"`
	DefaultCurrency string    `json:"defaultCurrency"`
	Theme           string    `json:"theme"`
}

// Message is one conversation turn injected into prompt context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QueryResult is the JSON-serializable form of an executed SELECT.
// Cell values are nil, int64, float64 or string; blobs are rendered as a
// placeholder string before they get here.
type QueryResult struct {
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"row_count"`
}
