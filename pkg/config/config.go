package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Notion NotionConfig `yaml:"notion" json:"notion" jsonschema:"description=Notion document store configuration"`
	Feed   FeedConfig   `yaml:"feed" json:"feed" jsonschema:"description=Feed fetching configuration"`
	LLM    LLMConfig    `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for entry enrichment"`
}

// NotionConfig holds the document store settings
type NotionConfig struct {
	Endpoint        string          `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://api.notion.com,description=Notion API base URL"`
	APIKey          string          `yaml:"api_key" json:"api_key" jsonschema:"description=Notion integration token (can use environment variable)"`
	Version         string          `yaml:"version" json:"version" jsonschema:"default=2022-06-28,description=Notion-Version header value"`
	Timeout         time.Duration   `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	RateLimit       float64         `yaml:"rate_limit" json:"rate_limit" jsonschema:"default=3,description=Maximum requests per second; 0 disables pacing"`
	FeedsDatabase   string          `yaml:"feeds_database" json:"feeds_database" jsonschema:"description=Database id of the feed registry"`
	ReadingDatabase string          `yaml:"reading_database" json:"reading_database" jsonschema:"description=Database id of the entries table"`
	FeedProps       FeedProperties  `yaml:"feed_properties" json:"feed_properties" jsonschema:"description=Property names of the feed registry"`
	EntryProps      EntryProperties `yaml:"entry_properties" json:"entry_properties" jsonschema:"description=Property names of the entries table"`
}

// FeedProperties maps feed registry fields to Notion property names
type FeedProperties struct {
	Title   string `yaml:"title" json:"title" jsonschema:"default=Name"`
	URL     string `yaml:"url" json:"url" jsonschema:"default=URL"`
	Tags    string `yaml:"tags" json:"tags" jsonschema:"default=Tags"`
	Checked string `yaml:"checked" json:"checked" jsonschema:"default=Checked,description=Date property set on every poll"`
	Updated string `yaml:"updated" json:"updated" jsonschema:"default=Updated,description=Date property with the latest feed update"`
}

// EntryProperties maps entry fields to Notion property names
type EntryProperties struct {
	Title     string `yaml:"title" json:"title" jsonschema:"default=Title"`
	URL       string `yaml:"url" json:"url" jsonschema:"default=URL"`
	Source    string `yaml:"source" json:"source" jsonschema:"default=Source,description=Relation to the feed registry"`
	Tags      string `yaml:"tags" json:"tags" jsonschema:"default=Tags"`
	Summary   string `yaml:"summary" json:"summary" jsonschema:"default=Summary"`
	Published string `yaml:"published" json:"published" jsonschema:"default=Published"`
}

// FeedConfig holds feed fetching settings
type FeedConfig struct {
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Feed fetch timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=rss2notion/1.0,description=User agent for feed requests"`
}

// LLMConfig holds LLM configuration for entry enrichment
type LLMConfig struct {
	Endpoint       string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://generativelanguage.googleapis.com/v1beta/openai,description=OpenAI-compatible API endpoint"`
	APIKey         string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key; enrichment is disabled if empty"`
	Model          string        `yaml:"model" json:"model" jsonschema:"default=gemini-1.5-flash,description=Preferred model name"`
	FallbackModels []string      `yaml:"fallback_models" json:"fallback_models" jsonschema:"description=Models to try in order if the preferred one is not listed"`
	Temperature    float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens      int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=300,description=Maximum tokens in response"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Request timeout"`
	MaxInput       int           `yaml:"max_input" json:"max_input" jsonschema:"default=2000,minimum=1,description=Maximum characters of entry text sent to the model"`
	SuccessDelay   time.Duration `yaml:"success_delay" json:"success_delay" jsonschema:"default=4s,description=Pause after a successful enrichment; 0 disables it"`
	FailureDelay   time.Duration `yaml:"failure_delay" json:"failure_delay" jsonschema:"default=1s,description=Pause after a failed enrichment; 0 disables it"`
	Prompt         string        `yaml:"prompt" json:"prompt" jsonschema:"description=Prompt template (optional); {title} and {content} placeholders get entry title and content"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	// values missing from the file keep defaults, explicit zeros are kept as is
	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.setDefaultNames()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return cfg, nil
}

// Default returns configuration with all defaults set, used when no config file is given
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

// setDefaults fills zero values, used for the config without a file
func (c *Config) setDefaults() {
	if c.Notion.Timeout == 0 {
		c.Notion.Timeout = 30 * time.Second
	}
	if c.Notion.RateLimit == 0 {
		c.Notion.RateLimit = 3
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = 30 * time.Second
	}
	if c.LLM.FallbackModels == nil {
		c.LLM.FallbackModels = []string{"gemini-pro"}
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 300
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}
	if c.LLM.MaxInput == 0 {
		c.LLM.MaxInput = 2000
	}
	if c.LLM.SuccessDelay == 0 {
		c.LLM.SuccessDelay = 4 * time.Second
	}
	if c.LLM.FailureDelay == 0 {
		c.LLM.FailureDelay = 1 * time.Second
	}
	c.setDefaultNames()
}

// setDefaultNames fills empty strings. Unlike numbers, an empty endpoint or property name
// is never meaningful, e.g. after expanding an undefined env variable.
func (c *Config) setDefaultNames() {
	setDefault(&c.Notion.Endpoint, "https://api.notion.com")
	setDefault(&c.Notion.Version, "2022-06-28")
	setDefault(&c.Notion.FeedProps.Title, "Name")
	setDefault(&c.Notion.FeedProps.URL, "URL")
	setDefault(&c.Notion.FeedProps.Tags, "Tags")
	setDefault(&c.Notion.FeedProps.Checked, "Checked")
	setDefault(&c.Notion.FeedProps.Updated, "Updated")
	setDefault(&c.Notion.EntryProps.Title, "Title")
	setDefault(&c.Notion.EntryProps.URL, "URL")
	setDefault(&c.Notion.EntryProps.Source, "Source")
	setDefault(&c.Notion.EntryProps.Tags, "Tags")
	setDefault(&c.Notion.EntryProps.Summary, "Summary")
	setDefault(&c.Notion.EntryProps.Published, "Published")
	setDefault(&c.Feed.UserAgent, "rss2notion/1.0")
	setDefault(&c.LLM.Endpoint, "https://generativelanguage.googleapis.com/v1beta/openai")
	setDefault(&c.LLM.Model, "gemini-1.5-flash")
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate checks configuration for correctness.
// Database ids and API keys are not checked here, they usually come from the environment
// and are verified by the clients using them.
func (c *Config) Validate() error {
	if c.Notion.RateLimit < 0 {
		return fmt.Errorf("notion.rate_limit must be non-negative")
	}
	if c.Notion.Timeout < time.Second {
		return fmt.Errorf("notion.timeout must be at least 1 second")
	}
	if c.Feed.Timeout < time.Second {
		return fmt.Errorf("feed.timeout must be at least 1 second")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxInput < 1 {
		return fmt.Errorf("llm.max_input must be at least 1")
	}
	if c.LLM.MaxTokens < 1 {
		return fmt.Errorf("llm.max_tokens must be at least 1")
	}
	if c.LLM.SuccessDelay < 0 || c.LLM.FailureDelay < 0 {
		return fmt.Errorf("llm delays must be non-negative")
	}
	return nil
}
