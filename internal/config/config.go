package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Slack configuration
	SlackBotToken string // Required: Slack bot user OAuth token

	// Azure OpenAI configuration
	AzureOpenAIKey        string // Required: Azure OpenAI API key
	AzureOpenAIEndpoint   string // Required: Azure OpenAI endpoint URL
	AzureOpenAIDeployment string // Required: Azure OpenAI model deployment name

	// Discourse configuration for thread archival
	DiscourseBaseURL     string // Required: Discourse base URL
	DiscourseAPIKey      string // Required: Discourse API key
	DiscourseAPIUsername string // Required: Discourse API username

	// Log level
	LogLevel string // Required: Log level

	// Session store tuning
	SessionTTL      time.Duration // Time-to-live for thread conversation history
	SessionCapacity int           // Maximum number of cached threads

	// Dispatch tuning
	WorkerCount int // Goroutines consuming the dispatch queue
	QueueSize   int // Bounded dispatch queue length

	// Persona is the system prompt the bot answers with
	Persona string

	// ArchiveBucketName enables S3 audit records for archived threads when set
	ArchiveBucketName string
}

const defaultPersona = `You are Scribe, a dry-witted but genuinely helpful Slack assistant.
Answer user questions concisely and in accordance with your personality.
When asked to archive a conversation, use the archive_thread tool and include
the resulting post URL in your reply.

Respond using only Slack-compatible Markdown:
1. Use *bold*, _italic_, and ~strikethrough~ only.
2. Use \n to break lines manually.
3. Use - or • for bullet lists.
4. Use <https://url|display_text> to format links.`

// Load creates a new Config instance from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	requiredVars := map[string]*string{
		"SLACK_BOT_TOKEN": &cfg.SlackBotToken,

		"AZURE_OPENAI_KEY":      &cfg.AzureOpenAIKey,
		"AZURE_OPENAI_ENDPOINT": &cfg.AzureOpenAIEndpoint,

		"AZURE_OPENAI_DEPLOYMENT": &cfg.AzureOpenAIDeployment,

		"DISCOURSE_BASE_URL":     &cfg.DiscourseBaseURL,
		"DISCOURSE_API_KEY":      &cfg.DiscourseAPIKey,
		"DISCOURSE_API_USERNAME": &cfg.DiscourseAPIUsername,

		"LOG_LEVEL": &cfg.LogLevel,
	}

	var missingVars []string
	for env, ptr := range requiredVars {
		*ptr = os.Getenv(env)
		if *ptr == "" {
			missingVars = append(missingVars, env)
		}
	}

	if len(missingVars) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	ttlSeconds, err := intEnv("SESSION_TTL_SECONDS", 86400)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = time.Duration(ttlSeconds) * time.Second

	if cfg.SessionCapacity, err = intEnv("SESSION_CAPACITY", 1000); err != nil {
		return nil, err
	}
	if cfg.WorkerCount, err = intEnv("WORKER_COUNT", 4); err != nil {
		return nil, err
	}
	if cfg.QueueSize, err = intEnv("QUEUE_SIZE", 64); err != nil {
		return nil, err
	}

	cfg.Persona = os.Getenv("BOT_PERSONA")
	if cfg.Persona == "" {
		cfg.Persona = defaultPersona
	}

	cfg.ArchiveBucketName = os.Getenv("ARCHIVE_BUCKET_NAME")

	return cfg, nil
}

func intEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q", name, raw)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", name, v)
	}
	return v, nil
}
