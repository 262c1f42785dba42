package main

import (
	"context"
	"log"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"slack_scribe/internal/config"
	"slack_scribe/internal/handler"
	"slack_scribe/internal/logger"
	"slack_scribe/internal/service/discourse"
	"slack_scribe/internal/service/openai"
	"slack_scribe/internal/service/slackapi"
	"slack_scribe/internal/session"
	"slack_scribe/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	aiClient, err := openai.NewClient(cfg.AzureOpenAIEndpoint, cfg.AzureOpenAIKey, cfg.AzureOpenAIDeployment)
	if err != nil {
		log.Fatalf("Failed to create OpenAI client: %v", err)
	}

	slackClient := slackapi.New(cfg.SlackBotToken)
	discourseClient := discourse.NewClient(nil, cfg.DiscourseBaseURL, cfg.DiscourseAPIKey, cfg.DiscourseAPIUsername)

	var records storage.RecordStore
	if cfg.ArchiveBucketName != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			log.Fatalf("Failed to load AWS config: %v", err)
		}
		records = storage.NewS3RecordStore(s3.NewFromConfig(awsCfg), cfg.ArchiveBucketName)
	}

	sessions := session.New(cfg.SessionTTL, cfg.SessionCapacity)
	pool := handler.NewPool(cfg.WorkerCount, cfg.QueueSize)
	defer pool.Close()

	h := handler.NewEventHandler(slackClient, aiClient, discourseClient, records, sessions, pool, cfg.Persona)
	router := handler.NewRouter(h)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
