package main

import (
	"context"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"slack_scribe/internal/config"
	"slack_scribe/internal/logger"
	"slack_scribe/internal/service/discourse"
	mcpserver "slack_scribe/internal/service/mcp-server"
	"slack_scribe/internal/service/slackapi"
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

	srv, err := mcpserver.NewServer(slackClient, discourseClient, records)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Banner goes to stderr; stdout carries the MCP protocol.
	log.Println("Starting Slack Scribe MCP server...")
	if err := mcpserver.Serve(srv); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
