package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"slack_scribe/internal/config"
	"slack_scribe/internal/handler"
	"slack_scribe/internal/logger"
	"slack_scribe/internal/service/discourse"
	"slack_scribe/internal/service/openai"
	"slack_scribe/internal/service/slackapi"
	"slack_scribe/internal/session"
	"slack_scribe/internal/storage"
)

var ginLambda *ginadapter.GinLambda

func handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return ginLambda.ProxyWithContext(ctx, req)
}

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

	h := handler.NewEventHandler(slackClient, aiClient, discourseClient, records, sessions, pool, cfg.Persona)
	ginLambda = ginadapter.New(handler.NewRouter(h))

	lambda.Start(handleRequest)
}
