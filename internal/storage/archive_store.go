package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveRecord is the audit trail entry written after a thread is published.
type ArchiveRecord struct {
	Channel      string    `json:"channel"`
	ThreadTS     string    `json:"thread_ts"`
	PostID       int       `json:"post_id"`
	TopicID      int       `json:"topic_id"`
	URL          string    `json:"url"`
	MessageCount int       `json:"message_count"`
	ArchivedAt   time.Time `json:"archived_at"`
}

// RecordStore defines the interface for archive record storage operations
type RecordStore interface {
	Save(ctx context.Context, record ArchiveRecord) error
}

// S3RecordStore implements RecordStore using AWS S3
type S3RecordStore struct {
	client     *s3.Client
	bucketName string
}

// NewS3RecordStore creates a new S3RecordStore instance
func NewS3RecordStore(client *s3.Client, bucketName string) *S3RecordStore {
	return &S3RecordStore{
		client:     client,
		bucketName: bucketName,
	}
}

// Save writes the record as JSON under archives/<channel>/<thread_ts>.json.
// Re-archiving the same thread overwrites the previous record.
func (s *S3RecordStore) Save(ctx context.Context, record ArchiveRecord) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal archive record: %w", err)
	}

	key := fmt.Sprintf("archives/%s/%s.json", record.Channel, record.ThreadTS)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(jsonData),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to store archive record in S3: %w", err)
	}

	return nil
}
