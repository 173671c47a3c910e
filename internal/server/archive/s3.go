// Package archive ships the engine event log to S3-compatible object
// storage as JSON lines.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

const contentType = "application/x-ndjson"

var ErrEmptyBatch = errors.New("no events to export")

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configure the bucket. Endpoint is optional; when set, requests
// go to it with path-style addressing (MinIO and friends).
type Options struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type S3Exporter struct {
	client objectPutter
	bucket string
	prefix string
}

func NewS3Exporter(ctx context.Context, o Options) (*S3Exporter, error) {
	if o.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	})

	return &S3Exporter{client: client, bucket: o.Bucket, prefix: o.Prefix}, nil
}

// Export writes events as one object keyed by their sequence range and
// returns the key.
func (e *S3Exporter) Export(ctx context.Context, events []models.Event) (string, error) {
	if len(events) == 0 {
		return "", ErrEmptyBatch
	}

	body, err := encodeLines(events)
	if err != nil {
		return "", err
	}

	key := objectKey(e.prefix, events[0].Seq, events[len(events)-1].Seq)

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(e.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}

	return key, nil
}

func encodeLines(events []models.Event) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range events {
		if err := enc.Encode(&events[i]); err != nil {
			return nil, fmt.Errorf("encode event %d: %w", events[i].Seq, err)
		}
	}
	return buf.Bytes(), nil
}

// objectKey zero-pads sequence numbers so keys sort in log order.
func objectKey(prefix string, first, last int64) string {
	name := fmt.Sprintf("%020d-%020d.jsonl", first, last)
	return path.Join(prefix, "audit", name)
}
