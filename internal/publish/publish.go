package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/me/gowe/pkg/model"
)

// Publisher writes a rendered report to a local directory, or to S3
// when the configured output directory uses the "s3://" scheme.
type Publisher struct {
	outputDir string
}

// New returns a Publisher writing to outputDir, which may be a local
// path or an "s3://bucket/prefix" URL.
func New(outputDir string) *Publisher {
	return &Publisher{outputDir: outputDir}
}

// Publish renders the report to Markdown and writes it under a
// filename derived from the sprint name.
func (p *Publisher) Publish(ctx context.Context, report *model.Report) (string, error) {
	body := Markdown(report)
	filename := fmt.Sprintf("sprint-report-%s.md", sanitizeName(report.Sprint.Name))

	if bucket, key, ok := parseS3URL(p.outputDir, filename); ok {
		return fmt.Sprintf("s3://%s/%s", bucket, key), p.uploadS3(ctx, bucket, key, body)
	}
	return p.writeLocal(filename, body)
}

func (p *Publisher) writeLocal(filename, body string) (string, error) {
	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("publish: create output dir: %w", err)
	}
	path := filepath.Join(p.outputDir, filename)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("publish: write report: %w", err)
	}
	return path, nil
}

func (p *Publisher) uploadS3(ctx context.Context, bucket, key, body string) error {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("publish: load aws config: %w", err)
	}

	uploader := manager.NewUploader(s3.NewFromConfig(cfg))
	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        strings.NewReader(body),
		ContentType: strPtr("text/markdown; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("publish: upload to s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// parseS3URL splits an "s3://bucket/prefix" output directory into a
// bucket and object key, appending filename under the prefix.
func parseS3URL(outputDir, filename string) (bucket, key string, ok bool) {
	const scheme = "s3://"
	if !strings.HasPrefix(outputDir, scheme) {
		return "", "", false
	}
	rest := strings.TrimPrefix(outputDir, scheme)
	parts := strings.SplitN(rest, "/", 2)
	bucket = parts[0]
	prefix := ""
	if len(parts) == 2 {
		prefix = strings.TrimSuffix(parts[1], "/")
	}
	if prefix == "" {
		return bucket, filename, true
	}
	return bucket, prefix + "/" + filename, true
}

func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, name)
}

func strPtr(s string) *string { return &s }
