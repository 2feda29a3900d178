package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"hannas-kitchen/internal/storage"
)

// objectPutter is the part of the S3 client used here.
type objectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// S3 uploads images to a bucket and returns their virtual-hosted URL.
type S3 struct {
	client objectPutter
	bucket string
	region string
	now    func() time.Time
}

func NewS3(bucket, region string) (*S3, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}
	return &S3{
		client: s3.New(sess),
		bucket: bucket,
		region: region,
		now:    time.Now,
	}, nil
}

func (s *S3) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := "menu/" + GenerateName(s.now(), filename)
	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", storage.Unavailable("put image object", err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
