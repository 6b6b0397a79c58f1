package avatar

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/getmentor/mentor-match-client/config"
	"github.com/getmentor/mentor-match-client/pkg/logger"
)

// ObjectClient is the subset of the S3 API used to fetch avatars
type ObjectClient interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client creates an S3 client with static credentials. A custom
// endpoint switches to path-style addressing for S3-compatible stores.
func NewS3Client(cfg config.S3Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	logger.Info("Avatar S3 client initialized",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("region", cfg.Region))

	return s3.New(opts)
}

// S3Source reads an avatar stored as an S3 object
type S3Source struct {
	Client ObjectClient
	Bucket string
	Key    string
}

func (s S3Source) Read(ctx context.Context) ([]byte, string, error) {
	location := fmt.Sprintf("s3://%s/%s", s.Bucket, s.Key)

	head, err := s.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, "", readError(location, err)
	}
	if err := sizeCheck(aws.ToInt64(head.ContentLength)); err != nil {
		return nil, "", err
	}

	obj, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, "", readError(location, err)
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(io.LimitReader(obj.Body, MaxSize+1))
	if err != nil {
		return nil, "", readError(location, err)
	}

	return data, aws.ToString(head.ContentType), nil
}
