package services

import (
	"context"
	"fmt"
	"time"

	sc "github.com/studymate-app/studymate/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// StorageService hands out presigned PUT URLs for avatar uploads.
type StorageService struct {
	config *sc.Config
}

func NewStorageService(config *sc.Config) *StorageService {
	return &StorageService{config: config}
}

var extByContentType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

// GetRandomStorageKey builds a date-bucketed object key. The extension is
// derived from the content type so the stored object is servable as-is.
func GetRandomStorageKey(contentType string) string {
	d := time.Now()
	key := fmt.Sprintf("avatars/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
	if ext, ok := extByContentType[contentType]; ok {
		key += "." + ext
	}
	return key
}

func (s *StorageService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// GetPresignedPutUrl returns a fresh object key and a presigned PUT URL the
// client can upload to directly. The URL expires after 15 minutes.
func (s *StorageService) GetPresignedPutUrl(ctx context.Context, contentType string) (string, string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey(contentType)

	in := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}
	if contentType != "" {
		in.ContentType = &contentType
	}

	req, err := presignPutObject(presignClient, ctx, in, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}
