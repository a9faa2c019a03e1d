package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/studymate-app/studymate/internal/server/config"
)

func newStorageService() *StorageService {
	return NewStorageService(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "admin",
		S3RootPassword: "secretpassword",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "avatars",
	})
}

func stubPresignSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func TestGetRandomStorageKey_ExtensionFollowsContentType(t *testing.T) {
	key := GetRandomStorageKey("image/png")
	if !strings.HasPrefix(key, "avatars/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected key: %q", key)
	}
	key = GetRandomStorageKey("application/octet-stream")
	if strings.Contains(key, ".") {
		t.Fatalf("unexpected extension for unknown type: %q", key)
	}
	if GetRandomStorageKey("image/png") == GetRandomStorageKey("image/png") {
		t.Fatal("keys are not unique")
	}
}

func TestGetPresignedPutUrl_Success(t *testing.T) {
	svc := newStorageService()
	stubPresignSeams(t)

	var capturedBucket, capturedKey, capturedType string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		capturedBucket = *in.Bucket
		capturedKey = *in.Key
		if in.ContentType != nil {
			capturedType = *in.ContentType
		}
		return &v4.PresignedHTTPRequest{URL: "http://127.0.0.1:9000/avatars/signed"}, nil
	}

	key, url, err := svc.GetPresignedPutUrl(context.Background(), "image/jpeg")
	if err != nil {
		t.Fatalf("GetPresignedPutUrl err: %v", err)
	}
	if key != capturedKey || url != "http://127.0.0.1:9000/avatars/signed" {
		t.Fatalf("unexpected result: %q %q", key, url)
	}
	if capturedBucket != "avatars" || capturedType != "image/jpeg" {
		t.Fatalf("request not built from config: %q %q", capturedBucket, capturedType)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("key extension mismatch: %q", key)
	}
}

func TestGetPresignedPutUrl_PresignError(t *testing.T) {
	svc := newStorageService()
	stubPresignSeams(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-fail")
	}

	if _, _, err := svc.GetPresignedPutUrl(context.Background(), "image/png"); err == nil {
		t.Fatal("expected error")
	}
}

func TestGetPresignedPutUrl_ConfigError(t *testing.T) {
	svc := newStorageService()
	stubPresignSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	if _, _, err := svc.GetPresignedPutUrl(context.Background(), "image/png"); err == nil {
		t.Fatal("expected error")
	}
}
