package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/myshelf/internal/common"
	sc "github.com/dmitrijs2005/myshelf/internal/server/config"
	"github.com/google/uuid"
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
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// StorageKey is the deterministic blob key of a book, so repeated uploads
// of the same book overwrite one object.
func StorageKey(ownerID, bookID string) string {
	return fmt.Sprintf("%s%s%s", ownerPrefix(ownerID), bookID, common.BookExtension)
}

func ownerPrefix(ownerID string) string {
	return "users/" + ownerID + "/books/"
}

func ownsLocator(ownerID, locator string) bool {
	return ownerID != "" && strings.HasPrefix(locator, ownerPrefix(ownerID))
}

// StorageService hands out presigned URLs for the S3-compatible blob store.
// Content never passes through the server.
type StorageService struct {
	config *sc.Config
}

func NewStorageService(config *sc.Config) *StorageService {
	return &StorageService{config: config}
}

func (s *StorageService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
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

func (s *StorageService) expiry() time.Duration {
	if s.config.PresignExpiry <= 0 {
		return 15 * time.Minute
	}
	return s.config.PresignExpiry
}

// PresignUpload returns the blob key of the book and a PUT URL for it.
func (s *StorageService) PresignUpload(ctx context.Context, ownerID, bookID string) (string, string, error) {
	if ownerID == "" || uuid.Validate(bookID) != nil {
		return "", "", ErrInvalidArgument
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := StorageKey(ownerID, bookID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.expiry()))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignDownload returns a GET URL for key, which must belong to ownerID.
func (s *StorageService) PresignDownload(ctx context.Context, ownerID, key string) (string, error) {
	if !ownsLocator(ownerID, key) || strings.Contains(key, "..") {
		return "", ErrForeignLocator
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.expiry()))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
