package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/forkful/backend/config"
)

// ErrStorageUnavailable means the object store rejected an upload. The
// image is supplementary, so callers degrade to a nil address instead of
// failing the extraction.
var ErrStorageUnavailable = errors.New("object storage unavailable")

// ObjectStore is the slice of the S3 API the asset service uses.
type ObjectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// AssetService uploads binary assets to object storage and resolves their
// public addresses. Already-public addresses pass through untouched.
type AssetService struct {
	store  ObjectStore
	bucket string
}

// NewAssetService creates a new AssetService instance
func NewAssetService(s3Config *config.S3Config) *AssetService {
	return &AssetService{
		store:  s3Config.Client,
		bucket: s3Config.BucketName,
	}
}

// PersistImage returns a durable public address for the request's image.
// A non-empty publicURL (e.g. a page's preview image) is returned as-is
// with no re-upload. A binary asset is uploaded under a collision-resistant
// name with its extension preserved.
func (s *AssetService) PersistImage(ctx context.Context, asset *ImageAsset, publicURL string) (*string, error) {
	if publicURL != "" {
		return &publicURL, nil
	}
	if asset == nil {
		return nil, nil
	}

	ext := strings.TrimPrefix(path.Ext(asset.FileName), ".")
	if ext == "" {
		ext = "jpg"
	}
	key := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)

	_, err := s.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(asset.Data),
		ContentType: aws.String(asset.MediaType),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	return &url, nil
}

// RemoveImage deletes a stored asset by its public address. Addresses
// outside our bucket are external pass-throughs and are left alone.
func (s *AssetService) RemoveImage(ctx context.Context, imageURL string) error {
	prefix := fmt.Sprintf("https://%s.s3.amazonaws.com/", s.bucket)
	if !strings.HasPrefix(imageURL, prefix) {
		return nil
	}
	key := strings.TrimPrefix(imageURL, prefix)

	_, err := s.store.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Printf("[AssetService] failed to delete object %s: %v", key, err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
