package oss

import (
	"context"
	"io"
	"strings"

	"Pharmetix/config"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
)

// Storage bucket scoped object store used for medicine images.
type Storage struct {
	Client    *oss.Client
	Bucket    string
	CdnDomain string
}

func NewStorage(cfg *config.OssConfig) *Storage {
	var provider credentials.CredentialsProvider
	if cfg.AccessKeyID != "" {
		provider = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret)
	} else {
		provider = credentials.NewEnvironmentVariableCredentialsProvider()
	}
	ossCfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(provider).
		WithEndpoint(cfg.Endpoint).
		WithRegion(cfg.Region)

	return &Storage{
		Client:    oss.NewClient(ossCfg),
		Bucket:    cfg.Bucket,
		CdnDomain: cfg.CdnDomain,
	}
}

func (s *Storage) Put(ctx context.Context, objectKey string, body io.Reader, contentType string) error {
	_, err := s.Client.PutObject(ctx, &oss.PutObjectRequest{
		Bucket:      oss.Ptr(s.Bucket),
		Key:         oss.Ptr(objectKey),
		Body:        body,
		ContentType: oss.Ptr(contentType),
	})
	return err
}

func (s *Storage) Delete(ctx context.Context, objectKey string) error {
	_, err := s.Client.DeleteObject(ctx, &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(s.Bucket),
		Key:    oss.Ptr(objectKey),
	})
	return err
}

func (s *Storage) URL(objectKey string) string {
	return strings.TrimRight(s.CdnDomain, "/") + "/" + objectKey
}
