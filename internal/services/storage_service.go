// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/emissionsiq/emissionsiq-backend/internal/config"
)

// StorageService persists export artifacts to S3. Without AWS
// credentials the service stays disabled and exports are returned
// inline only.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type UploadResult struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		// callers get a usable, disabled service alongside the error
		return &StorageService{config: cfg}, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

func (s *StorageService) Enabled() bool {
	return s != nil && s.s3Client != nil
}

// UploadExport stores a generated CSV under a unique key and returns
// its public URL.
func (s *StorageService) UploadExport(filename string, data []byte) (*UploadResult, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("export storage is not configured")
	}

	key := fmt.Sprintf("exports/%s_%s", uuid.New().String(), filename)

	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("text/csv"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"key":  key,
		"size": len(data),
	}).Info("Export artifact stored")

	return &UploadResult{
		URL:  fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.AWS.S3Bucket, s.config.AWS.Region, key),
		Key:  key,
		Size: int64(len(data)),
	}, nil
}
