package storage

import (
	"context"

	"foodgram/internal/utils"

	"github.com/sirupsen/logrus"
)

// FileStorage keeps uploaded images and turns object keys into public links.
type FileStorage interface {
	UploadFile(ctx context.Context, objectKey string, data []byte, contentType string) (string, error)
	DeleteFile(ctx context.Context, objectKey string) error
	GetPublicLinkKey(objectKey string) string
	GetObjectKeyFromLink(link string) string
}

// New returns the S3 backend when a bucket is configured and local disk storage otherwise.
func New(logger *logrus.Logger) (FileStorage, error) {
	if utils.GetConfig("AWS_S3_BUCKET") != "" {
		s3, err := NewAwsS3(context.Background())
		if err != nil {
			return nil, err
		}
		logger.WithField("bucket", utils.GetConfig("AWS_S3_BUCKET")).Info("using s3 image storage")
		return s3, nil
	}

	root := utils.GetConfig("MEDIA_ROOT")
	logger.WithField("root", root).Info("using local image storage")
	return NewLocalStorage(root, utils.GetConfig("APP_URL")+LocalMediaPrefix)
}
