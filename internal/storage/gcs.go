package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage publishes finished storyboard sessions to a Cloud Storage
// bucket.
type GCSStorage struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSStorage(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCSStorage, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

// UploadDir uploads every regular file in localDir under
// <prefix>/<dir name>/ and returns the object names written.
func (s *GCSStorage) UploadDir(ctx context.Context, localDir string) ([]string, error) {
	entries, err := os.ReadDir(localDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	remoteDir := filepath.Base(localDir)
	if s.prefix != "" {
		remoteDir = s.prefix + "/" + remoteDir
	}

	var objects []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		objectName := remoteDir + "/" + entry.Name()
		if err := s.uploadFile(ctx, filepath.Join(localDir, entry.Name()), objectName); err != nil {
			return objects, err
		}
		objects = append(objects, objectName)
	}

	return objects, nil
}

func (s *GCSStorage) uploadFile(ctx context.Context, localPath, objectName string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish upload of %s: %w", objectName, err)
	}

	return nil
}

func (s *GCSStorage) ObjectURL(objectName string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName)
}
