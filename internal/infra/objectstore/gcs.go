package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/studiokawa/proofroom/internal/domain"
)

const uploadChunkSize = 256 * 1024

// GCSStore keeps proof images in a Google Cloud Storage bucket. Object refs
// are the bucket-relative paths; URLs are built from the public base.
type GCSStore struct {
	client  *storage.Client
	bucket  *storage.BucketHandle
	name    string
	baseURL string
}

func NewGCSStore(ctx context.Context, bucket string, credentialsFile string, publicBaseURL string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("objectstore: bucket not set")
	}

	var clientOpts []option.ClientOption
	if credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialsFile))
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("objectstore: failed in creating storage client: %w", err)
	}

	if publicBaseURL == "" {
		publicBaseURL = "https://storage.googleapis.com/" + bucket
	}

	return &GCSStore{
		client:  client,
		bucket:  client.Bucket(bucket),
		name:    bucket,
		baseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

func (s *GCSStore) Put(ctx context.Context, path string, r io.Reader, size int64, contentType string, progress func(fraction float64)) (domain.StoredObject, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.ChunkSize = uploadChunkSize
	if progress != nil && size > 0 {
		w.ProgressFunc = func(written int64) {
			progress(float64(written) / float64(size))
		}
	}

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return domain.StoredObject{}, err
	}
	if err := w.Close(); err != nil {
		return domain.StoredObject{}, err
	}

	if progress != nil {
		progress(1)
	}

	return domain.StoredObject{
		URL: s.baseURL + "/" + path,
		Ref: path,
	}, nil
}

func (s *GCSStore) Delete(ctx context.Context, ref string) error {
	err := s.bucket.Object(ref).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		slog.DebugContext(ctx, "objectstore: delete of missing object", slog.String("ref", ref))
		return nil
	}
	return err
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
