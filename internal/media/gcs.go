package media

import (
	"context"
	"fmt"
	"strings"

	"academy-api/config"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type GCSUploader struct {
	Client *storage.Client
	Bucket string
}

// NewGCSUploader returns nil without error when no bucket is configured.
func NewGCSUploader(ctx context.Context, cfg config.Config) (*GCSUploader, error) {
	if cfg.BucketName == "" {
		return nil, nil
	}
	var opts []option.ClientOption
	if cfg.GCSCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return &GCSUploader{Client: client, Bucket: cfg.BucketName}, nil
}

func PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

func (g *GCSUploader) Upload(ctx context.Context, object, contentType string, data []byte) (string, int64, error) {
	w := g.Client.Bucket(g.Bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	n, err := w.Write(data)
	if err != nil {
		_ = w.Close()
		return "", 0, err
	}
	if err := w.Close(); err != nil {
		return "", 0, err
	}
	return PublicURL(g.Bucket, object), int64(n), nil
}

// DeletePrefix removes every object under prefix/.
func (g *GCSUploader) DeletePrefix(ctx context.Context, prefix string) error {
	bkt := g.Client.Bucket(g.Bucket)
	it := bkt.Objects(ctx, &storage.Query{Prefix: strings.TrimSuffix(prefix, "/") + "/"})
	for {
		obj, err := it.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}
		if err := bkt.Object(obj.Name).Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
			return err
		}
	}
}

func (g *GCSUploader) Close() error {
	return g.Client.Close()
}
