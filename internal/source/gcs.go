package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSSource reads export files from Cloud Storage.
type GCSSource struct {
	client *storage.Client
	retry  RetryConfig
}

// GCSOptions configures NewGCSSource. Empty fields use the environment's
// default credentials and the public endpoint.
type GCSOptions struct {
	CredentialsFile string
	Endpoint        string
}

// NewGCSSource creates a storage client.
func NewGCSSource(ctx context.Context, opts GCSOptions) (*GCSSource, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	retry := DefaultGCSRetryConfig
	retry.Retryable = isRetryableGCSError
	return &GCSSource{client: client, retry: retry}, nil
}

// Close releases the underlying client.
func (g *GCSSource) Close() error {
	return g.client.Close()
}

// ParseGCSURI splits gs://bucket/prefix into its parts. The prefix may be
// empty or name a single object.
func ParseGCSURI(uri string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if parts[0] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no bucket): %s", uri)
	}
	if len(parts) == 1 {
		return parts[0], "", nil
	}
	return parts[0], parts[1], nil
}

// Fetch reads every object under uri accepted by filter. A URI naming one
// object returns just that object.
func (g *GCSSource) Fetch(ctx context.Context, uri string, filter Filter, maxSize int64) ([]File, error) {
	bucket, prefix, err := ParseGCSURI(uri)
	if err != nil {
		return nil, err
	}

	names, err := g.list(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(names))
	for _, name := range names {
		if filter != nil && !filter(path.Base(name)) {
			continue
		}
		data, err := WithRetry(ctx, g.retry, func(ctx context.Context) ([]byte, error) {
			return g.read(ctx, bucket, name, maxSize)
		})
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: name, Data: data})
	}
	return files, nil
}

func (g *GCSSource) list(ctx context.Context, bucket, prefix string) ([]string, error) {
	it := g.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gs://%s/%s: %w", bucket, prefix, err)
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

func (g *GCSSource) read(ctx context.Context, bucket, object string, maxSize int64) ([]byte, error) {
	r, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	var src io.Reader = r
	if maxSize > 0 {
		src = io.LimitReader(r, maxSize+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}
	return data, nil
}

func isRetryableGCSError(err error) bool {
	switch {
	case errors.Is(err, storage.ErrObjectNotExist),
		errors.Is(err, storage.ErrBucketNotExist),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

// LazyGCSSource creates its client on first use, so a process without
// Cloud credentials can still start and serve local imports.
type LazyGCSSource struct {
	opts GCSOptions

	mu     sync.Mutex
	source *GCSSource
}

func NewLazyGCSSource(opts GCSOptions) *LazyGCSSource {
	return &LazyGCSSource{opts: opts}
}

// Fetch behaves like GCSSource.Fetch. A failed client creation is retried
// on the next call.
func (l *LazyGCSSource) Fetch(ctx context.Context, uri string, filter Filter, maxSize int64) ([]File, error) {
	l.mu.Lock()
	if l.source == nil {
		src, err := NewGCSSource(ctx, l.opts)
		if err != nil {
			l.mu.Unlock()
			return nil, err
		}
		l.source = src
	}
	src := l.source
	l.mu.Unlock()
	return src.Fetch(ctx, uri, filter, maxSize)
}

// Close releases the client if one was created.
func (l *LazyGCSSource) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.source == nil {
		return nil
	}
	err := l.source.Close()
	l.source = nil
	return err
}
