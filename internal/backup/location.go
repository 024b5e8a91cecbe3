package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// Location is where a backup file is written to or read from.
type Location interface {
	Write(ctx context.Context, data []byte) error
	Read(ctx context.Context) ([]byte, error)
	String() string
}

// ParseLocation returns a Google Cloud Storage location for gs://bucket/object
// URIs and a local file for everything else.
func ParseLocation(uri string) (Location, error) {
	if !strings.HasPrefix(uri, "gs://") {
		if uri == "" {
			return nil, fmt.Errorf("backup location must not be empty")
		}
		return LocalFile(uri), nil
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, "gs://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}

	return GCSObject{Bucket: parts[0], Object: parts[1]}, nil
}

// LocalFile is a path on the local file system.
type LocalFile string

func (f LocalFile) String() string {
	return string(f)
}

func (f LocalFile) Write(_ context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(string(f)), 0o700); err != nil {
		return fmt.Errorf("create directory for %q: %w", f, err)
	}
	return os.WriteFile(string(f), data, 0o600)
}

func (f LocalFile) Read(_ context.Context) ([]byte, error) {
	return os.ReadFile(string(f))
}

// GCSObject is an object in a Google Cloud Storage bucket. Credentials are
// taken from the Application Default Credentials.
type GCSObject struct {
	Bucket string
	Object string
}

func (o GCSObject) String() string {
	return fmt.Sprintf("gs://%s/%s", o.Bucket, o.Object)
}

func (o GCSObject) Write(ctx context.Context, data []byte) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(o.Bucket).Object(o.Object).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write backup to %s: %w", o, err)
	}

	// Close finalizes the upload
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload of %s: %w", o, err)
	}

	return nil
}

func (o GCSObject) Read(ctx context.Context) ([]byte, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(o.Bucket).Object(o.Object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", o, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", o, err)
	}

	return data, nil
}
