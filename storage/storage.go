// Package storage saves uploaded product images and returns their public URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/Vidhyalakshmi16/svm-mobiles/config"
)

// Images stores an uploaded file and returns the URL clients should use.
// Delete takes such a URL; deleting a missing object is not an error.
type Images interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

var unsafeChars = regexp.MustCompile(`[^\w\-.]`)

// ObjectName makes a unique, filesystem-safe name for an upload.
func ObjectName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = unsafeChars.ReplaceAllString(base, "_")
	if base == "" || base == "." {
		base = "image"
	}
	ext = unsafeChars.ReplaceAllString(ext, "")
	return fmt.Sprintf("%d_%s%s", now.UnixNano(), base, ext)
}

// Local writes under dir and serves from publicPath.
type Local struct {
	dir        string
	publicPath string
	now        func() time.Time
}

func NewLocal(dir, publicPath string) *Local {
	return &Local{dir: dir, publicPath: strings.TrimRight(publicPath, "/"), now: time.Now}
}

func (l *Local) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(l.dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}
	filename := ObjectName(name, l.now())
	out, err := os.Create(filepath.Join(l.dir, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	if err := out.Sync(); err != nil {
		return "", err
	}
	return l.publicPath + "/" + filename, nil
}

func (l *Local) Delete(ctx context.Context, url string) error {
	name, ok := strings.CutPrefix(url, l.publicPath+"/")
	if !ok {
		return fmt.Errorf("not a local upload: %s", url)
	}
	err := os.Remove(filepath.Join(l.dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// GCS uploads into a bucket under prefix.
type GCS struct {
	client *gcs.Client
	bucket string
	prefix string
	now    func() time.Time
}

func NewGCS(client *gcs.Client, bucket, prefix string) *GCS {
	return &GCS{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/"), now: time.Now}
}

func (g *GCS) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	object := path.Join(g.prefix, ObjectName(name, g.now()))
	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.CacheControl = "public, max-age=86400"
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", object, err)
	}
	return g.urlPrefix() + object, nil
}

func (g *GCS) urlPrefix() string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/", g.bucket)
}

func (g *GCS) Delete(ctx context.Context, url string) error {
	object, ok := strings.CutPrefix(url, g.urlPrefix())
	if !ok {
		return fmt.Errorf("not an object in %s: %s", g.bucket, url)
	}
	err := g.client.Bucket(g.bucket).Object(object).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", object, err)
	}
	return nil
}

// New builds the backend selected in cfg. The returned close func releases
// the cloud client, if any.
func New(ctx context.Context, cfg config.StorageConfig) (Images, func() error, error) {
	switch cfg.Backend {
	case "gcs":
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("gcs client: %w", err)
		}
		return NewGCS(client, cfg.GCSBucket, "products"), client.Close, nil
	default:
		dir := filepath.Join(cfg.UploadDir, "products")
		return NewLocal(dir, cfg.PublicPath+"/products"), func() error { return nil }, nil
	}
}
