package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"pawnshop-ledger/internal/config"
	"pawnshop-ledger/internal/domain/errs"
)

// GCS stores files as objects under an optional prefix. The version
// token is the object generation.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ Remote = (*GCS)(nil)

func NewGCS(ctx context.Context, cfg config.RemoteConfig, opts ...option.ClientOption) (*GCS, error) {
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: gcs client: %v", errs.ErrConfiguration, err)
	}
	return &GCS{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (g *GCS) Close() error { return g.client.Close() }

func (g *GCS) objectName(path string) string {
	if g.prefix == "" {
		return path
	}
	if g.prefix[len(g.prefix)-1] == '/' {
		return g.prefix + path
	}
	return g.prefix + "/" + path
}

func (g *GCS) ReadFile(ctx context.Context, path string) ([]byte, string, error) {
	r, err := g.client.Bucket(g.bucket).Object(g.objectName(path)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, "", ErrFileNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: gcs read %s: %v", errs.ErrStorage, path, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: gcs read %s: %v", errs.ErrStorage, path, err)
	}
	return data, formatGeneration(r.Attrs.Generation), nil
}

func (g *GCS) WriteFile(ctx context.Context, path string, content []byte, prevToken string) (string, error) {
	cond, err := writeConditions(prevToken)
	if err != nil {
		return "", err
	}
	w := g.client.Bucket(g.bucket).Object(g.objectName(path)).If(cond).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("%w: gcs write %s: %v", errs.ErrStorage, path, err)
	}
	if err := w.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			return "", fmt.Errorf("%w: %s", ErrConflict, path)
		}
		return "", fmt.Errorf("%w: gcs write %s: %v", errs.ErrStorage, path, err)
	}
	return formatGeneration(w.Attrs().Generation), nil
}

func writeConditions(prevToken string) (storage.Conditions, error) {
	if prevToken == "" {
		return storage.Conditions{DoesNotExist: true}, nil
	}
	gen, err := strconv.ParseInt(prevToken, 10, 64)
	if err != nil {
		return storage.Conditions{}, fmt.Errorf("%w: bad generation token %q", errs.ErrValidation, prevToken)
	}
	return storage.Conditions{GenerationMatch: gen}, nil
}

func formatGeneration(gen int64) string { return strconv.FormatInt(gen, 10) }
