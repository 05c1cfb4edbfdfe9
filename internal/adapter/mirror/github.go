package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"

	"pawnshop-ledger/internal/config"
	"pawnshop-ledger/internal/domain/errs"
)

// GitHub stores files through the repository contents API. The version
// token is the blob SHA.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

var _ Remote = (*GitHub)(nil)

func NewGitHub(cfg config.RemoteConfig, httpClient *http.Client) *GitHub {
	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}
	return &GitHub{
		client: github.NewClient(httpClient).WithAuthToken(cfg.Token),
		owner:  cfg.Owner,
		repo:   cfg.Repository,
		branch: branch,
	}
}

// WithBaseURL points the client at another API root (GitHub Enterprise,
// tests).
func (g *GitHub) WithBaseURL(raw string) (*GitHub, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	g.client.BaseURL = u
	return g, nil
}

func (g *GitHub) ReadFile(ctx context.Context, path string) ([]byte, string, error) {
	fc, _, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, path,
		&github.RepositoryContentGetOptions{Ref: g.branch})
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return nil, "", ErrFileNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: github get %s: %v", errs.ErrStorage, path, err)
	}
	if fc == nil {
		return nil, "", fmt.Errorf("%w: github get %s: path is a directory", errs.ErrStorage, path)
	}
	content, err := fc.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("%w: github decode %s: %v", errs.ErrStorage, path, err)
	}
	return []byte(content), fc.GetSHA(), nil
}

func (g *GitHub) WriteFile(ctx context.Context, path string, content []byte, prevToken string) (string, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String("ledger: update " + path),
		Content: content,
		Branch:  github.String(g.branch),
	}

	var (
		res  *github.RepositoryContentResponse
		resp *github.Response
		err  error
	)
	if prevToken == "" {
		res, resp, err = g.client.Repositories.CreateFile(ctx, g.owner, g.repo, path, opts)
	} else {
		opts.SHA = github.String(prevToken)
		res, resp, err = g.client.Repositories.UpdateFile(ctx, g.owner, g.repo, path, opts)
	}
	if resp != nil && (resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity) {
		return "", fmt.Errorf("%w: %s", ErrConflict, path)
	}
	if err != nil {
		var rle *github.RateLimitError
		if errors.As(err, &rle) {
			return "", fmt.Errorf("%w: github rate limited until %s", errs.ErrStorage, rle.Rate.Reset.Time)
		}
		return "", fmt.Errorf("%w: github put %s: %v", errs.ErrStorage, path, err)
	}
	return res.GetContent().GetSHA(), nil
}
