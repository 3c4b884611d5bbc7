package fetcher

import (
	"context"
	"errors"
	"fmt"
	"os"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/time/rate"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

// proactive throttle well under the authenticated 5000/hour GitHub limit
const proactiveRate = 1.2

// a nil fetcher stays callable so an unconfigured corpus fails sync jobs
// instead of crashing the worker
var errNotConfigured = errors.New("corpus repository is not configured")

type GithubFetcher struct {
	client  *gh.Client
	owner   string
	repo    string
	limiter *rate.Limiter
	logger  *logger_i.Logger
}

func GetGithubFetcher(ctx context.Context) *GithubFetcher {
	logger := logger_i.NewLogger("GithubFetcher")

	owner := os.Getenv("CORPUS_OWNER")
	repo := os.Getenv("CORPUS_REPO")
	if owner == "" || repo == "" {
		owner = config.CorpusOwner
		repo = config.CorpusRepo
	}
	if owner == "" || repo == "" {
		logger.Error("Corpus repository is not configured")
		return nil
	}

	client := gh.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}

	logger.Info("Github fetcher created", "owner", owner, "repo", repo)
	return &GithubFetcher{
		client:  client,
		owner:   owner,
		repo:    repo,
		limiter: rate.NewLimiter(rate.Limit(proactiveRate), 5),
		logger:  logger,
	}
}

func (f *GithubFetcher) GetFile(ctx context.Context, path string, revision string) ([]byte, error) {
	if f == nil {
		return nil, errNotConfigured
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	fileContent, _, _, err := f.client.Repositories.GetContents(ctx, f.owner, f.repo, path,
		&gh.RepositoryContentGetOptions{Ref: revision})
	if err != nil {
		return nil, fmt.Errorf("get contents %s@%s: %w", path, revision, err)
	}
	if fileContent == nil {
		return nil, fmt.Errorf("%s@%s is not a file", path, revision)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode contents %s@%s: %w", path, revision, err)
	}
	return []byte(content), nil
}

func (f *GithubFetcher) ListFiles(ctx context.Context, revision string) ([]string, error) {
	if f == nil {
		return nil, errNotConfigured
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	tree, _, err := f.client.Git.GetTree(ctx, f.owner, f.repo, revision, true)
	if err != nil {
		return nil, fmt.Errorf("get tree @%s: %w", revision, err)
	}
	if tree.GetTruncated() {
		f.logger.Warn("Tree listing truncated by the API", "revision", revision)
	}

	var paths []string
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		paths = append(paths, entry.GetPath())
	}
	return paths, nil
}

func (f *GithubFetcher) SourceURL(path string, revision string) string {
	if f == nil {
		return ""
	}
	if prefix := os.Getenv("CONTENT_URL_PREFIX"); prefix != "" {
		return prefix + path
	}
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", f.owner, f.repo, revision, path)
}
