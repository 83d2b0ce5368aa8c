package native

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
	"golang.org/x/mod/semver"
)

// maxReleaseBytes bounds the release JSON read from the API (10 MB).
const maxReleaseBytes = 10 << 20

var _ ports.UpdateSource = (*GitHubUpdater)(nil)

// RateLimitError is returned when the GitHub API quota is exhausted.
type RateLimitError struct {
	Limit   int
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded (limit %d, resets at %s)",
		e.Limit, e.ResetAt.UTC().Format("15:04 UTC"))
}

// GitHubUpdater reports the latest stable GitHub release when it is newer than the
// running version.
type GitHubUpdater struct {
	httpClient *http.Client
	baseURL    string
	owner      string
	repo       string
	current    string
	userAgent  string
}

// UpdaterOption configures a GitHubUpdater during construction.
type UpdaterOption func(*GitHubUpdater)

// WithUpdaterHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithUpdaterHTTPClient(c *http.Client) UpdaterOption {
	return func(u *GitHubUpdater) {
		u.httpClient = c
	}
}

// WithBaseURL overrides the GitHub API base URL, primarily for test servers.
func WithBaseURL(base string) UpdaterOption {
	return func(u *GitHubUpdater) {
		u.baseURL = strings.TrimRight(base, "/")
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) UpdaterOption {
	return func(u *GitHubUpdater) {
		u.userAgent = ua
	}
}

// NewGitHubUpdater checks owner/repo against currentVersion ("1.2.3" or "v1.2.3").
func NewGitHubUpdater(owner, repo, currentVersion string, opts ...UpdaterOption) *GitHubUpdater {
	u := &GitHubUpdater{
		httpClient: http.DefaultClient,
		baseURL:    "https://api.github.com",
		owner:      owner,
		repo:       repo,
		current:    currentVersion,
		userAgent:  "hostbridge/" + strings.TrimPrefix(currentVersion, "v"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type githubRelease struct {
	TagName     string    `json:"tag_name"`
	Body        string    `json:"body"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
}

// Check returns nil when the repository has no release or the latest one is not newer.
func (u *GitHubUpdater) Check(ctx context.Context) (*domain.Update, error) {
	current := canonical(u.current)
	if !semver.IsValid(current) {
		return nil, fmt.Errorf("current version %q is not a semantic version", u.current)
	}

	reqURL := fmt.Sprintf("%s/repos/%s/%s/releases/latest", u.baseURL, u.owner, u.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", u.userAgent)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checking latest release: %w", err)
	}
	defer resp.Body.Close()

	if err := checkRateLimit(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checking latest release: unexpected status %d", resp.StatusCode)
	}

	var rel githubRelease
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReleaseBytes)).Decode(&rel); err != nil {
		return nil, fmt.Errorf("checking latest release: decoding response: %w", err)
	}
	if rel.Draft || rel.Prerelease {
		return nil, nil
	}

	latest := canonical(rel.TagName)
	if !semver.IsValid(latest) || semver.Compare(latest, current) <= 0 {
		return nil, nil
	}
	return &domain.Update{
		Version:        strings.TrimPrefix(latest, "v"),
		CurrentVersion: strings.TrimPrefix(current, "v"),
		Notes:          rel.Body,
		URL:            rel.HTMLURL,
		Date:           rel.PublishedAt,
	}, nil
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// checkRateLimit only looks at the headers; a zero remaining quota is an error.
func checkRateLimit(resp *http.Response) error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}
	rem, err := strconv.Atoi(remaining)
	if err != nil || rem > 0 {
		return nil //nolint:nilerr // malformed header is not fatal
	}
	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))
	reset, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)
	return &RateLimitError{Limit: limit, ResetAt: time.Unix(reset, 0)}
}
