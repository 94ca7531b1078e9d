package github

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/interfaces"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
)

// Client builds repository-scoped providers, authenticating either as a
// GitHub App installation or with a static token.
type Client struct {
	appTransport  *ghinstallation.AppsTransport
	token         string
	baseURL       string
	installations *InstallationMap
	transport     http.RoundTripper
}

var _ interfaces.GitHubApp = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a GitHub Enterprise or test API endpoint
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithInstallationMap sets the configured DAO/repository to installation mapping
func WithInstallationMap(m *InstallationMap) Option {
	return func(c *Client) {
		c.installations = m
	}
}

// WithTransport overrides the underlying HTTP transport
func WithTransport(tr http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = tr
	}
}

// NewAppClient creates a client authenticating as a GitHub App
func NewAppClient(appID int64, privateKey []byte, opts ...Option) (*Client, error) {
	c := newClient(opts...)

	atr, err := ghinstallation.NewAppsTransport(c.transport, appID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport", goerr.V("app_id", appID))
	}
	if c.baseURL != "" {
		atr.BaseURL = strings.TrimSuffix(c.baseURL, "/")
	}
	c.appTransport = atr

	return c, nil
}

// NewAppClientFromFile creates an App client reading the private key from path
func NewAppClientFromFile(appID int64, keyPath string, opts ...Option) (*Client, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", keyPath))
	}
	return NewAppClient(appID, key, opts...)
}

// NewTokenClient creates a client authenticating with a static token
func NewTokenClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, goerr.New("GitHub token is empty")
	}
	c := newClient(opts...)
	c.token = token
	return c, nil
}

func newClient(opts ...Option) *Client {
	c := &Client{
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LookupInstallation resolves the App installation covering repo. Configured
// mappings win over the API lookup. Token clients have no installation and
// return 0.
func (c *Client) LookupInstallation(ctx context.Context, dao string, repo model.RepoRef) (int64, error) {
	if c.appTransport == nil {
		return 0, nil
	}

	if id, ok := c.installations.Lookup(dao, repo); ok {
		ctxlog.From(ctx).Debug("installation resolved from mapping",
			"repo", repo.FullName(), "installation_id", id)
		return id, nil
	}

	apps, err := c.githubClient(&http.Client{Transport: c.appTransport})
	if err != nil {
		return 0, err
	}

	inst, _, err := apps.Apps.FindRepositoryInstallation(ctx, repo.Owner, repo.Repo)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to find repository installation",
			goerr.V("owner", repo.Owner), goerr.V("repo", repo.Repo))
	}

	ctxlog.From(ctx).Debug("installation resolved from API",
		"repo", repo.FullName(), "installation_id", inst.GetID())
	return inst.GetID(), nil
}

// NewProvider builds a provider authenticated for installationID
func (c *Client) NewProvider(ctx context.Context, installationID int64) (interfaces.VCSProvider, error) {
	var httpClient *http.Client

	switch {
	case c.appTransport != nil:
		if installationID == 0 {
			return nil, goerr.New("installation id is required for App authentication")
		}
		itr := ghinstallation.NewFromAppsTransport(c.appTransport, installationID)
		if c.baseURL != "" {
			itr.BaseURL = strings.TrimSuffix(c.baseURL, "/")
		}
		httpClient = &http.Client{Transport: itr}

	case c.token != "":
		base := context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: c.transport})
		httpClient = oauth2.NewClient(base, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token}))

	default:
		return nil, goerr.New("GitHub client has no credentials")
	}

	gh, err := c.githubClient(httpClient)
	if err != nil {
		return nil, err
	}
	return NewProvider(gh), nil
}

func (c *Client) githubClient(httpClient *http.Client) (*github.Client, error) {
	gh := github.NewClient(httpClient)
	if c.baseURL == "" {
		return gh, nil
	}

	base := c.baseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("base_url", c.baseURL))
	}
	gh.BaseURL = u
	return gh, nil
}
