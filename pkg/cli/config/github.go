package config

import (
	githubinfra "github.com/cogni-dao/cogni-git-admin/pkg/infra/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub configuration. Either App credentials or a token
// must be set; App credentials take precedence.
type GitHub struct {
	AppID           int64
	PrivateKey      string `masq:"secret"`
	PrivateKeyFile  string
	Token           string `masq:"secret"`
	BaseURL         string
	InstallationMap string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("COGNI_GITHUB_APP_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("COGNI_GITHUB_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-private-key-file",
			Usage:       "Path to GitHub App private key (PEM)",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("COGNI_GITHUB_PRIVATE_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token used when no App is configured",
			Destination: &c.Token,
			Sources:     cli.EnvVars("COGNI_GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub API base URL (for GitHub Enterprise)",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("COGNI_GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-installation-map",
			Usage:       "TOML file mapping repositories to App installation IDs",
			Destination: &c.InstallationMap,
			Sources:     cli.EnvVars("COGNI_GITHUB_INSTALLATION_MAP"),
		},
	}
}

// NewClient builds a GitHub client from the configured credentials
func (c *GitHub) NewClient() (*githubinfra.Client, error) {
	var opts []githubinfra.Option
	if c.BaseURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.BaseURL))
	}
	if c.InstallationMap != "" {
		m, err := githubinfra.LoadInstallationMap(c.InstallationMap)
		if err != nil {
			return nil, err
		}
		opts = append(opts, githubinfra.WithInstallationMap(m))
	}

	switch {
	case c.AppID != 0 && c.PrivateKey != "":
		return githubinfra.NewAppClient(c.AppID, []byte(c.PrivateKey), opts...)
	case c.AppID != 0 && c.PrivateKeyFile != "":
		return githubinfra.NewAppClientFromFile(c.AppID, c.PrivateKeyFile, opts...)
	case c.AppID != 0:
		return nil, goerr.New("github-app-id requires github-private-key or github-private-key-file")
	case c.Token != "":
		return githubinfra.NewTokenClient(c.Token, opts...)
	default:
		return nil, goerr.New("either GitHub App credentials or github-token is required")
	}
}
