package model

import (
	"net/url"
	"strings"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// RepoRef locates a repository on a VCS host
type RepoRef struct {
	Host  string // lower-cased, may include a port
	Owner string // may contain "/" separated subgroups
	Repo  string
	URL   string // canonical URL without ".git" suffix
}

// FullName returns "owner/repo"
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// ParseRepoRef parses a repository URL such as https://github.com/owner/repo(.git).
// GitHub URLs resolve to their first two path segments, so links into a
// repository (pull requests, trees) name the repository itself. Other hosts
// keep "/" separated subgroups in Owner.
func ParseRepoRef(repoURL string) (*RepoRef, error) {
	u, err := url.Parse(strings.TrimSpace(repoURL))
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidRepoURL, "failed to parse repository URL",
			goerr.V("repo_url", repoURL), goerr.V("cause", err.Error()))
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, goerr.Wrap(types.ErrInvalidRepoURL, "repository URL must be absolute",
			goerr.V("repo_url", repoURL))
	}

	path := strings.Trim(u.Path, "/")
	segments := strings.Split(path, "/")
	if DetectVCS(repoURL) == types.VCSGitHub && len(segments) > 2 {
		segments = segments[:2]
	}
	if len(segments) < 2 {
		return nil, goerr.Wrap(types.ErrInvalidRepoURL, "repository URL must contain owner and repo",
			goerr.V("repo_url", repoURL))
	}
	segments[len(segments)-1] = strings.TrimSuffix(segments[len(segments)-1], ".git")
	for _, s := range segments {
		if s == "" {
			return nil, goerr.Wrap(types.ErrInvalidRepoURL, "repository URL must contain owner and repo",
				goerr.V("repo_url", repoURL))
		}
	}

	host := strings.ToLower(u.Host)
	owner := strings.Join(segments[:len(segments)-1], "/")
	repo := segments[len(segments)-1]

	return &RepoRef{
		Host:  host,
		Owner: owner,
		Repo:  repo,
		URL:   strings.ToLower(u.Scheme) + "://" + host + "/" + owner + "/" + repo,
	}, nil
}

// DetectVCS guesses the VCS family from a repository URL. Anything that is
// not recognisably GitLab or Radicle is treated as GitHub.
func DetectVCS(repoURL string) types.VCS {
	u, err := url.Parse(strings.TrimSpace(repoURL))
	if err != nil {
		return types.VCSGitHub
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case u.Scheme == "rad", strings.Contains(host, "radicle"):
		return types.VCSRadicle
	case strings.Contains(host, "gitlab"):
		return types.VCSGitLab
	default:
		return types.VCSGitHub
	}
}
