package github

import (
	"os"
	"strings"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// InstallationEntry maps a repository, optionally scoped to one DAO, to an
// App installation id. Repo is "owner/repo" or "owner/*".
type InstallationEntry struct {
	DAO  string `toml:"dao"`
	Repo string `toml:"repo"`
	ID   int64  `toml:"id"`
}

// InstallationMap is the configured DAO/repository to installation mapping
type InstallationMap struct {
	Entries []InstallationEntry `toml:"installation"`
}

// LoadInstallationMap reads a TOML file of [[installation]] tables
func LoadInstallationMap(path string) (*InstallationMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read installation map", goerr.V("path", path))
	}
	return ParseInstallationMap(data)
}

// ParseInstallationMap parses TOML installation map content
func ParseInstallationMap(data []byte) (*InstallationMap, error) {
	var m InstallationMap
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, goerr.Wrap(err, "failed to parse installation map")
	}
	for i, e := range m.Entries {
		if e.Repo == "" || e.ID <= 0 {
			return nil, goerr.New("installation entry requires repo and positive id",
				goerr.V("index", i), goerr.V("repo", e.Repo), goerr.V("id", e.ID))
		}
	}
	return &m, nil
}

// Lookup returns the installation for dao and repo. DAO-scoped entries win
// over unscoped ones; within each, an exact repository beats an owner wildcard.
func (m *InstallationMap) Lookup(dao string, repo model.RepoRef) (int64, bool) {
	if m == nil {
		return 0, false
	}

	fullName := strings.ToLower(repo.FullName())
	wildcard := strings.ToLower(repo.Owner) + "/*"

	best, bestScore := int64(0), 0
	for _, e := range m.Entries {
		score := 0
		switch strings.ToLower(e.Repo) {
		case fullName:
			score = 2
		case wildcard:
			score = 1
		default:
			continue
		}

		if e.DAO != "" {
			if !strings.EqualFold(e.DAO, dao) {
				continue
			}
			score += 2
		}

		if score > bestScore {
			best, bestScore = e.ID, score
		}
	}
	return best, bestScore > 0
}
