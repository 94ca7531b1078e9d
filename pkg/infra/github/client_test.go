package github_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	githubinfra "github.com/cogni-dao/cogni-git-admin/pkg/infra/github"
	"github.com/m-mizutani/gt"
)

func generatePrivateKey(t *testing.T) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	gt.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

type authRecorder struct {
	mu      sync.Mutex
	headers map[string]string
}

func (a *authRecorder) record(path, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.headers == nil {
		a.headers = map[string]string{}
	}
	a.headers[path] = value
}

func (a *authRecorder) get(path string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.headers[path]
}

func TestClient_AppAuthentication(t *testing.T) {
	ctx := context.Background()
	auth := &authRecorder{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/cogni-dao/test-repo/installation", func(w http.ResponseWriter, r *http.Request) {
		auth.record(r.URL.Path, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"id": 99})
	})
	mux.HandleFunc("POST /app/installations/99/access_tokens", func(w http.ResponseWriter, r *http.Request) {
		auth.record(r.URL.Path, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusCreated, map[string]any{
			"token":      "installation-token",
			"expires_at": "2099-01-01T00:00:00Z",
		})
	})
	mux.HandleFunc("PUT /repos/cogni-dao/test-repo/pulls/3/merge", func(w http.ResponseWriter, r *http.Request) {
		auth.record(r.URL.Path, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"sha": "s", "merged": true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := githubinfra.NewAppClient(12345, generatePrivateKey(t), githubinfra.WithBaseURL(srv.URL))
	gt.NoError(t, err)

	t.Run("installation resolved from API with App JWT", func(t *testing.T) {
		id, err := client.LookupInstallation(ctx, "0xdao", testRepo)
		gt.NoError(t, err)
		gt.Equal(t, id, int64(99))
		gt.True(t, strings.HasPrefix(auth.get("/repos/cogni-dao/test-repo/installation"), "Bearer "))
	})

	t.Run("provider uses installation token", func(t *testing.T) {
		provider, err := client.NewProvider(ctx, 99)
		gt.NoError(t, err)

		res := provider.MergeChange(ctx, testRepo, 3, model.MergeParams{})
		gt.True(t, res.Success)
		gt.True(t, strings.HasPrefix(auth.get("/app/installations/99/access_tokens"), "Bearer "))
		gt.Equal(t, auth.get("/repos/cogni-dao/test-repo/pulls/3/merge"), "token installation-token")
	})

	t.Run("installation id is required", func(t *testing.T) {
		_, err := client.NewProvider(ctx, 0)
		gt.Error(t, err)
	})
}

func TestClient_InstallationMapWinsOverAPI(t *testing.T) {
	ctx := context.Background()
	apiCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/cogni-dao/test-repo/installation", func(w http.ResponseWriter, r *http.Request) {
		apiCalls++
		writeJSON(w, http.StatusOK, map[string]any{"id": 1})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m, err := githubinfra.ParseInstallationMap([]byte(`
[[installation]]
repo = "cogni-dao/test-repo"
id = 777
`))
	gt.NoError(t, err)

	client, err := githubinfra.NewAppClient(1, generatePrivateKey(t),
		githubinfra.WithBaseURL(srv.URL),
		githubinfra.WithInstallationMap(m),
	)
	gt.NoError(t, err)

	id, err := client.LookupInstallation(ctx, "0xdao", testRepo)
	gt.NoError(t, err)
	gt.Equal(t, id, int64(777))
	gt.Equal(t, apiCalls, 0)
}

func TestClient_TokenAuthentication(t *testing.T) {
	ctx := context.Background()
	var gotAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /repos/cogni-dao/test-repo/collaborators/octocat", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := githubinfra.NewTokenClient("pat-token", githubinfra.WithBaseURL(srv.URL))
	gt.NoError(t, err)

	id, err := client.LookupInstallation(ctx, "0xdao", testRepo)
	gt.NoError(t, err)
	gt.Equal(t, id, int64(0))

	provider, err := client.NewProvider(ctx, id)
	gt.NoError(t, err)

	res := provider.GrantCollaborator(ctx, testRepo, "octocat", model.GrantParams{})
	gt.True(t, res.Success)
	gt.Equal(t, gotAuth, "Bearer pat-token")
}

func TestNewTokenClient_EmptyToken(t *testing.T) {
	_, err := githubinfra.NewTokenClient("")
	gt.Error(t, err)
}

func TestNewAppClientFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.pem")
	gt.NoError(t, os.WriteFile(path, generatePrivateKey(t), 0600))

	client, err := githubinfra.NewAppClientFromFile(1, path)
	gt.NoError(t, err)
	gt.V(t, client).NotNil()

	_, err = githubinfra.NewAppClientFromFile(1, filepath.Join(t.TempDir(), "missing.pem"))
	gt.Error(t, err)
}
