package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/uniportal/internal/config"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	cfg.Server.Mode = "production"

	deps, err := BuildDependencies(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(deps.AuthClient.Close)

	router, err := SetupRouter(cfg, deps, zerolog.Nop())
	require.NoError(t, err)
	return router
}

func TestSetupRouter_Routes(t *testing.T) {
	router := newRouter(t)

	cases := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/login", "", http.StatusOK},
		{http.MethodGet, "/login/college_coordinator", "", http.StatusOK},
		{http.MethodGet, "/login/Student", "", http.StatusNotFound},
		{http.MethodGet, "/api/v1/roles", "", http.StatusOK},
		{http.MethodPost, "/api/v1/auth/login", `{"email":"a@b.edu","password":"x","role":"teacher"}`, http.StatusBadRequest},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/ping", "", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}
