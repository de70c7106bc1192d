package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/metrics"
	"github.com/yigit/uniportal/internal/pkg/requestid"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *metrics.Metrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	m := metrics.New()
	c, err := NewClient(Config{
		BaseURL:   srv.URL,
		LoginPath: "/api/auth/login",
		UserPath:  "/api/auth/user",
		Timeout:   2 * time.Second,
	}, m, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		c.Close()
		srv.Close()
	})
	return c, m
}

func TestNewClient_RejectsEmptyBaseURL(t *testing.T) {
	_, err := NewClient(Config{}, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestLoginThenCurrentUser_RelaysSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-123", r.Header.Get(requestid.Header))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "john@school.edu", body["email"])
		assert.Equal(t, "secret", body["password"])
		assert.Equal(t, "COLLEGE_COORDINATOR", body["role"])

		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"data":{"accessToken":"tok-1"}}`)
	})
	mux.HandleFunc("/api/auth/user", func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("sid"); assert.NoError(t, err) {
			assert.Equal(t, "abc", cookie.Value)
		}
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		_, _ = io.WriteString(w, `{"data":{"id":42,"email":"john@school.edu","firstName":"John","lastName":"Doe","role":"COLLEGE_COORDINATOR"}}`)
	})

	c, m := newTestClient(t, mux)
	ctx := requestid.WithRequestID(context.Background(), "req-123")

	session, err := c.Login(ctx, Credentials{Email: "john@school.edu", Password: "secret", Role: models.RoleCollegeCoordinator})
	require.NoError(t, err)
	require.Len(t, session.Cookies, 1)
	assert.Equal(t, "tok-1", session.AccessToken)

	user, err := c.CurrentUser(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "42", user.ID)
	assert.Equal(t, "John Doe", user.DisplayName())
	assert.Equal(t, models.RoleCollegeCoordinator, user.RoleType)

	assert.Equal(t, 2, testutil.CollectAndCount(m.UpstreamDuration))
}

func TestLogin_StatusMapping(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"success":false,"error":{"code":"AUTH_001","message":"Wrong password"}}`, apperrors.ErrInvalidCredentials, "Wrong password"},
		{"forbidden", http.StatusForbidden, `{"message":"Role mismatch"}`, apperrors.ErrPermissionDenied, "Role mismatch"},
		{"bad request", http.StatusBadRequest, `{"error":"email is required"}`, apperrors.ErrValidationFailed, "email is required"},
		{"unauthorized no body", http.StatusUnauthorized, ``, apperrors.ErrInvalidCredentials, "Invalid email or password"},
		{"server error hides detail", http.StatusInternalServerError, `{"message":"db exploded"}`, apperrors.ErrUpstreamUnavailable, unavailableMsg},
		{"redirect", http.StatusFound, ``, apperrors.ErrUpstreamUnavailable, unavailableMsg},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))

			session, err := c.Login(context.Background(), Credentials{Email: "a@b.edu", Password: "x", Role: models.RoleStudent})
			assert.Nil(t, session)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.sentinel), "got %v", err)
			assert.Equal(t, tc.message, apperrors.StatusMessage(err, ""))
		})
	}
}

func TestLogin_RedirectIsNotSuccess(t *testing.T) {
	var followed bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "on-302"})
		http.Redirect(w, r, "/signin?error=CredentialsSignin", http.StatusFound)
	})
	mux.HandleFunc("/signin", func(w http.ResponseWriter, r *http.Request) {
		followed = true
		_, _ = io.WriteString(w, "<html>sign in</html>")
	})
	c, m := newTestClient(t, mux)

	session, err := c.Login(context.Background(), Credentials{Email: "a@b.edu", Password: "x", Role: models.RoleStudent})
	assert.Nil(t, session)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpstreamUnavailable), "got %v", err)
	assert.False(t, followed)
	assert.Equal(t, 1, testutil.CollectAndCount(m.UpstreamDuration))
}

func TestLogin_BackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: url, LoginPath: "/login", UserPath: "/user", Timeout: time.Second}, nil, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Login(context.Background(), Credentials{Email: "a@b.edu", Password: "x", Role: models.RoleAdmin})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpstreamUnavailable))
}

func TestCurrentUser_Shapes(t *testing.T) {
	cases := map[string]string{
		"bare":      `{"id":"u1","email":"jane@school.edu","name":"Jane Roe","roleType":"INSTRUCTOR"}`,
		"data":      `{"data":{"id":"u1","email":"jane@school.edu","name":"Jane Roe","roleType":"INSTRUCTOR"}}`,
		"data.user": `{"data":{"user":{"id":"u1","email":"jane@school.edu","name":"Jane Roe","role_type":"instructor"}}}`,
		"user":      `{"user":{"id":"u1","email":"jane@school.edu","fullName":"Jane Roe","role":"INSTRUCTOR"}}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			}))

			user, err := c.CurrentUser(context.Background(), &Session{})
			require.NoError(t, err)
			assert.Equal(t, "u1", user.ID)
			assert.Equal(t, "jane@school.edu", user.Email)
			assert.Equal(t, "Jane Roe", user.DisplayName())
			assert.Equal(t, models.RoleInstructor, user.RoleType)
		})
	}
}

func TestCurrentUser_Malformed(t *testing.T) {
	for name, body := range map[string]string{
		"not json":   `<html>oops</html>`,
		"no id":      `{"data":{"name":"Nobody"}}`,
		"empty json": `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			}))

			_, err := c.CurrentUser(context.Background(), &Session{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrMalformedResponse))
		})
	}
}

func TestCurrentUser_UnknownRoleIsDropped(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"u2","email":"x@school.edu","role":"JANITOR"}`)
	}))

	user, err := c.CurrentUser(context.Background(), &Session{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleType(""), user.RoleType)
}
