// Package authapi talks to the external authentication backend that owns
// credential checks, sessions and users.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/metrics"
	"github.com/yigit/uniportal/internal/pkg/requestid"
)

const (
	callLogin = "login"
	callUser  = "user"

	maxResponseBytes = 1 << 20
)

// Config defines the auth backend endpoints
type Config struct {
	BaseURL   string
	LoginPath string
	UserPath  string
	Timeout   time.Duration
}

// Credentials are the role-tagged login form values
type Credentials struct {
	Email    string
	Password string
	Role     models.RoleType
}

// Session is whatever the backend handed back on login. It is relayed, never
// interpreted.
type Session struct {
	Cookies     []*http.Cookie
	AccessToken string
}

// Client wraps the auth backend REST API
type Client struct {
	baseURL    *url.URL
	loginPath  string
	userPath   string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewClient constructs a Client from configuration
func NewClient(cfg Config, m *metrics.Metrics, logger zerolog.Logger) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("auth API base URL is empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse auth API base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL:    parsed,
		loginPath:  cfg.LoginPath,
		userPath:   cfg.UserPath,
		httpClient: &http.Client{
			Timeout: timeout,
			// 3xx answers are returned as-is and go through checkStatus
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		metrics:    m,
		logger:     logger,
	}, nil
}

// SetHTTPClient sets the HTTP client for testing.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Close releases idle keep-alive connections
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login submits the credentials. A non-2xx answer is returned as an error
// wrapping apperrors.ErrInvalidCredentials, ErrPermissionDenied,
// ErrValidationFailed or ErrUpstreamUnavailable.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Session, error) {
	payload := loginPayload{
		Email:    creds.Email,
		Password: creds.Password,
		Role:     string(creds.Role),
	}

	resp, err := c.doRequest(ctx, callLogin, http.MethodPost, c.loginPath, payload, nil)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(callLogin, resp); err != nil {
		return nil, err
	}

	session := &Session{Cookies: resp.cookies}
	if gjson.ValidBytes(resp.body) {
		session.AccessToken = firstString(gjson.ParseBytes(resp.body), "data.accessToken", "accessToken", "data.token", "token")
	}
	return session, nil
}

// CurrentUser fetches the user the session belongs to
func (c *Client) CurrentUser(ctx context.Context, session *Session) (*models.User, error) {
	resp, err := c.doRequest(ctx, callUser, http.MethodGet, c.userPath, nil, session)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(callUser, resp); err != nil {
		return nil, err
	}
	return parseUser(resp.body)
}

type response struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

func (c *Client) doRequest(ctx context.Context, call, method, path string, payload any, session *Session) (*response, error) {
	endpoint := c.baseURL.JoinPath(path)

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", call, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", call, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}
	if session != nil {
		for _, cookie := range session.Cookies {
			req.AddCookie(cookie)
		}
		if session.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+session.AccessToken)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(call, "error", time.Since(start))
		c.logger.Error().Err(err).Str("call", call).Str("url", endpoint.String()).Msg("Auth backend request failed")
		return nil, apperrors.NewCustomError(apperrors.ErrUpstreamUnavailable, fmt.Sprintf("auth backend %s request failed: %v", call, err)).
			WithStatusMsg(unavailableMsg)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.metrics.ObserveUpstream(call, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrUpstreamUnavailable, fmt.Sprintf("failed to read auth backend %s response: %v", call, err)).
			WithStatusMsg(unavailableMsg)
	}

	c.logger.Debug().Str("call", call).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("Auth backend responded")

	return &response{
		status:  resp.StatusCode,
		body:    data,
		cookies: resp.Cookies(),
	}, nil
}
