// Package client provides the browser-side session contract for Go
// callers: a login call against the gateway and a read-once cache of the
// current user. The cache is an explicit dependency, never a package-level
// singleton, so each consumer owns its lifetime.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"reuse-gateway/internal/auth/domain/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
)

// Status is the tagged session state
type Status int

const (
	// StatusLoading means the cache has not yet asked the gateway
	StatusLoading Status = iota
	// StatusUnauthenticated means the gateway answered 401
	StatusUnauthenticated
	// StatusAuthenticated means a user projection is cached
	StatusAuthenticated
)

// Session is the cached view of the current session
type Session struct {
	Status Status
	User   *model.PublicProjection
}

// SessionCache caches the current user for the lifetime of the cache,
// populated by at most one call to the session endpoint. A successful login
// populates it directly so no second round trip is needed.
type SessionCache struct {
	mu      sync.Mutex
	baseURL string
	http    *http.Client

	fetched bool
	session Session
}

// NewSessionCache creates a session cache talking to the gateway at baseURL.
// httpClient may be nil; a client with a cookie jar and a bounded timeout is
// created in that case.
func NewSessionCache(baseURL string, httpClient *http.Client) *SessionCache {
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		}
	}
	return &SessionCache{
		baseURL: baseURL,
		http:    httpClient,
		session: Session{Status: StatusLoading},
	}
}

// Current returns the cached session, asking the gateway at most once. A 401
// resolves to Unauthenticated without error; only transport failures error.
func (c *SessionCache) Current(ctx context.Context) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fetched {
		return c.session, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/session", nil)
	if err != nil {
		return c.session, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.session, fmt.Errorf("session request failed: %w", err)
	}
	defer resp.Body.Close()

	c.fetched = true

	if resp.StatusCode == http.StatusUnauthorized {
		c.session = Session{Status: StatusUnauthenticated}
		return c.session, nil
	}
	if resp.StatusCode != http.StatusOK {
		c.fetched = false
		return c.session, fmt.Errorf("unexpected session status %d", resp.StatusCode)
	}

	var user model.PublicProjection
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		c.fetched = false
		return c.session, fmt.Errorf("decoding session response: %w", err)
	}

	c.session = Session{Status: StatusAuthenticated, User: &user}
	return c.session, nil
}

// Set populates the cache directly, used after a successful login so the
// caller does not need a second round trip
func (c *SessionCache) Set(user model.PublicProjection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetched = true
	c.session = Session{Status: StatusAuthenticated, User: &user}
}

// Clear resets the cache to Unauthenticated, e.g. after a 401 from any call
func (c *SessionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetched = true
	c.session = Session{Status: StatusUnauthenticated}
}

// Login posts credentials to the gateway. On success the cookie lands in
// the client's jar and the returned projection is cached immediately.
func (c *SessionCache) Login(ctx context.Context, email, password string) (*model.PublicProjection, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		c.Clear()
		return nil, ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("unexpected login status %d", resp.StatusCode)
	}

	var user model.PublicProjection
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}

	c.Set(user)
	return &user, nil
}
