package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"reuse-gateway/internal/auth/client"
	"reuse-gateway/internal/auth/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SessionCacheTestSuite struct {
	suite.Suite
	sessionCalls atomic.Int64
	loginCalls   atomic.Int64
	server       *httptest.Server
	authorized   atomic.Bool
}

func (suite *SessionCacheTestSuite) SetupTest() {
	suite.sessionCalls.Store(0)
	suite.loginCalls.Store(0)
	suite.authorized.Store(false)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/session", func(w http.ResponseWriter, r *http.Request) {
		suite.sessionCalls.Add(1)
		if !suite.authorized.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "not authenticated"})
			return
		}
		json.NewEncoder(w).Encode(model.PublicProjection{
			ID: "user-123", Name: "Usuário Teste", Email: "teste@email.com",
		})
	})
	mux.HandleFunc("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		suite.loginCalls.Add(1)
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "senha123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid email or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "jwt_token", Value: "signed-token", Path: "/"})
		suite.authorized.Store(true)
		json.NewEncoder(w).Encode(model.PublicProjection{
			ID: "user-123", Name: "Usuário Teste", Email: req["email"],
		})
	})
	suite.server = httptest.NewServer(mux)
}

func (suite *SessionCacheTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *SessionCacheTestSuite) TestCurrent_FetchesOnce() {
	suite.authorized.Store(true)
	cache := client.NewSessionCache(suite.server.URL, nil)

	first, err := cache.Current(context.Background())
	require.NoError(suite.T(), err)
	second, err := cache.Current(context.Background())
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), client.StatusAuthenticated, first.Status)
	assert.Equal(suite.T(), "user-123", first.User.ID)
	assert.Equal(suite.T(), first, second)
	assert.EqualValues(suite.T(), 1, suite.sessionCalls.Load(), "cache must be read-once")
}

func (suite *SessionCacheTestSuite) TestCurrent_Unauthenticated() {
	cache := client.NewSessionCache(suite.server.URL, nil)

	session, err := cache.Current(context.Background())

	require.NoError(suite.T(), err, "a 401 is a state, not a transport error")
	assert.Equal(suite.T(), client.StatusUnauthenticated, session.Status)
	assert.Nil(suite.T(), session.User)
}

func (suite *SessionCacheTestSuite) TestSet_AvoidsSecondRoundTrip() {
	cache := client.NewSessionCache(suite.server.URL, nil)

	cache.Set(model.PublicProjection{ID: "user-123", Name: "Usuário Teste", Email: "teste@email.com"})

	session, err := cache.Current(context.Background())
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), client.StatusAuthenticated, session.Status)
	assert.Equal(suite.T(), "user-123", session.User.ID)
	assert.EqualValues(suite.T(), 0, suite.sessionCalls.Load(), "setter must preempt the network call")
}

func (suite *SessionCacheTestSuite) TestClear_ResetsToUnauthenticated() {
	cache := client.NewSessionCache(suite.server.URL, nil)
	cache.Set(model.PublicProjection{ID: "user-123"})

	cache.Clear()

	session, err := cache.Current(context.Background())
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), client.StatusUnauthenticated, session.Status)
	assert.EqualValues(suite.T(), 0, suite.sessionCalls.Load())
}

func (suite *SessionCacheTestSuite) TestLogin_PopulatesCacheAndJar() {
	cache := client.NewSessionCache(suite.server.URL, nil)

	user, err := cache.Login(context.Background(), "teste@email.com", "senha123")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "user-123", user.ID)

	session, err := cache.Current(context.Background())
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), client.StatusAuthenticated, session.Status)
	assert.EqualValues(suite.T(), 0, suite.sessionCalls.Load(), "login result is cached without a session round trip")
}

func (suite *SessionCacheTestSuite) TestLogin_InvalidCredentials() {
	cache := client.NewSessionCache(suite.server.URL, nil)

	user, err := cache.Login(context.Background(), "teste@email.com", "wrong")

	assert.ErrorIs(suite.T(), err, client.ErrInvalidCredentials)
	assert.Nil(suite.T(), user)

	session, serr := cache.Current(context.Background())
	require.NoError(suite.T(), serr)
	assert.Equal(suite.T(), client.StatusUnauthenticated, session.Status)
}

func TestSessionCacheTestSuite(t *testing.T) {
	suite.Run(t, new(SessionCacheTestSuite))
}
