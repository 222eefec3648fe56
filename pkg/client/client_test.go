package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	accessToken  string
	refreshToken string
	logins       atomic.Int32
	refreshes    atomic.Int32
}

func (f *fakeServer) handler(t *testing.T, protected http.HandlerFunc) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.logins.Add(1)
		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: f.refreshToken, Path: "/api/v1/auth"})
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"accessToken":"` + f.accessToken + `","expiresIn":900}`))
	})
	mux.HandleFunc("POST /api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshes.Add(1)
		cookie, err := r.Cookie("refresh_token")
		if err != nil || cookie.Value != f.refreshToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"accessToken":"` + f.accessToken + `","expiresIn":900}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.accessToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		protected(w, r)
	})
	return mux
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(context.Background(), &Config{
		BaseURL:  baseURL,
		Email:    "admin@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	return c
}

func TestLoginCapturesTokens(t *testing.T) {
	fake := &fakeServer{accessToken: "tok-1", refreshToken: "ref-1"}
	srv := httptest.NewServer(fake.handler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	assert.Equal(t, int32(1), fake.logins.Load())
	assert.Equal(t, "tok-1", c.session.token())
	require.NotNil(t, c.session.refreshCookie)
	assert.Equal(t, "ref-1", c.session.refreshCookie.Value)
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer srv.Close()

	_, err := New(context.Background(), &Config{BaseURL: srv.URL, Email: "a@b.c", Password: "nope"})
	require.Error(t, err)
	assert.True(t, IsAPIError(err))
}

func TestExpiredAccessTokenRefreshesOnce(t *testing.T) {
	fake := &fakeServer{accessToken: "tok-1", refreshToken: "ref-1"}
	srv := httptest.NewServer(fake.handler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"site_name":"SiteDeck"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	// simulate an expired access token; the refresh endpoint hands the
	// real one back
	c.session.mu.Lock()
	c.session.accessToken = "expired"
	c.session.mu.Unlock()

	contentMap, err := c.GetContentMap(context.Background(), "en")
	require.NoError(t, err)
	assert.Equal(t, "SiteDeck", contentMap["site_name"])
	assert.Equal(t, int32(1), fake.refreshes.Load())
	assert.Equal(t, int32(1), fake.logins.Load())
}

func TestRejectedRefreshReturnsSessionExpired(t *testing.T) {
	fake := &fakeServer{accessToken: "tok-1", refreshToken: "ref-1"}
	srv := httptest.NewServer(fake.handler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	c.session.mu.Lock()
	c.session.accessToken = "expired"
	c.session.refreshCookie.Value = "stale"
	c.session.mu.Unlock()

	_, err := c.GetContentMap(context.Background(), "")
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestQuickToggleRoundTrip(t *testing.T) {
	fake := &fakeServer{accessToken: "tok-1", refreshToken: "ref-1"}
	srv := httptest.NewServer(fake.handler(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/content/hero/toggle", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"key":"hero","field":"visible","value":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	value, err := c.QuickToggle(context.Background(), "hero", "visible", "")
	require.NoError(t, err)
	assert.True(t, value)
}

func TestCreateCourseFillsGeneratedID(t *testing.T) {
	fake := &fakeServer{accessToken: "tok-1", refreshToken: "ref-1"}
	srv := httptest.NewServer(fake.handler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"01HXYZ","title":"Go Basics","slug":"go-basics","published":false}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	course := &Course{Title: "Go Basics", Slug: "go-basics"}
	require.NoError(t, c.CreateCourse(context.Background(), course))
	assert.Equal(t, "01HXYZ", course.ID)
}

func TestAPIErrorCarriesStatusAndBody(t *testing.T) {
	fake := &fakeServer{accessToken: "tok-1", refreshToken: "ref-1"}
	srv := httptest.NewServer(fake.handler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"Slug already in use"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.CreateCourse(context.Background(), &Course{Title: "Dup", Slug: "dup"})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Slug already in use")
}
