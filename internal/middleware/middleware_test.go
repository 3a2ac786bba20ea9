package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/crumbs/internal/helpers"
	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/joshua-takyi/crumbs/internal/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/gotrue-go/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier map[string]string

func (f fakeVerifier) Verify(token string) (*helpers.CustomClaims, error) {
	sub, ok := f[token]
	if !ok {
		return nil, errors.New("token is expired")
	}
	return &helpers.CustomClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}, nil
}

type fakeSessions struct {
	refreshed *types.TokenResponse
	ensured   []string
}

func (f *fakeSessions) RefreshToken(_ context.Context, rt string) (*types.TokenResponse, error) {
	if f.refreshed == nil || rt != "good-refresh" {
		return nil, models.ErrUnauthenticated
	}
	return f.refreshed, nil
}

func (f *fakeSessions) EnsureProfile(_ context.Context, p *helpers.Principal) (*models.User, error) {
	f.ensured = append(f.ensured, p.UserID)
	return &models.User{ID: p.UserID}, nil
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func engine(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if p == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, p.UserID)
	})
	return r
}

func TestAuthMiddlewareBearer(t *testing.T) {
	sessions := &fakeSessions{}
	r := engine(AuthMiddleware(fakeVerifier{"valid": "u1"}, sessions, quiet(), false))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
	assert.Equal(t, []string{"u1"}, sessions.ensured)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	r := engine(AuthMiddleware(fakeVerifier{}, &fakeSessions{}, quiet(), false))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: "stale"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"unauthenticated"`)
}

func TestAuthMiddlewareRefreshes(t *testing.T) {
	sessions := &fakeSessions{refreshed: &types.TokenResponse{
		Session: types.Session{AccessToken: "fresh", RefreshToken: "next-refresh", ExpiresIn: 3600},
	}}
	r := engine(AuthMiddleware(fakeVerifier{"fresh": "u2"}, sessions, quiet(), false))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: "stale"})
	req.AddCookie(&http.Cookie{Name: helpers.RefreshTokenCookie, Value: "good-refresh"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u2", w.Body.String())

	cookies := map[string]string{}
	for _, c := range w.Result().Cookies() {
		cookies[c.Name] = c.Value
	}
	assert.Equal(t, "fresh", cookies[helpers.AccessTokenCookie])
	assert.Equal(t, "next-refresh", cookies[helpers.RefreshTokenCookie])
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	r := engine(OptionalAuth(fakeVerifier{}, &fakeSessions{}, quiet(), false))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestOnlyRequiredAuthProvisionsProfiles(t *testing.T) {
	verifier := fakeVerifier{"good": "u1"}
	bearer := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		return req
	}

	sessions := &fakeSessions{}
	w := httptest.NewRecorder()
	engine(OptionalAuth(verifier, sessions, quiet(), false)).ServeHTTP(w, bearer())
	assert.Equal(t, "u1", w.Body.String())
	assert.Empty(t, sessions.ensured)

	sessions = &fakeSessions{}
	r := gin.New()
	r.GET("/", OptionalAuth(verifier, sessions, quiet(), false), AuthMiddleware(verifier, sessions, quiet(), false),
		func(c *gin.Context) { c.String(http.StatusOK, CurrentPrincipal(c).UserID) })
	w = httptest.NewRecorder()
	r.ServeHTTP(w, bearer())
	assert.Equal(t, "u1", w.Body.String())
	assert.Equal(t, []string{"u1"}, sessions.ensured)
}

func TestRateLimit(t *testing.T) {
	r := engine(RateLimit(ratelimiter.NewFixedWindowLimiter(2, time.Minute)))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestErrorHandlerDoesNotOverwrite(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(quiet()))
	r.GET("/written", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream"})
	})
	r.GET("/unwritten", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unwritten", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "request_id")
}

func TestErrorHandlerLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestID(), ErrorHandler(logger))
	r.POST("/vote", func(c *gin.Context) {
		_ = c.Error(models.ErrDuplicateVote)
		c.JSON(http.StatusConflict, gin.H{"kind": "duplicate_vote"})
	})
	r.POST("/fail", func(c *gin.Context) {
		_ = c.Error(models.Transport("db down", errors.New("dial")))
		c.JSON(http.StatusBadGateway, gin.H{"kind": "transport"})
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/vote", nil))
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "kind=duplicate_vote")
	assert.NotContains(t, buf.String(), "level=ERROR")

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/fail", nil))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "kind=transport")
}
