package middleware

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/crumbs/internal/helpers"
	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/joshua-takyi/crumbs/internal/ratelimiter"
	"github.com/supabase-community/gotrue-go/types"
)

const PrincipalKey = "principal"

// TokenVerifier validates access tokens.
type TokenVerifier interface {
	Verify(token string) (*helpers.CustomClaims, error)
}

// Sessions refreshes expired sessions and provisions profiles.
type Sessions interface {
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	EnsureProfile(ctx context.Context, p *helpers.Principal) (*models.User, error)
}

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// ErrorHandler logs errors attached to the context and answers with a 500
// when the handler did not write a response itself.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID, _ := c.Get("request_id")

		level := slog.LevelError
		if models.IsExpected(err.Err) {
			level = slog.LevelInfo
		}
		logger.Log(c.Request.Context(), level, "Request error",
			"request_id", requestID,
			"error", err.Error(),
			"kind", models.KindOf(err.Err),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if !c.Writer.Written() {
			// Don't return error details
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":      "Internal server error",
				"request_id": requestID,
			})
		}
	}
}

// CurrentPrincipal returns the signed-in user, or nil for anonymous
// requests.
func CurrentPrincipal(c *gin.Context) *helpers.Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*helpers.Principal)
	return p
}

// authenticate validates the access token and, when it is missing or
// expired, tries once to refresh the session from the refresh cookie.
func authenticate(c *gin.Context, verifier TokenVerifier, sessions Sessions, logger *slog.Logger, secure bool) (*helpers.Principal, error) {
	token := helpers.AccessToken(c)
	var claims *helpers.CustomClaims
	var err error
	if token != "" {
		claims, err = verifier.Verify(token)
		if err == nil {
			return helpers.PrincipalFromClaims(claims), nil
		}
	} else {
		err = errors.New("no access token")
	}

	refreshToken, refreshErr := c.Cookie(helpers.RefreshTokenCookie)
	if refreshErr != nil || refreshToken == "" {
		return nil, err
	}

	tok, refreshErr := sessions.RefreshToken(c.Request.Context(), refreshToken)
	if refreshErr != nil || tok == nil || tok.AccessToken == "" {
		logger.Info("Token refresh failed", "error", refreshErr)
		helpers.ClearAuthCookies(c, secure)
		return nil, errors.New("token expired and refresh failed")
	}

	logger.Info("Token refreshed successfully",
		"user_id", tok.User.ID,
		"expires_in", tok.ExpiresIn,
	)
	helpers.SetAuthCookies(c, tok, secure)

	claims, err = verifier.Verify(tok.AccessToken)
	if err != nil {
		return nil, errors.New("refreshed token validation failed")
	}
	return helpers.PrincipalFromClaims(claims), nil
}

// provision creates the profile document on the first authenticated
// request. The request goes on without it; writes provision it again.
func provision(c *gin.Context, p *helpers.Principal, sessions Sessions, logger *slog.Logger) {
	if _, err := sessions.EnsureProfile(c.Request.Context(), p); err != nil {
		logger.Warn("failed to provision profile", "user_id", p.UserID, "error", err)
	}
}

// AuthMiddleware rejects requests without a valid session and provisions
// the caller's profile.
func AuthMiddleware(verifier TokenVerifier, sessions Sessions, logger *slog.Logger, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p := CurrentPrincipal(c); p != nil {
			provision(c, p, sessions, logger)
			c.Next()
			return
		}
		p, err := authenticate(c, verifier, sessions, logger, secure)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				helpers.KindResponse(string(models.KindUnauthenticated), "Unauthorized access"))
			logger.Debug("authentication failed", "error", err)
			return
		}
		provision(c, p, sessions, logger)
		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// OptionalAuth attaches the principal when there is a valid session and
// lets anonymous requests through. It never writes the profile.
func OptionalAuth(verifier TokenVerifier, sessions Sessions, logger *slog.Logger, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p, err := authenticate(c, verifier, sessions, logger, secure); err == nil {
			c.Set(PrincipalKey, p)
		}
		c.Next()
	}
}

// RateLimit allows a fixed number of requests per client IP and window.
func RateLimit(rl *ratelimiter.FixedWindowRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := rl.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, helpers.ErrorResponse("too many requests, slow down"))
			return
		}
		c.Next()
	}
}
