package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/crumbs/internal/helpers"
	"github.com/joshua-takyi/crumbs/internal/services"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func AuthenticateUser(us *services.UserService, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("email and password are required"))
			return
		}

		tok, err := us.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		helpers.SetAuthCookies(c, tok, secure)

		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{
			"user_id":    tok.User.ID.String(),
			"email":      tok.User.Email,
			"expires_in": tok.ExpiresIn,
		}, "Signed in"))
	}
}

// GoogleAuth redirects to the identity provider's Google sign-in.
func GoogleAuth(us *services.UserService, frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		redirectTo := c.Query("redirect_to")
		if redirectTo == "" {
			redirectTo = frontendURL + "/auth/callback"
		}

		authURL, err := us.GoogleAuthURL(c.Request.Context(), redirectTo)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, authURL)
	}
}

// GoogleAuthCallback only handles provider errors. Tokens arrive in the URL
// fragment, which the frontend callback page reads.
func GoogleAuthCallback(frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if errCode := c.Query("error"); errCode != "" {
			redirectURL := fmt.Sprintf("%s/auth/signin?error=%s&error_description=%s",
				frontendURL, url.QueryEscape(errCode), url.QueryEscape(c.Query("error_description")))
			c.Redirect(http.StatusTemporaryRedirect, redirectURL)
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, frontendURL+"/auth/callback")
	}
}

// Logout revokes the session when there is one and always clears cookies.
func Logout(us *services.UserService, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := helpers.AccessToken(c); token != "" {
			if err := us.Logout(c.Request.Context(), token); err != nil {
				_ = c.Error(err)
			}
		}
		helpers.ClearAuthCookies(c, secure)
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Logged out successfully"))
	}
}
