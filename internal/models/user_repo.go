package models

import (
	"context"
	"net/url"
	"strings"

	"github.com/supabase-community/gotrue-go/types"
)

// IdentityRepo is the identity provider: sign-in, token refresh and
// sign-out. Profiles live in the document database.
type IdentityRepo interface {
	AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	GoogleAuthURL(ctx context.Context, redirectTo string) (string, error)
	Logout(ctx context.Context, accessToken string) error
}

func (su *SupabaseRepo) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "Invalid login credentials") || strings.Contains(errMsg, "400") {
			return nil, &Error{Kind: KindUnauthenticated, Message: "invalid email or password"}
		}
		return nil, Transport("failed to authenticate user", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, &Error{Kind: KindUnauthenticated, Message: "failed to refresh token", Err: err}
	}
	return resp, nil
}

func (su *SupabaseRepo) GoogleAuthURL(ctx context.Context, redirectTo string) (string, error) {
	resp, err := su.supabaseClient.Auth.Authorize(types.AuthorizeRequest{
		Provider: types.ProviderGoogle,
		FlowType: types.FlowImplicit,
	})
	if err != nil {
		return "", Transport("failed to build google auth url", err)
	}
	if redirectTo == "" {
		return resp.AuthorizationURL, nil
	}

	u, err := url.Parse(resp.AuthorizationURL)
	if err != nil {
		return "", Transport("invalid authorization url", err)
	}
	q := u.Query()
	q.Set("redirect_to", redirectTo)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Logout revokes the refresh tokens of the session behind accessToken.
func (su *SupabaseRepo) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := su.supabaseClient.Auth.WithToken(accessToken).Logout(); err != nil {
		return Transport("failed to sign out", err)
	}
	return nil
}
