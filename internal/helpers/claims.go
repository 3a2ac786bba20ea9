package helpers

import (
	"github.com/golang-jwt/jwt/v5"
)

type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// Principal is the signed-in user as the identity provider describes them.
// It is read-only once the auth middleware has built it.
type Principal struct {
	UserID      string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

func PrincipalFromClaims(claims *CustomClaims) *Principal {
	if claims == nil {
		return nil
	}
	return &Principal{
		UserID:      claims.Subject,
		Email:       claims.Email,
		DisplayName: firstMeta(claims.UserMetadata, "full_name", "name", "user_name"),
		PhotoURL:    firstMeta(claims.UserMetadata, "avatar_url", "picture"),
		Provider:    claims.AppMetadata.Provider,
	}
}

func (p *Principal) IsOwner(userID string) bool {
	return p != nil && p.UserID != "" && p.UserID == userID
}

func firstMeta(meta map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := meta[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
