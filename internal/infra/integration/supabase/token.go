package supabase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// sessionFromToken monta a sessão a partir das claims do access token.
// A assinatura não é conferida aqui — quem valida é o servidor de auth
// a cada chamada; o parse local só lê email e expiração.
func sessionFromToken(accessToken string) (*entity.Session, error) {
	parser := jwt.NewParser()

	var claims accessClaims
	if _, _, err := parser.ParseUnverified(accessToken, &claims); err != nil {
		return nil, fmt.Errorf("access token ilegível: %w", err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("access token sem email")
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return &entity.Session{
		Email:       claims.Email,
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}
