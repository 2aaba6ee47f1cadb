package security

import (
	"fmt"

	"github.com/jhoicas/salestrack-api/internal/application/ports"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/pkg/jwt"
)

var _ ports.TokenIssuer = (*JWTIssuer)(nil)

// JWTIssuer firma tokens HS256 con la identidad completa del usuario.
type JWTIssuer struct {
	secret     string
	issuer     string
	expMinutes int
}

func NewJWTIssuer(secret, issuer string, expMinutes int) *JWTIssuer {
	return &JWTIssuer{secret: secret, issuer: issuer, expMinutes: expMinutes}
}

func (i *JWTIssuer) Issue(u *entity.User) (string, error) {
	id := jwt.Identity{
		UserID: u.ID,
		RoleID: u.Role.ID(),
		Role:   string(u.Role),
	}
	if u.LocationID != nil {
		id.LocationID = *u.LocationID
	}
	token, err := jwt.Generate(i.secret, id, i.issuer, i.expMinutes)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
