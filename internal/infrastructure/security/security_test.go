package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/pkg/jwt"
)

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("secreto123")
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", hash)

	assert.NoError(t, h.Compare(hash, "secreto123"))
	assert.ErrorIs(t, h.Compare(hash, "otra"), domain.ErrInvalidCredentials)
	assert.ErrorIs(t, h.Compare("", "otra"), domain.ErrInvalidCredentials)
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	loc := int64(2)
	issuer := NewJWTIssuer("s3cret", "salestrack", 15)

	token, err := issuer.Issue(&entity.User{ID: 9, Role: entity.RoleLocationManager, LocationID: &loc})
	require.NoError(t, err)

	id, err := jwt.Parse("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), id.UserID)
	assert.Equal(t, entity.RoleIDLocationManager, id.RoleID)
	assert.Equal(t, "location-manager", id.Role)
	assert.Equal(t, int64(2), id.LocationID)

	admin, err := issuer.Issue(&entity.User{ID: 1, Role: entity.RoleSuperAdmin})
	require.NoError(t, err)
	id, err = jwt.Parse("s3cret", admin)
	require.NoError(t, err)
	assert.Zero(t, id.LocationID)
}

func TestJWTIssuer_EmptySecret(t *testing.T) {
	_, err := NewJWTIssuer("", "salestrack", 15).Issue(&entity.User{ID: 1, Role: entity.RoleSuperAdmin})
	assert.Error(t, err)
}
