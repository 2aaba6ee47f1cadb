package ports

import "github.com/jhoicas/salestrack-api/internal/domain/entity"

// PasswordHasher abstrae el algoritmo de hash de contraseñas.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Compare devuelve domain.ErrInvalidCredentials si no coinciden.
	Compare(hash, plain string) error
}

// TokenIssuer firma el token de acceso de un usuario autenticado.
type TokenIssuer interface {
	Issue(user *entity.User) (string, error)
}
