package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("credenciales incorrectas")
	ErrMissingToken       = errors.New("token requerido")
	ErrInvalidToken       = errors.New("token inválido")
	ErrForbidden          = errors.New("acceso solo para administradores")
	ErrNotFound           = errors.New("no encontrado")
	ErrDuplicateUser      = errors.New("el usuario ya existe")
)

// Identity is the token-carried identity. It is verified once at the API
// boundary and passed explicitly into handlers.
type Identity struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Rol      string `json:"rol"`
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool {
	return id.Rol == "admin"
}

type claims struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Rol      string `json:"rol"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token embedding the identity, expiring after
// TokenTTL.
func IssueToken(secret []byte, id Identity) (string, error) {
	now := time.Now()
	c := claims{
		ID:       id.ID,
		Username: id.Username,
		Rol:      id.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

// VerifyToken validates signature and expiry and returns the embedded
// identity. An empty token yields ErrMissingToken; anything else that fails
// verification yields ErrInvalidToken.
func VerifyToken(secret []byte, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: c.ID, Username: c.Username, Rol: c.Rol}, nil
}
