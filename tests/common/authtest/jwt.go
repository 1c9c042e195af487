//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// IssueToken signs a short-lived HS256 access token for the given student,
// matching what the identity service would hand out.
func IssueToken(t *testing.T, secret string, studentID uuid.UUID) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": studentID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
