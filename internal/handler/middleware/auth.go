package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"drivebook/internal/pkg/config"
	"drivebook/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const ctxStudentIDKey = "student_id"

type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(cfg config.JWTConfig) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(cfg.Secret)}
}

// RequireAuth verifies the bearer token and stores the student id on the
// context. Token issuance lives in the identity service; this engine only
// validates.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		studentID, err := m.parseStudentID(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxStudentIDKey, studentID)
		c.Next()
	}
}

func (m *AuthMiddleware) parseStudentID(token string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.Newf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to parse token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, errs.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, errs.New("token missing subject")
	}

	studentID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "token subject is not a valid id")
	}
	return studentID, nil
}

func GetStudentID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(ctxStudentIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}
