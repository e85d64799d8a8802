package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "finbridge/internal/errors"
)

// supabaseAudience is the aud claim Supabase puts on signed-in user tokens.
const supabaseAudience = "authenticated"

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "userID"
	EmailKey  = "email"
)

// SupabaseClaims are the claims of a Supabase Auth access token. The user id
// is the subject.
type SupabaseClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthOptions configures how requests are attributed to a user.
type AuthOptions struct {
	// JWTSecret verifies HS256 Supabase tokens. Empty disables bearer auth.
	JWTSecret string
	// AllowUserHeader accepts an X-User-ID header or userId query parameter
	// when no bearer token is sent.
	AllowUserHeader bool
}

// ParseToken validates a Supabase access token and returns its claims.
func ParseToken(tokenString, secret string) (*SupabaseClaims, error) {
	if secret == "" {
		return nil, errors.New("jwt secret not configured")
	}

	claims := &SupabaseClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(supabaseAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("token subject is not a user id: %w", err)
	}
	claims.Subject = sub.String()
	return claims, nil
}

// AuthMiddleware resolves the calling user and stores their id in the
// context under UserIDKey.
func AuthMiddleware(opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				abortWithError(c, apperrors.WithMessage(apperrors.ErrInvalidToken, "Invalid authorization header format"))
				return
			}

			claims, err := ParseToken(parts[1], opts.JWTSecret)
			if err != nil {
				abortWithError(c, apperrors.Wrap(apperrors.ErrInvalidToken, err))
				return
			}

			c.Set(UserIDKey, claims.Subject)
			c.Set(EmailKey, claims.Email)
			c.Next()
			return
		}

		if !opts.AllowUserHeader {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = c.Query("userId")
		}
		if userID == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "User ID is required"))
			return
		}
		id, err := uuid.Parse(userID)
		if err != nil {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "User ID must be a UUID"))
			return
		}

		// Stored ids are lowercase; keep the context value comparable to them.
		c.Set(UserIDKey, id.String())
		c.Next()
	}
}
