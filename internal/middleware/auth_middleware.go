package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go-rota/internal/domain"
	"go-rota/internal/shared/apperror"
	"go-rota/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMissing = apperror.New(apperror.CodeUnauthorized, "token not found", http.StatusUnauthorized)
	ErrInvalidToken = apperror.New(apperror.CodeUnauthorized, "invalid token", http.StatusUnauthorized)
	ErrTokenExpired = apperror.New(apperror.CodeUnauthorized, "token expired", http.StatusUnauthorized)
	ErrUnknownRole  = apperror.New(apperror.CodeForbidden, "token carries an unknown role", http.StatusForbidden)
)

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}

// AuthMiddleware verifies an HS256 bearer token (or access_token cookie) and
// stores user_id and the normalised role on the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, _ := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abortWith(c, ErrTokenMissing)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWith(c, ErrTokenExpired)
				return
			}
			abortWith(c, ErrInvalidToken)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, ErrInvalidToken)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			abortWith(c, ErrInvalidToken)
			return
		}

		rawRole, _ := claims["role"].(string)
		role, err := domain.ParseRole(rawRole)
		if err != nil {
			abortWith(c, ErrUnknownRole)
			return
		}

		c.Set("user_id", userID)
		c.Set("role", role.String())

		c.Next()
	}
}

// ActorFromContext rebuilds the caller set by AuthMiddleware.
func ActorFromContext(c *gin.Context) (domain.Actor, bool) {
	userID := c.GetString("user_id")
	role, err := domain.ParseRole(c.GetString("role"))
	if userID == "" || err != nil {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: userID, Role: role}, true
}
