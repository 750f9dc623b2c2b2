package users_middleware

import (
	"net/http"
	"strings"

	users_models "accessly-backend/internal/features/users/models"
	users_services "accessly-backend/internal/features/users/services"

	"github.com/gin-gonic/gin"
)

const userContextKey = "user"

// AuthMiddleware resolves the bearer token into a user and stores it on the
// request context. Requests without a valid token are rejected.
func AuthMiddleware(userService *users_services.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			ctx.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "Authorization header is required"},
			)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")

		user, err := userService.GetUserFromToken(token)
		if err != nil {
			ctx.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "Invalid or expired token"},
			)
			return
		}

		ctx.Set(userContextKey, user)
		ctx.Next()
	}
}

// OptionalAuthMiddleware resolves the user when a token is present but lets
// anonymous requests through. Used on the invitation verify endpoint, which
// serves both signed-in and signed-out visitors.
func OptionalAuthMiddleware(userService *users_services.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header != "" {
			token := strings.TrimPrefix(header, "Bearer ")

			if user, err := userService.GetUserFromToken(token); err == nil {
				ctx.Set(userContextKey, user)
			}
		}

		ctx.Next()
	}
}

func GetUserFromContext(ctx *gin.Context) (*users_models.User, bool) {
	value, exists := ctx.Get(userContextKey)
	if !exists {
		return nil, false
	}

	user, ok := value.(*users_models.User)
	return user, ok
}
