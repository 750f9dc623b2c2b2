package users_controllers

import (
	"net/http"

	invitations_services "accessly-backend/internal/features/invitations/services"
	users_dto "accessly-backend/internal/features/users/dto"
	users_middleware "accessly-backend/internal/features/users/middleware"
	users_services "accessly-backend/internal/features/users/services"
	"accessly-backend/internal/util/apperrors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type UserController struct {
	userService       *users_services.UserService
	invitationService *invitations_services.InvitationService

	signInLimiter *rate.Limiter
}

func (c *UserController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users/signup", c.SignUp)
	router.POST("/users/signin", c.SignIn)
}

func (c *UserController) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/users/me", c.GetProfile)
}

// SignUp
// @Summary Register a new user
// @Description Create an account; when an invitation token is supplied the invitation is accepted right after
// @Tags users
// @Accept json
// @Produce json
// @Param request body users_dto.SignUpRequestDTO true "Sign up data"
// @Success 200 {object} users_dto.SignInResponseDTO
// @Failure 400
// @Failure 409
// @Router /users/signup [post]
func (c *UserController) SignUp(ctx *gin.Context) {
	var request users_dto.SignUpRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := c.userService.SignUp(&request)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	// registration through an invitation link accepts it in the same request
	if request.InvitationToken != nil && *request.InvitationToken != "" {
		user, err := c.userService.GetUserByID(response.UserID)
		if err == nil && user != nil {
			if err := c.invitationService.RespondToInvitation(
				user, *request.InvitationToken, true,
			); err != nil {
				ctx.JSON(http.StatusOK, gin.H{
					"userId":          response.UserID,
					"token":           response.Token,
					"invitationError": err.Error(),
				})
				return
			}
		}
	}

	ctx.JSON(http.StatusOK, response)
}

// SignIn
// @Summary Sign in
// @Description Exchange email and password for an access token
// @Tags users
// @Accept json
// @Produce json
// @Param request body users_dto.SignInRequestDTO true "Sign in data"
// @Success 200 {object} users_dto.SignInResponseDTO
// @Failure 400
// @Failure 403
// @Failure 429
// @Router /users/signin [post]
func (c *UserController) SignIn(ctx *gin.Context) {
	if !c.signInLimiter.Allow() {
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many sign in attempts"})
		return
	}

	var request users_dto.SignInRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := c.userService.SignIn(&request)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetProfile
// @Summary Get current user
// @Description Get the signed-in user's profile
// @Tags users
// @Produce json
// @Param Authorization header string true "JWT token"
// @Success 200 {object} users_dto.UserProfileResponseDTO
// @Failure 401
// @Router /users/me [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, c.userService.GetCurrentUserProfile(user))
}
