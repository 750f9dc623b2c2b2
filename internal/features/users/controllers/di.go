package users_controllers

import (
	invitations_services "accessly-backend/internal/features/invitations/services"
	users_services "accessly-backend/internal/features/users/services"

	"golang.org/x/time/rate"
)

var userController = &UserController{
	users_services.GetUserService(),
	invitations_services.GetInvitationService(),
	rate.NewLimiter(rate.Limit(3), 3), // 3 rps with 3 burst
}

func GetUserController() *UserController {
	return userController
}
