package users_services

import (
	users_repositories "accessly-backend/internal/features/users/repositories"
)

var userService = NewUserService(users_repositories.GetUserRepository())

func GetUserService() *UserService {
	return userService
}
