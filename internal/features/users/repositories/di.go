package users_repositories

import "accessly-backend/internal/storage"

var userRepository = NewUserRepository(storage.GetDb())

func GetUserRepository() *UserRepository {
	return userRepository
}
