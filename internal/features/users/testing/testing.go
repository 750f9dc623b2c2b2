package users_testing

import (
	"fmt"
	"strings"

	users_dto "accessly-backend/internal/features/users/dto"
	users_models "accessly-backend/internal/features/users/models"
	users_services "accessly-backend/internal/features/users/services"
	test_utils "accessly-backend/internal/util/testing"

	"github.com/google/uuid"
)

const TestUserPassword = "test-password-123"

// CreateTestUser registers a fresh user with a unique email address and
// returns the stored row together with a valid access token.
func CreateTestUser(name string) (*users_models.User, string) {
	test_utils.PrepareTestDb()

	email := fmt.Sprintf(
		"%s-%s@example.com",
		strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		uuid.New().String()[:8],
	)

	userService := users_services.GetUserService()

	response, err := userService.SignUp(&users_dto.SignUpRequestDTO{
		Email:    email,
		Name:     name,
		Password: TestUserPassword,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create test user: %v", err))
	}

	user, err := userService.GetUserByID(response.UserID)
	if err != nil || user == nil {
		panic(fmt.Sprintf("failed to load test user: %v", err))
	}

	return user, response.Token
}

// CreateTestSuperAdmin registers a user and flips the super-admin flag
// directly, the way operators grant it in production.
func CreateTestSuperAdmin(name string) (*users_models.User, string) {
	user, token := CreateTestUser(name)

	db := test_utils.PrepareTestDb()

	err := db.Model(&users_models.User{}).
		Where("id = ?", user.ID).
		Update("is_super_admin", true).Error
	if err != nil {
		panic(fmt.Sprintf("failed to promote test user: %v", err))
	}

	user.IsSuperAdmin = true

	return user, token
}
