package users_services_test

import (
	"fmt"
	"testing"

	users_dto "accessly-backend/internal/features/users/dto"
	users_services "accessly-backend/internal/features/users/services"
	users_testing "accessly-backend/internal/features/users/testing"
	"accessly-backend/internal/util/apperrors"
	test_utils "accessly-backend/internal/util/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SignUp_ReturnsWorkingToken(t *testing.T) {
	test_utils.PrepareTestDb()
	userService := users_services.GetUserService()

	email := fmt.Sprintf("signup-%s@example.com", uuid.New().String()[:8])

	response, err := userService.SignUp(&users_dto.SignUpRequestDTO{
		Email:    email,
		Name:     "Signup Test",
		Password: "strong-password-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)

	user, err := userService.GetUserFromToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, response.UserID, user.ID)
	assert.Equal(t, email, user.Email)
}

func Test_SignUp_DuplicateEmail_Conflict(t *testing.T) {
	test_utils.PrepareTestDb()
	userService := users_services.GetUserService()

	email := fmt.Sprintf("dup-%s@example.com", uuid.New().String()[:8])
	request := &users_dto.SignUpRequestDTO{
		Email:    email,
		Name:     "First",
		Password: "strong-password-1",
	}

	_, err := userService.SignUp(request)
	require.NoError(t, err)

	_, err = userService.SignUp(request)
	assert.True(t, apperrors.IsConflict(err))
}

func Test_SignIn(t *testing.T) {
	user, _ := users_testing.CreateTestUser("Sign In")
	userService := users_services.GetUserService()

	response, err := userService.SignIn(&users_dto.SignInRequestDTO{
		Email:    user.Email,
		Password: users_testing.TestUserPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, response.UserID)
	assert.NotEmpty(t, response.Token)
}

func Test_SignIn_WrongPassword_Forbidden(t *testing.T) {
	user, _ := users_testing.CreateTestUser("Wrong Password")
	userService := users_services.GetUserService()

	_, err := userService.SignIn(&users_dto.SignInRequestDTO{
		Email:    user.Email,
		Password: "not-the-password",
	})

	assert.True(t, apperrors.IsForbidden(err))
}

func Test_SignIn_UnknownEmail_NotFound(t *testing.T) {
	test_utils.PrepareTestDb()
	userService := users_services.GetUserService()

	_, err := userService.SignIn(&users_dto.SignInRequestDTO{
		Email:    fmt.Sprintf("nobody-%s@example.com", uuid.New().String()[:8]),
		Password: "whatever-password",
	})

	assert.True(t, apperrors.IsNotFound(err))
}

func Test_GetUserFromToken_RejectsGarbage(t *testing.T) {
	test_utils.PrepareTestDb()
	userService := users_services.GetUserService()

	_, err := userService.GetUserFromToken("not-a-jwt")
	assert.Error(t, err)
}

func Test_ChangeUserPassword(t *testing.T) {
	user, _ := users_testing.CreateTestUser("Password Change")
	userService := users_services.GetUserService()

	err := userService.ChangeUserPassword(user.ID, "brand-new-password")
	require.NoError(t, err)

	_, err = userService.SignIn(&users_dto.SignInRequestDTO{
		Email:    user.Email,
		Password: users_testing.TestUserPassword,
	})
	assert.True(t, apperrors.IsForbidden(err))

	response, err := userService.SignIn(&users_dto.SignInRequestDTO{
		Email:    user.Email,
		Password: "brand-new-password",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, response.UserID)
}

func Test_GetCurrentUserProfile(t *testing.T) {
	user, _ := users_testing.CreateTestUser("Profile")
	userService := users_services.GetUserService()

	profile := userService.GetCurrentUserProfile(user)

	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, user.Email, profile.Email)
	assert.False(t, profile.IsSuperAdmin)
}
