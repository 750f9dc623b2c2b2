package organizations_testing

import (
	"fmt"

	organizations_dto "accessly-backend/internal/features/organizations/dto"
	organizations_models "accessly-backend/internal/features/organizations/models"
	organizations_services "accessly-backend/internal/features/organizations/services"
	users_models "accessly-backend/internal/features/users/models"
	test_utils "accessly-backend/internal/util/testing"

	"github.com/google/uuid"
)

// CreateTestOrganization creates an organization with a unique domain and the
// given user as its owner.
func CreateTestOrganization(
	name string,
	owner *users_models.User,
) *organizations_models.Organization {
	test_utils.PrepareTestDb()

	organization, err := organizations_services.GetOrganizationService().CreateOrganization(
		owner,
		&organizations_dto.CreateOrganizationRequestDTO{
			Name:   name,
			Domain: fmt.Sprintf("org-%s.example.com", uuid.New().String()[:8]),
		},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to create test organization: %v", err))
	}

	return organization
}
