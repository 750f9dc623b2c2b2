package workspaces_testing

import (
	"fmt"

	organizations_models "accessly-backend/internal/features/organizations/models"
	users_models "accessly-backend/internal/features/users/models"
	workspaces_dto "accessly-backend/internal/features/workspaces/dto"
	workspaces_models "accessly-backend/internal/features/workspaces/models"
	workspaces_services "accessly-backend/internal/features/workspaces/services"
	test_utils "accessly-backend/internal/util/testing"
)

// CreateTestWorkspace creates a workspace inside the organization with the
// given user as its owner.
func CreateTestWorkspace(
	name string,
	organization *organizations_models.Organization,
	owner *users_models.User,
) *workspaces_models.Workspace {
	test_utils.PrepareTestDb()

	workspace, err := workspaces_services.GetWorkspaceService().CreateWorkspace(
		owner,
		&workspaces_dto.CreateWorkspaceRequestDTO{
			OrganizationID: organization.ID,
			Name:           name,
		},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to create test workspace: %v", err))
	}

	return workspace
}
