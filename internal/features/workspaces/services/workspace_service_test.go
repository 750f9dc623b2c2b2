package workspaces_services_test

import (
	"testing"

	organizations_enums "accessly-backend/internal/features/organizations/enums"
	organizations_models "accessly-backend/internal/features/organizations/models"
	organizations_repositories "accessly-backend/internal/features/organizations/repositories"
	organizations_testing "accessly-backend/internal/features/organizations/testing"
	users_testing "accessly-backend/internal/features/users/testing"
	workspaces_dto "accessly-backend/internal/features/workspaces/dto"
	workspaces_enums "accessly-backend/internal/features/workspaces/enums"
	workspaces_models "accessly-backend/internal/features/workspaces/models"
	workspaces_repositories "accessly-backend/internal/features/workspaces/repositories"
	workspaces_services "accessly-backend/internal/features/workspaces/services"
	workspaces_testing "accessly-backend/internal/features/workspaces/testing"
	"accessly-backend/internal/util/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CreateWorkspace_SlugifiesAlias(t *testing.T) {
	owner, _ := users_testing.CreateTestUser("Alias Owner")
	organization := organizations_testing.CreateTestOrganization("Alias Org", owner)

	workspace, err := workspaces_services.GetWorkspaceService().CreateWorkspace(
		owner,
		&workspaces_dto.CreateWorkspaceRequestDTO{
			OrganizationID: organization.ID,
			Name:           "My Test Workspace",
		},
	)
	require.NoError(t, err)

	assert.Equal(t, "my-test-workspace", workspace.Alias)
	assert.Equal(t, owner.ID, workspace.CreatedBy)

	membership, err := workspaces_repositories.GetMembershipRepository().
		GetMembership(owner.ID, workspace.ID)
	require.NoError(t, err)
	require.NotNil(t, membership)

	assert.Equal(t, workspaces_enums.WorkspaceRoleOwner, membership.Role)
	assert.Equal(t, workspaces_enums.WorkspaceMembershipStatusActive, membership.Status)
}

func Test_CreateWorkspace_AliasCollision_GetsSuffix(t *testing.T) {
	owner, _ := users_testing.CreateTestUser("Collision Owner")
	organization := organizations_testing.CreateTestOrganization("Collision Org", owner)
	workspaceService := workspaces_services.GetWorkspaceService()

	request := &workspaces_dto.CreateWorkspaceRequestDTO{
		OrganizationID: organization.ID,
		Name:           "Duplicate Name",
	}

	first, err := workspaceService.CreateWorkspace(owner, request)
	require.NoError(t, err)
	assert.Equal(t, "duplicate-name", first.Alias)

	second, err := workspaceService.CreateWorkspace(owner, request)
	require.NoError(t, err)
	assert.Equal(t, "duplicate-name-2", second.Alias)

	third, err := workspaceService.CreateWorkspace(owner, request)
	require.NoError(t, err)
	assert.Equal(t, "duplicate-name-3", third.Alias)
}

func Test_CreateWorkspace_MemberForbidden(t *testing.T) {
	owner, _ := users_testing.CreateTestUser("WS Owner")
	member, _ := users_testing.CreateTestUser("WS Member")
	organization := organizations_testing.CreateTestOrganization("Member Org", owner)

	err := organizations_repositories.GetMembershipRepository().CreateMembership(
		&organizations_models.OrganizationMembership{
			UserID:         member.ID,
			OrganizationID: organization.ID,
			Role:           organizations_enums.OrganizationRoleMember,
			Status:         organizations_enums.OrganizationMembershipStatusActive,
		},
	)
	require.NoError(t, err)

	_, err = workspaces_services.GetWorkspaceService().CreateWorkspace(
		member,
		&workspaces_dto.CreateWorkspaceRequestDTO{
			OrganizationID: organization.ID,
			Name:           "Not Allowed",
		},
	)
	assert.True(t, apperrors.IsForbidden(err))
}

func Test_CreateWorkspace_NonMemberForbidden(t *testing.T) {
	owner, _ := users_testing.CreateTestUser("Lone Owner")
	stranger, _ := users_testing.CreateTestUser("WS Stranger")
	organization := organizations_testing.CreateTestOrganization("Closed Org", owner)

	_, err := workspaces_services.GetWorkspaceService().CreateWorkspace(
		stranger,
		&workspaces_dto.CreateWorkspaceRequestDTO{
			OrganizationID: organization.ID,
			Name:           "Intruder",
		},
	)
	assert.True(t, apperrors.IsForbidden(err))
}

func Test_UpdateWorkspace_RenameRecomputesAlias(t *testing.T) {
	owner, _ := users_testing.CreateTestUser("Rename Owner")
	organization := organizations_testing.CreateTestOrganization("Rename Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Old Name", organization, owner)

	updated, err := workspaces_services.GetWorkspaceService().UpdateWorkspace(
		owner, workspace.ID,
		&workspaces_dto.UpdateWorkspaceRequestDTO{Name: "Completely New"},
	)
	require.NoError(t, err)

	assert.Equal(t, "Completely New", updated.Name)
	assert.Equal(t, "completely-new", updated.Alias)
}

func Test_DeleteWorkspace_OnlyOwner(t *testing.T) {
	owner, _ := users_testing.CreateTestUser("Del Owner")
	admin, _ := users_testing.CreateTestUser("Del Admin")
	organization := organizations_testing.CreateTestOrganization("Del Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Del Workspace", organization, owner)

	err := workspaces_repositories.GetMembershipRepository().CreateMembership(
		&workspaces_models.WorkspaceMembership{
			UserID:      admin.ID,
			WorkspaceID: workspace.ID,
			Role:        workspaces_enums.WorkspaceRoleAdmin,
			Status:      workspaces_enums.WorkspaceMembershipStatusActive,
		},
	)
	require.NoError(t, err)

	workspaceService := workspaces_services.GetWorkspaceService()

	err = workspaceService.DeleteWorkspace(admin, workspace.ID)
	assert.True(t, apperrors.IsForbidden(err))

	err = workspaceService.DeleteWorkspace(owner, workspace.ID)
	require.NoError(t, err)

	removed, err := workspaces_repositories.GetWorkspaceRepository().GetWorkspaceByID(workspace.ID)
	require.NoError(t, err)
	assert.Nil(t, removed)
}

func Test_GetWorkspace_RequiresActiveMembership(t *testing.T) {
	owner, _ := users_testing.CreateTestUser("View Owner")
	stranger, _ := users_testing.CreateTestUser("View Stranger")
	organization := organizations_testing.CreateTestOrganization("View Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("View Workspace", organization, owner)

	workspaceService := workspaces_services.GetWorkspaceService()

	found, err := workspaceService.GetWorkspace(owner, workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, workspace.ID, found.ID)

	_, err = workspaceService.GetWorkspace(stranger, workspace.ID)
	assert.True(t, apperrors.IsForbidden(err))
}

func Test_ListWorkspacesForUser_OnlyActiveMemberships(t *testing.T) {
	owner, _ := users_testing.CreateTestUser("List Owner")
	organization := organizations_testing.CreateTestOrganization("List Org", owner)

	first := workspaces_testing.CreateTestWorkspace("First", organization, owner)
	second := workspaces_testing.CreateTestWorkspace("Second", organization, owner)

	response, err := workspaces_services.GetWorkspaceService().
		ListWorkspacesForUser(owner, organization.ID)
	require.NoError(t, err)
	require.Len(t, response.Workspaces, 2)

	ids := []string{
		response.Workspaces[0].ID.String(),
		response.Workspaces[1].ID.String(),
	}
	assert.Contains(t, ids, first.ID.String())
	assert.Contains(t, ids, second.ID.String())

	for _, workspace := range response.Workspaces {
		require.NotNil(t, workspace.UserRole)
		assert.Equal(t, workspaces_enums.WorkspaceRoleOwner, *workspace.UserRole)
	}
}
