package invitations_services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	invitations_dto "accessly-backend/internal/features/invitations/dto"
	invitations_enums "accessly-backend/internal/features/invitations/enums"
	invitations_models "accessly-backend/internal/features/invitations/models"
	invitations_repositories "accessly-backend/internal/features/invitations/repositories"
	invitations_services "accessly-backend/internal/features/invitations/services"
	invitations_testing "accessly-backend/internal/features/invitations/testing"
	organizations_enums "accessly-backend/internal/features/organizations/enums"
	organizations_models "accessly-backend/internal/features/organizations/models"
	organizations_repositories "accessly-backend/internal/features/organizations/repositories"
	organizations_testing "accessly-backend/internal/features/organizations/testing"
	sites_models "accessly-backend/internal/features/sites/models"
	sites_repositories "accessly-backend/internal/features/sites/repositories"
	users_models "accessly-backend/internal/features/users/models"
	users_testing "accessly-backend/internal/features/users/testing"
	workspaces_enums "accessly-backend/internal/features/workspaces/enums"
	workspaces_models "accessly-backend/internal/features/workspaces/models"
	workspaces_repositories "accessly-backend/internal/features/workspaces/repositories"
	workspaces_testing "accessly-backend/internal/features/workspaces/testing"
	"accessly-backend/internal/util/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invitationFixture struct {
	service *invitations_services.InvitationService
	clock   *invitations_testing.FakeClock
	mail    *invitations_testing.RecordingMailSender
}

func newInvitationFixture() *invitationFixture {
	clock := invitations_testing.NewFakeClock()
	mail := &invitations_testing.RecordingMailSender{}

	service := invitations_testing.NewTestInvitationService(
		clock,
		invitations_testing.NewSequenceTokenGenerator(),
		mail,
	)

	return &invitationFixture{service: service, clock: clock, mail: mail}
}

func freshEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.New().String()[:8])
}

func Test_InviteToOrganization_NewUser(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Inviter")
	organization := organizations_testing.CreateTestOrganization("Invite Org", owner)

	email := freshEmail("new-hire")

	response, err := fixture.service.InviteToOrganization(
		context.Background(), owner,
		&invitations_dto.InviteToOrganizationRequestDTO{
			OrganizationID: organization.ID,
			Email:          email,
			Role:           string(organizations_enums.OrganizationRoleMember),
		},
	)
	require.NoError(t, err)
	assert.True(t, response.EmailSent)

	invitation, err := invitations_repositories.GetInvitationRepository().
		GetByToken(response.Token)
	require.NoError(t, err)
	require.NotNil(t, invitation)

	assert.Equal(t, invitations_enums.InvitationStatusPending, invitation.Status)
	assert.Equal(t, invitations_enums.InvitationTypeOrganization, invitation.Type)
	assert.Equal(t, email, invitation.Email)
	assert.Nil(t, invitation.WorkspaceID)
	assert.WithinDuration(
		t,
		fixture.clock.Current.AddDate(0, 0, invitations_models.ValidPeriodDays),
		invitation.ValidUntil,
		time.Second,
	)

	require.Len(t, fixture.mail.Sent, 1)
	assert.Equal(t, email, fixture.mail.Sent[0].To)
	assert.Equal(t, response.Token, fixture.mail.Sent[0].Token)
}

func Test_InviteToOrganization_UppercaseEmailNormalized(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Case Inviter")
	organization := organizations_testing.CreateTestOrganization("Case Org", owner)

	email := freshEmail("mixed-case")

	response, err := fixture.service.InviteToOrganization(
		context.Background(), owner,
		&invitations_dto.InviteToOrganizationRequestDTO{
			OrganizationID: organization.ID,
			Email:          "  " + strings.ToUpper(email) + " ",
			Role:           string(organizations_enums.OrganizationRoleMember),
		},
	)
	require.NoError(t, err)

	invitation, err := invitations_repositories.GetInvitationRepository().
		GetByToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, email, invitation.Email)
}

func Test_InviteToOrganization_SelfInvite_Conflict(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Self Inviter")
	organization := organizations_testing.CreateTestOrganization("Self Org", owner)

	_, err := fixture.service.InviteToOrganization(
		context.Background(), owner,
		&invitations_dto.InviteToOrganizationRequestDTO{
			OrganizationID: organization.ID,
			Email:          owner.Email,
			Role:           string(organizations_enums.OrganizationRoleMember),
		},
	)
	assert.True(t, apperrors.IsConflict(err))
}

func Test_InviteToWorkspace_SelfInvite_Conflict(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Workspace Self Inviter")
	organization := organizations_testing.CreateTestOrganization("WS Self Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("WS Self Workspace", organization, owner)

	_, err := fixture.service.InviteToWorkspace(
		context.Background(), owner,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       owner.Email,
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	assert.True(t, apperrors.IsConflict(err))
}

func Test_InviteToOrganization_MemberForbidden(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Org Head")
	member, _ := users_testing.CreateTestUser("Plain Member")
	organization := organizations_testing.CreateTestOrganization("Strict Org", owner)

	addOrganizationMembership(
		t, member.ID, organization.ID,
		organizations_enums.OrganizationRoleMember,
		organizations_enums.OrganizationMembershipStatusActive,
	)

	_, err := fixture.service.InviteToOrganization(
		context.Background(), member,
		&invitations_dto.InviteToOrganizationRequestDTO{
			OrganizationID: organization.ID,
			Email:          freshEmail("someone"),
			Role:           string(organizations_enums.OrganizationRoleMember),
		},
	)
	assert.True(t, apperrors.IsForbidden(err))
}

func Test_InviteToOrganization_InvalidRole_Validation(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Role Inviter")
	organization := organizations_testing.CreateTestOrganization("Role Org", owner)

	_, err := fixture.service.InviteToOrganization(
		context.Background(), owner,
		&invitations_dto.InviteToOrganizationRequestDTO{
			OrganizationID: organization.ID,
			Email:          freshEmail("someone"),
			Role:           "SUPERVISOR",
		},
	)
	assert.True(t, apperrors.IsValidation(err))
}

func Test_InviteToOrganization_ExistingActiveMember_Conflict(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Conflict Inviter")
	member, _ := users_testing.CreateTestUser("Already In")
	organization := organizations_testing.CreateTestOrganization("Conflict Org", owner)

	addOrganizationMembership(
		t, member.ID, organization.ID,
		organizations_enums.OrganizationRoleMember,
		organizations_enums.OrganizationMembershipStatusActive,
	)

	_, err := fixture.service.InviteToOrganization(
		context.Background(), owner,
		&invitations_dto.InviteToOrganizationRequestDTO{
			OrganizationID: organization.ID,
			Email:          member.Email,
			Role:           string(organizations_enums.OrganizationRoleMember),
		},
	)
	assert.True(t, apperrors.IsConflict(err))
}

func Test_InviteToOrganization_ExistingUser_GetsInvitedMembership(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Membership Inviter")
	invitee, _ := users_testing.CreateTestUser("Future Member")
	organization := organizations_testing.CreateTestOrganization("Membership Org", owner)

	_, err := fixture.service.InviteToOrganization(
		context.Background(), owner,
		&invitations_dto.InviteToOrganizationRequestDTO{
			OrganizationID: organization.ID,
			Email:          invitee.Email,
			Role:           string(organizations_enums.OrganizationRoleAdmin),
		},
	)
	require.NoError(t, err)

	membership, err := organizations_repositories.GetMembershipRepository().
		GetMembership(invitee.ID, organization.ID)
	require.NoError(t, err)
	require.NotNil(t, membership)

	assert.Equal(t, organizations_enums.OrganizationMembershipStatusInvited, membership.Status)
	assert.Equal(t, organizations_enums.OrganizationRoleAdmin, membership.Role)
}

func Test_InviteToOrganization_SupersedesPreviousPending(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Supersede Inviter")
	organization := organizations_testing.CreateTestOrganization("Supersede Org", owner)

	email := freshEmail("reinvited")
	request := &invitations_dto.InviteToOrganizationRequestDTO{
		OrganizationID: organization.ID,
		Email:          email,
		Role:           string(organizations_enums.OrganizationRoleMember),
	}

	first, err := fixture.service.InviteToOrganization(context.Background(), owner, request)
	require.NoError(t, err)

	second, err := fixture.service.InviteToOrganization(context.Background(), owner, request)
	require.NoError(t, err)

	invitationRepository := invitations_repositories.GetInvitationRepository()

	superseded, err := invitationRepository.GetByToken(first.Token)
	require.NoError(t, err)
	assert.Nil(t, superseded)

	current, err := invitationRepository.GetByToken(second.Token)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, invitations_enums.InvitationStatusPending, current.Status)
}

func Test_InviteToWorkspace_ExistingUser_PendingMembershipCarriesToken(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("WS Inviter")
	invitee, _ := users_testing.CreateTestUser("WS Invitee")
	organization := organizations_testing.CreateTestOrganization("WS Invite Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("WS Invite Target", organization, owner)

	response, err := fixture.service.InviteToWorkspace(
		context.Background(), owner,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       invitee.Email,
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	require.NoError(t, err)

	membership, err := workspaces_repositories.GetMembershipRepository().
		GetMembership(invitee.ID, workspace.ID)
	require.NoError(t, err)
	require.NotNil(t, membership)

	assert.Equal(t, workspaces_enums.WorkspaceMembershipStatusPending, membership.Status)
	require.NotNil(t, membership.InvitationToken)
	assert.Equal(t, response.Token, *membership.InvitationToken)

	// the invitee also appears on the organization as INVITED
	organizationMembership, err := organizations_repositories.GetMembershipRepository().
		GetMembership(invitee.ID, organization.ID)
	require.NoError(t, err)
	require.NotNil(t, organizationMembership)
	assert.Equal(
		t,
		organizations_enums.OrganizationMembershipStatusInvited,
		organizationMembership.Status,
	)
}

func Test_InviteToWorkspace_NewUser_NoMembershipRow(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Fresh Inviter")
	organization := organizations_testing.CreateTestOrganization("Fresh Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Fresh Workspace", organization, owner)

	response, err := fixture.service.InviteToWorkspace(
		context.Background(), owner,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       freshEmail("not-registered"),
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	require.NoError(t, err)

	membership, err := workspaces_repositories.GetMembershipRepository().
		GetMembershipByToken(response.Token)
	require.NoError(t, err)
	assert.Nil(t, membership)
}

func Test_InviteToWorkspace_MailFailure_InvitationStillCreated(t *testing.T) {
	fixture := newInvitationFixture()
	fixture.mail.Err = fmt.Errorf("smtp connection refused")

	owner, _ := users_testing.CreateTestUser("Mailless Inviter")
	organization := organizations_testing.CreateTestOrganization("Mailless Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Mailless Workspace", organization, owner)

	response, err := fixture.service.InviteToWorkspace(
		context.Background(), owner,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       freshEmail("unreachable"),
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	require.NoError(t, err)
	assert.False(t, response.EmailSent)

	invitation, err := invitations_repositories.GetInvitationRepository().
		GetByToken(response.Token)
	require.NoError(t, err)
	assert.NotNil(t, invitation)
}

func Test_VerifyInvitation_UnknownToken_NotFound(t *testing.T) {
	fixture := newInvitationFixture()

	_, err := fixture.service.VerifyInvitation("no-such-token", nil)
	assert.True(t, apperrors.IsNotFound(err))
}

func Test_VerifyInvitation_ReturnsDetail(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Detail Inviter")
	invitee, _ := users_testing.CreateTestUser("Detail Invitee")
	organization := organizations_testing.CreateTestOrganization("Detail Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Detail Workspace", organization, owner)

	response, err := fixture.service.InviteToWorkspace(
		context.Background(), owner,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       invitee.Email,
			Role:        string(workspaces_enums.WorkspaceRoleAdmin),
		},
	)
	require.NoError(t, err)

	detail, err := fixture.service.VerifyInvitation(response.Token, invitee)
	require.NoError(t, err)

	assert.Equal(t, invitee.Email, detail.Email)
	assert.Equal(t, string(workspaces_enums.WorkspaceRoleAdmin), detail.Role)
	assert.Equal(t, organization.ID, detail.OrganizationID)
	assert.Equal(t, organization.Name, detail.OrganizationName)
	require.NotNil(t, detail.WorkspaceName)
	assert.Equal(t, workspace.Name, *detail.WorkspaceName)
	assert.Equal(t, owner.Name, detail.InvitedByName)
	assert.True(t, detail.UserExists)
}

func Test_VerifyInvitation_EmailMismatch_Forbidden(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Mismatch Inviter")
	other, _ := users_testing.CreateTestUser("Wrong Account")
	organization := organizations_testing.CreateTestOrganization("Mismatch Org", owner)

	response, err := fixture.service.InviteToOrganization(
		context.Background(), owner,
		&invitations_dto.InviteToOrganizationRequestDTO{
			OrganizationID: organization.ID,
			Email:          freshEmail("someone-else"),
			Role:           string(organizations_enums.OrganizationRoleMember),
		},
	)
	require.NoError(t, err)

	_, err = fixture.service.VerifyInvitation(response.Token, other)
	assert.True(t, apperrors.IsForbidden(err))
}

func Test_VerifyInvitation_LazyExpiry(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Expiry Inviter")
	invitee, _ := users_testing.CreateTestUser("Late Invitee")
	organization := organizations_testing.CreateTestOrganization("Expiry Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Expiry Workspace", organization, owner)

	response, err := fixture.service.InviteToWorkspace(
		context.Background(), owner,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       invitee.Email,
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	require.NoError(t, err)

	fixture.clock.Advance((invitations_models.ValidPeriodDays + 1) * 24 * time.Hour)

	_, err = fixture.service.VerifyInvitation(response.Token, nil)
	assert.True(t, apperrors.IsExpired(err))

	invitation, err := invitations_repositories.GetInvitationRepository().
		GetByToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, invitations_enums.InvitationStatusExpired, invitation.Status)

	membership, err := workspaces_repositories.GetMembershipRepository().
		GetMembership(invitee.ID, workspace.ID)
	require.NoError(t, err)
	require.NotNil(t, membership)
	assert.Equal(t, workspaces_enums.WorkspaceMembershipStatusInactive, membership.Status)
}

func Test_AcceptWorkspaceInvitation(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Accept Inviter")
	invitee, _ := users_testing.CreateTestUser("Accepting Invitee")
	organization := organizations_testing.CreateTestOrganization("Accept Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Accept Workspace", organization, owner)

	response, err := fixture.service.InviteToWorkspace(
		context.Background(), owner,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       invitee.Email,
			Role:        string(workspaces_enums.WorkspaceRoleAdmin),
		},
	)
	require.NoError(t, err)

	err = fixture.service.RespondToInvitation(invitee, response.Token, true)
	require.NoError(t, err)

	membership, err := workspaces_repositories.GetMembershipRepository().
		GetMembership(invitee.ID, workspace.ID)
	require.NoError(t, err)
	require.NotNil(t, membership)

	assert.Equal(t, workspaces_enums.WorkspaceMembershipStatusActive, membership.Status)
	assert.Equal(t, workspaces_enums.WorkspaceRoleAdmin, membership.Role)
	assert.Nil(t, membership.InvitationToken)

	organizationMembership, err := organizations_repositories.GetMembershipRepository().
		GetMembership(invitee.ID, organization.ID)
	require.NoError(t, err)
	require.NotNil(t, organizationMembership)
	assert.Equal(
		t,
		organizations_enums.OrganizationMembershipStatusActive,
		organizationMembership.Status,
	)

	invitation, err := invitations_repositories.GetInvitationRepository().
		GetByToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, invitations_enums.InvitationStatusAccepted, invitation.Status)
	require.NotNil(t, invitation.AcceptedByID)
	assert.Equal(t, invitee.ID, *invitation.AcceptedByID)
	assert.NotNil(t, invitation.AcceptedAt)

	// accepting again changes nothing: the token is no longer pending
	err = fixture.service.RespondToInvitation(invitee, response.Token, true)
	assert.True(t, apperrors.IsConflict(err))
}

func Test_DeclineWorkspaceInvitation(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Decline Inviter")
	invitee, _ := users_testing.CreateTestUser("Declining Invitee")
	organization := organizations_testing.CreateTestOrganization("Decline Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Decline Workspace", organization, owner)

	response, err := fixture.service.InviteToWorkspace(
		context.Background(), owner,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       invitee.Email,
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	require.NoError(t, err)

	err = fixture.service.RespondToInvitation(invitee, response.Token, false)
	require.NoError(t, err)

	invitation, err := invitations_repositories.GetInvitationRepository().
		GetByToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, invitations_enums.InvitationStatusDeclined, invitation.Status)

	membership, err := workspaces_repositories.GetMembershipRepository().
		GetMembership(invitee.ID, workspace.ID)
	require.NoError(t, err)
	require.NotNil(t, membership)
	assert.Equal(t, workspaces_enums.WorkspaceMembershipStatusDeclined, membership.Status)
	assert.Nil(t, membership.InvitationToken)

	// a terminal invitation cannot be responded to again
	err = fixture.service.RespondToInvitation(invitee, response.Token, true)
	assert.True(t, apperrors.IsConflict(err))
}

func Test_OwnerInvite_RequiresSuperAdmin(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Normal Admin")
	organization := organizations_testing.CreateTestOrganization("No Grant Org", owner)

	_, err := fixture.service.InviteToOrganization(
		context.Background(), owner,
		&invitations_dto.InviteToOrganizationRequestDTO{
			OrganizationID: organization.ID,
			Email:          freshEmail("wannabe-owner"),
			Role:           string(organizations_enums.OrganizationRoleOwner),
		},
	)
	assert.True(t, apperrors.IsForbidden(err))
}

func Test_OwnerInvite_ConflictWhenOwnerExists(t *testing.T) {
	fixture := newInvitationFixture()
	superAdmin, _ := users_testing.CreateTestSuperAdmin("Granting Admin")
	organization := organizations_testing.CreateTestOrganization("Owned Org", superAdmin)

	// the creator already holds the owner seat
	_, err := fixture.service.InviteToOrganization(
		context.Background(), superAdmin,
		&invitations_dto.InviteToOrganizationRequestDTO{
			OrganizationID: organization.ID,
			Email:          freshEmail("second-owner"),
			Role:           string(organizations_enums.OrganizationRoleOwner),
		},
	)
	assert.True(t, apperrors.IsConflict(err))
}

func Test_OwnerInvite_OnVacantSeat(t *testing.T) {
	fixture := newInvitationFixture()
	superAdmin, _ := users_testing.CreateTestSuperAdmin("Seat Filler")
	organization := createOrganizationWithoutOwner(t, superAdmin)

	request := &invitations_dto.InviteToOrganizationRequestDTO{
		OrganizationID: organization.ID,
		Email:          freshEmail("first-owner"),
		Role:           string(organizations_enums.OrganizationRoleOwner),
	}

	response, err := fixture.service.InviteToOrganization(
		context.Background(), superAdmin, request,
	)
	require.NoError(t, err)
	assert.NotEmpty(t, response.Token)

	// a second owner invitation for another address is blocked while the
	// first one is pending
	request.Email = freshEmail("competing-owner")

	_, err = fixture.service.InviteToOrganization(context.Background(), superAdmin, request)
	assert.True(t, apperrors.IsConflict(err))
}

func Test_ChangeWorkspaceMemberRole_SyncsPendingInvitation(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Sync Inviter")
	invitee, _ := users_testing.CreateTestUser("Sync Invitee")
	organization := organizations_testing.CreateTestOrganization("Sync Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Sync Workspace", organization, owner)

	response, err := fixture.service.InviteToWorkspace(
		context.Background(), owner,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       invitee.Email,
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	require.NoError(t, err)

	err = fixture.service.ChangeWorkspaceMemberRole(owner,
		&invitations_dto.ChangeWorkspaceMemberRoleRequestDTO{
			WorkspaceID: workspace.ID,
			UserID:      invitee.ID,
			Role:        string(workspaces_enums.WorkspaceRoleAdmin),
		},
	)
	require.NoError(t, err)

	invitation, err := invitations_repositories.GetInvitationRepository().
		GetByToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, string(workspaces_enums.WorkspaceRoleAdmin), invitation.Role)

	membership, err := workspaces_repositories.GetMembershipRepository().
		GetMembership(invitee.ID, workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, workspaces_enums.WorkspaceRoleAdmin, membership.Role)
	assert.Equal(t, workspaces_enums.WorkspaceMembershipStatusPending, membership.Status)
}

func Test_ChangeWorkspaceMemberRole_CannotDemoteOnlyOwner(t *testing.T) {
	fixture := newInvitationFixture()
	superAdmin, _ := users_testing.CreateTestSuperAdmin("Demoting Admin")
	owner, _ := users_testing.CreateTestUser("Sole Owner")
	organization := organizations_testing.CreateTestOrganization("Demote Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Demote Workspace", organization, owner)

	err := fixture.service.ChangeWorkspaceMemberRole(superAdmin,
		&invitations_dto.ChangeWorkspaceMemberRoleRequestDTO{
			WorkspaceID: workspace.ID,
			UserID:      owner.ID,
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	assert.True(t, apperrors.IsValidation(err))
}

func Test_ChangeWorkspaceMemberRole_OwnerChangesNeedOrgManager(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Org Head Owner")
	admin, _ := users_testing.CreateTestUser("Workspace Only Admin")
	member, _ := users_testing.CreateTestUser("Promotable Member")
	organization := organizations_testing.CreateTestOrganization("Seat Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Seat Workspace", organization, owner)

	// the admin manages the workspace but is a plain organization member
	addOrganizationMembership(
		t, admin.ID, organization.ID,
		organizations_enums.OrganizationRoleMember,
		organizations_enums.OrganizationMembershipStatusActive,
	)
	addWorkspaceMembership(t, admin.ID, workspace.ID, workspaces_enums.WorkspaceRoleAdmin)
	addWorkspaceMembership(t, member.ID, workspace.ID, workspaces_enums.WorkspaceRoleMember)

	// handing out the owner seat is out of a workspace admin's reach
	err := fixture.service.ChangeWorkspaceMemberRole(admin,
		&invitations_dto.ChangeWorkspaceMemberRoleRequestDTO{
			WorkspaceID: workspace.ID,
			UserID:      member.ID,
			Role:        string(workspaces_enums.WorkspaceRoleOwner),
		},
	)
	assert.True(t, apperrors.IsForbidden(err))

	// and so is taking it away
	err = fixture.service.ChangeWorkspaceMemberRole(admin,
		&invitations_dto.ChangeWorkspaceMemberRoleRequestDTO{
			WorkspaceID: workspace.ID,
			UserID:      owner.ID,
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	assert.True(t, apperrors.IsForbidden(err))
}

func Test_ChangeWorkspaceMemberRole_DeclinedMemberLocked(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Locked Inviter")
	invitee, _ := users_testing.CreateTestUser("Declined Invitee")
	organization := organizations_testing.CreateTestOrganization("Locked Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Locked Workspace", organization, owner)

	response, err := fixture.service.InviteToWorkspace(
		context.Background(), owner,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       invitee.Email,
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	require.NoError(t, err)

	require.NoError(t, fixture.service.RespondToInvitation(invitee, response.Token, false))

	err = fixture.service.ChangeWorkspaceMemberRole(owner,
		&invitations_dto.ChangeWorkspaceMemberRoleRequestDTO{
			WorkspaceID: workspace.ID,
			UserID:      invitee.ID,
			Role:        string(workspaces_enums.WorkspaceRoleAdmin),
		},
	)
	assert.True(t, apperrors.IsValidation(err))
}

func Test_ChangeWorkspaceMemberRole_SecondOwnerBlocked(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Standing Owner")
	member, _ := users_testing.CreateTestUser("Promoted Member")
	organization := organizations_testing.CreateTestOrganization("Promote Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Promote Workspace", organization, owner)

	addWorkspaceMembership(t, member.ID, workspace.ID, workspaces_enums.WorkspaceRoleMember)

	err := fixture.service.ChangeWorkspaceMemberRole(owner,
		&invitations_dto.ChangeWorkspaceMemberRoleRequestDTO{
			WorkspaceID: workspace.ID,
			UserID:      member.ID,
			Role:        string(workspaces_enums.WorkspaceRoleOwner),
		},
	)
	assert.True(t, apperrors.IsConflict(err))
}

func Test_ChangeWorkspaceMemberRole_OwnRoleNeedsOrgManager(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Self Role Owner")
	admin, _ := users_testing.CreateTestUser("Self Changer")
	organization := organizations_testing.CreateTestOrganization("Self Role Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Self Role Workspace", organization, owner)

	addOrganizationMembership(
		t, admin.ID, organization.ID,
		organizations_enums.OrganizationRoleMember,
		organizations_enums.OrganizationMembershipStatusActive,
	)
	addWorkspaceMembership(t, admin.ID, workspace.ID, workspaces_enums.WorkspaceRoleAdmin)

	// a workspace admin who is a plain organization member cannot touch
	// their own role
	err := fixture.service.ChangeWorkspaceMemberRole(admin,
		&invitations_dto.ChangeWorkspaceMemberRoleRequestDTO{
			WorkspaceID: workspace.ID,
			UserID:      admin.ID,
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	assert.True(t, apperrors.IsForbidden(err))

	// an organization admin may step down from their own workspace role
	colleague, _ := users_testing.CreateTestUser("Stepping Down")
	addOrganizationMembership(
		t, colleague.ID, organization.ID,
		organizations_enums.OrganizationRoleAdmin,
		organizations_enums.OrganizationMembershipStatusActive,
	)
	addWorkspaceMembership(t, colleague.ID, workspace.ID, workspaces_enums.WorkspaceRoleAdmin)

	err = fixture.service.ChangeWorkspaceMemberRole(colleague,
		&invitations_dto.ChangeWorkspaceMemberRoleRequestDTO{
			WorkspaceID: workspace.ID,
			UserID:      colleague.ID,
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	require.NoError(t, err)

	membership, err := workspaces_repositories.GetMembershipRepository().
		GetMembership(colleague.ID, workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, workspaces_enums.WorkspaceRoleMember, membership.Role)
}

func Test_RemoveWorkspaceMember_Saga(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Removal Owner")
	target, _ := users_testing.CreateTestUser("Removed Admin")
	bystander, _ := users_testing.CreateTestUser("Invited Bystander")
	organization := organizations_testing.CreateTestOrganization("Removal Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Removal Workspace", organization, owner)

	addWorkspaceMembership(t, target.ID, workspace.ID, workspaces_enums.WorkspaceRoleAdmin)

	// the target owns a site and has a pending invitation outstanding
	siteRepository := sites_repositories.GetSiteRepository()
	site := &sites_models.Site{
		WorkspaceID: workspace.ID,
		CreatedBy:   target.ID,
		URL:         "https://removed-admin.example.com",
	}
	require.NoError(t, siteRepository.CreateSite(site))

	pendingInvite, err := fixture.service.InviteToWorkspace(
		context.Background(), target,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       bystander.Email,
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	require.NoError(t, err)

	err = fixture.service.RemoveWorkspaceMember(owner,
		&invitations_dto.RemoveWorkspaceMemberRequestDTO{
			WorkspaceID: workspace.ID,
			UserID:      target.ID,
		},
	)
	require.NoError(t, err)

	workspaceMembershipRepository := workspaces_repositories.GetMembershipRepository()

	membership, err := workspaceMembershipRepository.GetMembership(target.ID, workspace.ID)
	require.NoError(t, err)
	assert.Nil(t, membership)

	removedSite, err := siteRepository.GetSiteByID(site.ID)
	require.NoError(t, err)
	assert.Nil(t, removedSite)

	// the invitation the target issued is withdrawn with its membership row
	invitation, err := invitations_repositories.GetInvitationRepository().
		GetByToken(pendingInvite.Token)
	require.NoError(t, err)
	assert.Nil(t, invitation)

	bystanderMembership, err := workspaceMembershipRepository.
		GetMembership(bystander.ID, workspace.ID)
	require.NoError(t, err)
	assert.Nil(t, bystanderMembership)
}

func Test_RemoveWorkspaceMember_LastOwnerBlocked(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Last Owner")
	admin, _ := users_testing.CreateTestUser("Coup Admin")
	organization := organizations_testing.CreateTestOrganization("Coup Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Coup Workspace", organization, owner)

	addWorkspaceMembership(t, admin.ID, workspace.ID, workspaces_enums.WorkspaceRoleAdmin)

	err := fixture.service.RemoveWorkspaceMember(admin,
		&invitations_dto.RemoveWorkspaceMemberRequestDTO{
			WorkspaceID: workspace.ID,
			UserID:      owner.ID,
		},
	)
	assert.True(t, apperrors.IsForbidden(err))
}

func Test_RemoveWorkspaceMember_InviterCanRemovePendingInvitee(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Standing By Owner")
	scout, _ := users_testing.CreateTestUser("Demoted Scout")
	invitee, _ := users_testing.CreateTestUser("Scouted Invitee")
	organization := organizations_testing.CreateTestOrganization("Scout Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Scout Workspace", organization, owner)

	addWorkspaceMembership(t, scout.ID, workspace.ID, workspaces_enums.WorkspaceRoleAdmin)

	response, err := fixture.service.InviteToWorkspace(
		context.Background(), scout,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       invitee.Email,
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)

	// the scout loses the admin role but keeps the right to withdraw the
	// member they invited
	memberRole := workspaces_enums.WorkspaceRoleMember
	require.NoError(t, workspaces_repositories.GetMembershipRepository().
		UpdateRoleAndStatus(workspace.ID, scout.ID, &memberRole, nil))

	err = fixture.service.RemoveWorkspaceMember(scout,
		&invitations_dto.RemoveWorkspaceMemberRequestDTO{
			WorkspaceID: workspace.ID,
			UserID:      invitee.ID,
		},
	)
	require.NoError(t, err)

	membership, err := workspaces_repositories.GetMembershipRepository().
		GetMembership(invitee.ID, workspace.ID)
	require.NoError(t, err)
	assert.Nil(t, membership)
}

func Test_RemoveWorkspaceMember_InviterCannotRemoveManagers(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Anchor Owner")
	scout, _ := users_testing.CreateTestUser("Overreaching Scout")
	invitee, _ := users_testing.CreateTestUser("Admin Invitee")
	organization := organizations_testing.CreateTestOrganization("Anchor Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Anchor Workspace", organization, owner)

	addWorkspaceMembership(t, scout.ID, workspace.ID, workspaces_enums.WorkspaceRoleAdmin)

	_, err := fixture.service.InviteToWorkspace(
		context.Background(), scout,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       invitee.Email,
			Role:        string(workspaces_enums.WorkspaceRoleAdmin),
		},
	)
	require.NoError(t, err)

	memberRole := workspaces_enums.WorkspaceRoleMember
	require.NoError(t, workspaces_repositories.GetMembershipRepository().
		UpdateRoleAndStatus(workspace.ID, scout.ID, &memberRole, nil))

	err = fixture.service.RemoveWorkspaceMember(scout,
		&invitations_dto.RemoveWorkspaceMemberRequestDTO{
			WorkspaceID: workspace.ID,
			UserID:      invitee.ID,
		},
	)
	assert.True(t, apperrors.IsForbidden(err))
}

func Test_RemoveInvitation(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Withdraw Owner")
	invitee, _ := users_testing.CreateTestUser("Withdrawn Invitee")
	organization := organizations_testing.CreateTestOrganization("Withdraw Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Withdraw Workspace", organization, owner)

	response, err := fixture.service.InviteToWorkspace(
		context.Background(), owner,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       invitee.Email,
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	require.NoError(t, err)

	err = fixture.service.RemoveInvitation(owner, response.InvitationID)
	require.NoError(t, err)

	invitation, err := invitations_repositories.GetInvitationRepository().
		GetByToken(response.Token)
	require.NoError(t, err)
	assert.Nil(t, invitation)

	membership, err := workspaces_repositories.GetMembershipRepository().
		GetMembership(invitee.ID, workspace.ID)
	require.NoError(t, err)
	assert.Nil(t, membership)
}

func Test_RemoveInvitation_NonManagerForbidden(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Guard Owner")
	member, _ := users_testing.CreateTestUser("Guard Member")
	organization := organizations_testing.CreateTestOrganization("Guard Org", owner)
	workspace := workspaces_testing.CreateTestWorkspace("Guard Workspace", organization, owner)

	addWorkspaceMembership(t, member.ID, workspace.ID, workspaces_enums.WorkspaceRoleMember)

	response, err := fixture.service.InviteToWorkspace(
		context.Background(), owner,
		&invitations_dto.InviteToWorkspaceRequestDTO{
			WorkspaceID: workspace.ID,
			Email:       freshEmail("guarded"),
			Role:        string(workspaces_enums.WorkspaceRoleMember),
		},
	)
	require.NoError(t, err)

	err = fixture.service.RemoveInvitation(member, response.InvitationID)
	assert.True(t, apperrors.IsForbidden(err))
}

func Test_RemoveInvitation_SuperAdminBypass(t *testing.T) {
	fixture := newInvitationFixture()
	superAdmin, _ := users_testing.CreateTestSuperAdmin("Sweeping Admin")
	owner, _ := users_testing.CreateTestUser("Swept Owner")
	organization := organizations_testing.CreateTestOrganization("Swept Org", owner)

	response, err := fixture.service.InviteToOrganization(
		context.Background(), owner,
		&invitations_dto.InviteToOrganizationRequestDTO{
			OrganizationID: organization.ID,
			Email:          freshEmail("swept"),
			Role:           string(organizations_enums.OrganizationRoleMember),
		},
	)
	require.NoError(t, err)

	// the super admin holds no membership in this organization
	err = fixture.service.RemoveInvitation(superAdmin, response.InvitationID)
	require.NoError(t, err)

	invitation, err := invitations_repositories.GetInvitationRepository().
		GetByToken(response.Token)
	require.NoError(t, err)
	assert.Nil(t, invitation)
}

func Test_RemoveInvitation_InviterCanWithdrawOwn(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Withdrawing Head")
	admin, _ := users_testing.CreateTestUser("Withdrawing Admin")
	organization := organizations_testing.CreateTestOrganization("Own Invite Org", owner)

	addOrganizationMembership(
		t, admin.ID, organization.ID,
		organizations_enums.OrganizationRoleAdmin,
		organizations_enums.OrganizationMembershipStatusActive,
	)

	response, err := fixture.service.InviteToOrganization(
		context.Background(), admin,
		&invitations_dto.InviteToOrganizationRequestDTO{
			OrganizationID: organization.ID,
			Email:          freshEmail("own-invite"),
			Role:           string(organizations_enums.OrganizationRoleMember),
		},
	)
	require.NoError(t, err)

	// demoted since, but still the inviter
	memberRole := organizations_enums.OrganizationRoleMember
	require.NoError(t, organizations_repositories.GetMembershipRepository().
		UpdateRoleAndStatus(organization.ID, admin.ID, &memberRole, nil))

	err = fixture.service.RemoveInvitation(admin, response.InvitationID)
	require.NoError(t, err)

	invitation, err := invitations_repositories.GetInvitationRepository().
		GetByToken(response.Token)
	require.NoError(t, err)
	assert.Nil(t, invitation)
}

func Test_ListOrganizationInvitations_ManagerOnly(t *testing.T) {
	fixture := newInvitationFixture()
	owner, _ := users_testing.CreateTestUser("Lister Owner")
	member, _ := users_testing.CreateTestUser("Lister Member")
	organization := organizations_testing.CreateTestOrganization("Lister Org", owner)

	addOrganizationMembership(
		t, member.ID, organization.ID,
		organizations_enums.OrganizationRoleMember,
		organizations_enums.OrganizationMembershipStatusActive,
	)

	email := freshEmail("listed")

	_, err := fixture.service.InviteToOrganization(
		context.Background(), owner,
		&invitations_dto.InviteToOrganizationRequestDTO{
			OrganizationID: organization.ID,
			Email:          email,
			Role:           string(organizations_enums.OrganizationRoleMember),
		},
	)
	require.NoError(t, err)

	response, err := fixture.service.ListOrganizationInvitations(owner, organization.ID)
	require.NoError(t, err)
	require.Len(t, response.Invitations, 1)
	assert.Equal(t, email, response.Invitations[0].Email)
	assert.Equal(t, owner.Name, response.Invitations[0].InvitedByName)

	_, err = fixture.service.ListOrganizationInvitations(member, organization.ID)
	assert.True(t, apperrors.IsForbidden(err))
}

func addOrganizationMembership(
	t *testing.T,
	userID, organizationID uuid.UUID,
	role organizations_enums.OrganizationRole,
	status organizations_enums.OrganizationMembershipStatus,
) {
	t.Helper()

	err := organizations_repositories.GetMembershipRepository().CreateMembership(
		&organizations_models.OrganizationMembership{
			UserID:         userID,
			OrganizationID: organizationID,
			Role:           role,
			Status:         status,
		},
	)
	require.NoError(t, err)
}

func addWorkspaceMembership(
	t *testing.T,
	userID, workspaceID uuid.UUID,
	role workspaces_enums.WorkspaceRole,
) {
	t.Helper()

	err := workspaces_repositories.GetMembershipRepository().CreateMembership(
		&workspaces_models.WorkspaceMembership{
			UserID:      userID,
			WorkspaceID: workspaceID,
			Role:        role,
			Status:      workspaces_enums.WorkspaceMembershipStatusActive,
		},
	)
	require.NoError(t, err)
}

// createOrganizationWithoutOwner seeds an organization whose owner seat is
// vacant, with the given user as an active admin.
func createOrganizationWithoutOwner(
	t *testing.T,
	admin *users_models.User,
) *organizations_models.Organization {
	t.Helper()

	organization := &organizations_models.Organization{
		ID:     uuid.New(),
		Name:   "Ownerless Org",
		Domain: fmt.Sprintf("ownerless-%s.example.com", uuid.New().String()[:8]),
	}

	err := organizations_repositories.GetOrganizationRepository().
		CreateOrganization(organization)
	require.NoError(t, err)

	addOrganizationMembership(
		t, admin.ID, organization.ID,
		organizations_enums.OrganizationRoleAdmin,
		organizations_enums.OrganizationMembershipStatusActive,
	)

	return organization
}
