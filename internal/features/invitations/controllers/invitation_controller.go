package invitations_controllers

import (
	"net/http"

	invitations_dto "accessly-backend/internal/features/invitations/dto"
	invitations_services "accessly-backend/internal/features/invitations/services"
	users_middleware "accessly-backend/internal/features/users/middleware"
	"accessly-backend/internal/util/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InvitationController struct {
	invitationService *invitations_services.InvitationService
}

// RegisterPublicRoutes mounts the endpoints reachable without a token. Verify
// runs behind the optional auth middleware so a signed-in caller gets the
// email-match check.
func (c *InvitationController) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/invitations/verify", c.VerifyInvitation)
}

func (c *InvitationController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/invitations/organization", c.InviteToOrganization)
	router.POST("/invitations/workspace", c.InviteToWorkspace)
	router.POST("/invitations/respond", c.RespondToInvitation)
	router.DELETE("/invitations/:id", c.RemoveInvitation)
	router.GET("/invitations", c.ListInvitations)
	router.POST("/workspaces/members/role", c.ChangeWorkspaceMemberRole)
	router.POST("/workspaces/members/remove", c.RemoveWorkspaceMember)
}

// InviteToOrganization
// @Summary Invite a user to an organization
// @Description Issue an organization-level invitation, superseding any pending one for the same address
// @Tags invitations
// @Accept json
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param request body invitations_dto.InviteToOrganizationRequestDTO true "Invitation data"
// @Success 200 {object} invitations_dto.InviteResponseDTO
// @Failure 400
// @Failure 401
// @Failure 403
// @Failure 409
// @Router /invitations/organization [post]
func (c *InvitationController) InviteToOrganization(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request invitations_dto.InviteToOrganizationRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := c.invitationService.InviteToOrganization(ctx.Request.Context(), user, &request)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// InviteToWorkspace
// @Summary Invite a user to a workspace
// @Description Issue a workspace-level invitation; an existing account gets a pending membership row right away
// @Tags invitations
// @Accept json
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param request body invitations_dto.InviteToWorkspaceRequestDTO true "Invitation data"
// @Success 200 {object} invitations_dto.InviteResponseDTO
// @Failure 400
// @Failure 401
// @Failure 403
// @Failure 409
// @Router /invitations/workspace [post]
func (c *InvitationController) InviteToWorkspace(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request invitations_dto.InviteToWorkspaceRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := c.invitationService.InviteToWorkspace(ctx.Request.Context(), user, &request)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// VerifyInvitation
// @Summary Verify an invitation token
// @Description Resolve a token for the invitation landing page; stale invitations expire on first sight
// @Tags invitations
// @Produce json
// @Param token query string true "Invitation token"
// @Success 200 {object} invitations_dto.VerifyInvitationResponseDTO
// @Failure 400
// @Failure 403
// @Failure 404
// @Failure 410
// @Router /invitations/verify [get]
func (c *InvitationController) VerifyInvitation(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	// optional auth: the user is set when a valid token was supplied
	user, _ := users_middleware.GetUserFromContext(ctx)

	response, err := c.invitationService.VerifyInvitation(token, user)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// RespondToInvitation
// @Summary Accept or decline an invitation
// @Tags invitations
// @Accept json
// @Param Authorization header string true "JWT token"
// @Param request body invitations_dto.RespondToInvitationRequestDTO true "Token and decision"
// @Success 204
// @Failure 400
// @Failure 401
// @Failure 403
// @Failure 404
// @Failure 410
// @Router /invitations/respond [post]
func (c *InvitationController) RespondToInvitation(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request invitations_dto.RespondToInvitationRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := c.invitationService.RespondToInvitation(user, request.Token, request.Accept)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// RemoveInvitation
// @Summary Withdraw a pending invitation
// @Tags invitations
// @Param Authorization header string true "JWT token"
// @Param id path string true "Invitation ID"
// @Success 204
// @Failure 401
// @Failure 403
// @Failure 404
// @Router /invitations/{id} [delete]
func (c *InvitationController) RemoveInvitation(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	invitationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid invitation ID"})
		return
	}

	if err := c.invitationService.RemoveInvitation(user, invitationID); err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListInvitations
// @Summary List an organization's invitations
// @Tags invitations
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param organization_id query string true "Organization ID"
// @Success 200 {object} invitations_dto.ListInvitationsResponseDTO
// @Failure 400
// @Failure 401
// @Failure 403
// @Router /invitations [get]
func (c *InvitationController) ListInvitations(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	organizationID, err := uuid.Parse(ctx.Query("organization_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "organization_id is required"})
		return
	}

	response, err := c.invitationService.ListOrganizationInvitations(user, organizationID)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// ChangeWorkspaceMemberRole
// @Summary Change a workspace member's role
// @Description Update the member's role; a pending member's invitation is kept in sync
// @Tags invitations
// @Accept json
// @Param Authorization header string true "JWT token"
// @Param request body invitations_dto.ChangeWorkspaceMemberRoleRequestDTO true "Target member and new role"
// @Success 204
// @Failure 400
// @Failure 401
// @Failure 403
// @Failure 404
// @Failure 409
// @Router /workspaces/members/role [post]
func (c *InvitationController) ChangeWorkspaceMemberRole(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request invitations_dto.ChangeWorkspaceMemberRoleRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.invitationService.ChangeWorkspaceMemberRole(user, &request); err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// RemoveWorkspaceMember
// @Summary Remove a member from a workspace
// @Description Remove the member together with their sites and the pending invitations they issued
// @Tags invitations
// @Accept json
// @Param Authorization header string true "JWT token"
// @Param request body invitations_dto.RemoveWorkspaceMemberRequestDTO true "Target member"
// @Success 204
// @Failure 400
// @Failure 401
// @Failure 403
// @Failure 404
// @Router /workspaces/members/remove [post]
func (c *InvitationController) RemoveWorkspaceMember(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request invitations_dto.RemoveWorkspaceMemberRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.invitationService.RemoveWorkspaceMember(user, &request); err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}
