package organizations_controllers

import (
	"net/http"

	organizations_dto "accessly-backend/internal/features/organizations/dto"
	organizations_services "accessly-backend/internal/features/organizations/services"
	users_middleware "accessly-backend/internal/features/users/middleware"
	"accessly-backend/internal/util/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrganizationController struct {
	organizationService *organizations_services.OrganizationService
}

func (c *OrganizationController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/organizations", c.CreateOrganization)
	router.GET("/organizations", c.ListOrganizations)
	router.GET("/organizations/:id", c.GetOrganization)
	router.PUT("/organizations/:id", c.UpdateOrganization)
	router.DELETE("/organizations/:id", c.DeleteOrganization)
	router.GET("/organizations/:id/members", c.GetMembers)
	router.DELETE("/organizations/:id/members/:userId", c.RemoveMember)
	router.POST("/organizations/:id/current", c.SetCurrentOrganization)
	router.POST("/organizations/:id/current-workspace", c.SetCurrentWorkspace)
}

// CreateOrganization
// @Summary Create an organization
// @Description Create an organization; the creator becomes its owner
// @Tags organizations
// @Accept json
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param request body organizations_dto.CreateOrganizationRequestDTO true "Organization data"
// @Success 200 {object} organizations_models.Organization
// @Failure 400
// @Failure 401
// @Failure 409
// @Router /organizations [post]
func (c *OrganizationController) CreateOrganization(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request organizations_dto.CreateOrganizationRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	organization, err := c.organizationService.CreateOrganization(user, &request)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, organization)
}

// ListOrganizations
// @Summary List organizations
// @Description List the organizations the user belongs to
// @Tags organizations
// @Produce json
// @Param Authorization header string true "JWT token"
// @Success 200 {object} organizations_dto.ListOrganizationsResponseDTO
// @Failure 401
// @Router /organizations [get]
func (c *OrganizationController) ListOrganizations(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	response, err := c.organizationService.GetOrganizationsForUser(user)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetOrganization
// @Summary Get an organization
// @Tags organizations
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param id path string true "Organization ID"
// @Success 200 {object} organizations_models.Organization
// @Failure 401
// @Failure 403
// @Failure 404
// @Router /organizations/{id} [get]
func (c *OrganizationController) GetOrganization(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	organizationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization ID"})
		return
	}

	organization, err := c.organizationService.GetOrganization(user, organizationID)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, organization)
}

// UpdateOrganization
// @Summary Update an organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param id path string true "Organization ID"
// @Param request body organizations_dto.UpdateOrganizationRequestDTO true "Fields to update"
// @Success 200 {object} organizations_models.Organization
// @Failure 400
// @Failure 401
// @Failure 403
// @Failure 409
// @Router /organizations/{id} [put]
func (c *OrganizationController) UpdateOrganization(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	organizationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization ID"})
		return
	}

	var request organizations_dto.UpdateOrganizationRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	organization, err := c.organizationService.UpdateOrganization(user, organizationID, &request)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, organization)
}

// DeleteOrganization
// @Summary Delete an organization
// @Description Delete the organization with all its workspaces, memberships and invitations
// @Tags organizations
// @Param Authorization header string true "JWT token"
// @Param id path string true "Organization ID"
// @Success 204
// @Failure 401
// @Failure 403
// @Failure 404
// @Router /organizations/{id} [delete]
func (c *OrganizationController) DeleteOrganization(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	organizationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization ID"})
		return
	}

	if err := c.organizationService.DeleteOrganization(user, organizationID); err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// GetMembers
// @Summary List organization members
// @Tags organizations
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param id path string true "Organization ID"
// @Success 200 {object} organizations_dto.GetOrganizationMembersResponseDTO
// @Failure 401
// @Failure 403
// @Router /organizations/{id}/members [get]
func (c *OrganizationController) GetMembers(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	organizationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization ID"})
		return
	}

	response, err := c.organizationService.GetOrganizationMembers(user, organizationID)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// RemoveMember
// @Summary Remove a member from the organization
// @Description Remove the user with everything they own across the organization's workspaces
// @Tags organizations
// @Param Authorization header string true "JWT token"
// @Param id path string true "Organization ID"
// @Param userId path string true "User ID"
// @Success 204
// @Failure 400
// @Failure 401
// @Failure 403
// @Failure 404
// @Router /organizations/{id}/members/{userId} [delete]
func (c *OrganizationController) RemoveMember(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	organizationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization ID"})
		return
	}

	targetUserID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	err = c.organizationService.RemoveUserFromOrganization(user, organizationID, targetUserID)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// SetCurrentOrganization
// @Summary Switch the active organization
// @Tags organizations
// @Param Authorization header string true "JWT token"
// @Param id path string true "Organization ID"
// @Success 204
// @Failure 401
// @Failure 403
// @Router /organizations/{id}/current [post]
func (c *OrganizationController) SetCurrentOrganization(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	organizationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization ID"})
		return
	}

	if err := c.organizationService.SetCurrentOrganization(user, organizationID); err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// SetCurrentWorkspace
// @Summary Switch the active workspace
// @Tags organizations
// @Accept json
// @Param Authorization header string true "JWT token"
// @Param id path string true "Organization ID"
// @Param request body organizations_dto.SetCurrentWorkspaceRequestDTO true "Workspace"
// @Success 204
// @Failure 401
// @Failure 403
// @Failure 404
// @Router /organizations/{id}/current-workspace [post]
func (c *OrganizationController) SetCurrentWorkspace(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	organizationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization ID"})
		return
	}

	var request organizations_dto.SetCurrentWorkspaceRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = c.organizationService.SetCurrentWorkspace(user, organizationID, request.WorkspaceID)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}
