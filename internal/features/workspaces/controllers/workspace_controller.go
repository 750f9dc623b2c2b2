package workspaces_controllers

import (
	"net/http"

	users_middleware "accessly-backend/internal/features/users/middleware"
	workspaces_dto "accessly-backend/internal/features/workspaces/dto"
	workspaces_services "accessly-backend/internal/features/workspaces/services"
	"accessly-backend/internal/util/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WorkspaceController struct {
	workspaceService *workspaces_services.WorkspaceService
}

func (c *WorkspaceController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/workspaces", c.CreateWorkspace)
	router.GET("/workspaces", c.ListWorkspaces)
	router.GET("/workspaces/:id", c.GetWorkspace)
	router.PUT("/workspaces/:id", c.UpdateWorkspace)
	router.DELETE("/workspaces/:id", c.DeleteWorkspace)
	router.GET("/workspaces/:id/members", c.GetMembers)
}

// CreateWorkspace
// @Summary Create a workspace
// @Description Create a workspace inside an organization; the creator becomes its owner
// @Tags workspaces
// @Accept json
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param request body workspaces_dto.CreateWorkspaceRequestDTO true "Workspace data"
// @Success 200 {object} workspaces_models.Workspace
// @Failure 400
// @Failure 401
// @Failure 403
// @Failure 409
// @Router /workspaces [post]
func (c *WorkspaceController) CreateWorkspace(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request workspaces_dto.CreateWorkspaceRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workspace, err := c.workspaceService.CreateWorkspace(user, &request)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, workspace)
}

// ListWorkspaces
// @Summary List workspaces
// @Description List the organization's workspaces the user is an active member of
// @Tags workspaces
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param organization_id query string true "Organization ID"
// @Success 200 {object} workspaces_dto.ListWorkspacesResponseDTO
// @Failure 400
// @Failure 401
// @Router /workspaces [get]
func (c *WorkspaceController) ListWorkspaces(ctx *gin.Context) {
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

	response, err := c.workspaceService.ListWorkspacesForUser(user, organizationID)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetWorkspace
// @Summary Get a workspace
// @Tags workspaces
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param id path string true "Workspace ID"
// @Success 200 {object} workspaces_models.Workspace
// @Failure 401
// @Failure 403
// @Failure 404
// @Router /workspaces/{id} [get]
func (c *WorkspaceController) GetWorkspace(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace ID"})
		return
	}

	workspace, err := c.workspaceService.GetWorkspace(user, workspaceID)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, workspace)
}

// UpdateWorkspace
// @Summary Rename a workspace
// @Description Rename the workspace; its alias is recomputed from the new name
// @Tags workspaces
// @Accept json
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param id path string true "Workspace ID"
// @Param request body workspaces_dto.UpdateWorkspaceRequestDTO true "New name"
// @Success 200 {object} workspaces_models.Workspace
// @Failure 400
// @Failure 401
// @Failure 403
// @Failure 409
// @Router /workspaces/{id} [put]
func (c *WorkspaceController) UpdateWorkspace(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace ID"})
		return
	}

	var request workspaces_dto.UpdateWorkspaceRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workspace, err := c.workspaceService.UpdateWorkspace(user, workspaceID, &request)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, workspace)
}

// DeleteWorkspace
// @Summary Delete a workspace
// @Description Delete the workspace with its memberships, invitations and sites
// @Tags workspaces
// @Param Authorization header string true "JWT token"
// @Param id path string true "Workspace ID"
// @Success 204
// @Failure 401
// @Failure 403
// @Failure 404
// @Router /workspaces/{id} [delete]
func (c *WorkspaceController) DeleteWorkspace(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace ID"})
		return
	}

	if err := c.workspaceService.DeleteWorkspace(user, workspaceID); err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// GetMembers
// @Summary List workspace members
// @Tags workspaces
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param id path string true "Workspace ID"
// @Success 200 {object} workspaces_dto.GetWorkspaceMembersResponseDTO
// @Failure 401
// @Failure 403
// @Router /workspaces/{id}/members [get]
func (c *WorkspaceController) GetMembers(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace ID"})
		return
	}

	response, err := c.workspaceService.GetWorkspaceMembers(user, workspaceID)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}
