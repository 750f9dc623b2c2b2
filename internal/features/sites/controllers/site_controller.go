package sites_controllers

import (
	"net/http"

	sites_dto "accessly-backend/internal/features/sites/dto"
	sites_services "accessly-backend/internal/features/sites/services"
	users_middleware "accessly-backend/internal/features/users/middleware"
	"accessly-backend/internal/util/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SiteController struct {
	siteService *sites_services.SiteService
}

func (c *SiteController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/sites", c.CreateSite)
	router.GET("/sites", c.ListSites)
	router.DELETE("/sites/:id", c.DeleteSite)
}

// CreateSite
// @Summary Add a site to a workspace
// @Tags sites
// @Accept json
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param request body sites_dto.CreateSiteRequestDTO true "Site data"
// @Success 200 {object} sites_models.Site
// @Failure 400
// @Failure 401
// @Failure 403
// @Router /sites [post]
func (c *SiteController) CreateSite(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request sites_dto.CreateSiteRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	site, err := c.siteService.CreateSite(user, &request)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, site)
}

// ListSites
// @Summary List a workspace's sites
// @Tags sites
// @Produce json
// @Param Authorization header string true "JWT token"
// @Param workspace_id query string true "Workspace ID"
// @Success 200 {array} sites_models.Site
// @Failure 400
// @Failure 401
// @Failure 403
// @Router /sites [get]
func (c *SiteController) ListSites(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspaceID, err := uuid.Parse(ctx.Query("workspace_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "workspace_id is required"})
		return
	}

	sites, err := c.siteService.ListSites(user, workspaceID)
	if err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, sites)
}

// DeleteSite
// @Summary Delete a site
// @Tags sites
// @Param Authorization header string true "JWT token"
// @Param id path string true "Site ID"
// @Success 204
// @Failure 401
// @Failure 403
// @Failure 404
// @Router /sites/{id} [delete]
func (c *SiteController) DeleteSite(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	siteID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid site ID"})
		return
	}

	if err := c.siteService.DeleteSite(user, siteID); err != nil {
		ctx.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}
