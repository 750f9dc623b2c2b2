package sites_services

import (
	sites_repositories "accessly-backend/internal/features/sites/repositories"
	workspaces_repositories "accessly-backend/internal/features/workspaces/repositories"
)

var siteService = NewSiteService(
	sites_repositories.GetSiteRepository(),
	workspaces_repositories.GetMembershipRepository(),
)

func GetSiteService() *SiteService {
	return siteService
}
