package sites_controllers

import (
	sites_services "accessly-backend/internal/features/sites/services"
)

var siteController = &SiteController{
	sites_services.GetSiteService(),
}

func GetSiteController() *SiteController {
	return siteController
}
