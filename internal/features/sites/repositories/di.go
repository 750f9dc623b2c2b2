package sites_repositories

import "accessly-backend/internal/storage"

var siteRepository = NewSiteRepository(storage.GetDb())

func GetSiteRepository() *SiteRepository {
	return siteRepository
}
