package sites_services

import (
	"fmt"

	"accessly-backend/internal/features/access"
	sites_dto "accessly-backend/internal/features/sites/dto"
	sites_models "accessly-backend/internal/features/sites/models"
	sites_repositories "accessly-backend/internal/features/sites/repositories"
	users_models "accessly-backend/internal/features/users/models"
	workspaces_enums "accessly-backend/internal/features/workspaces/enums"
	workspaces_models "accessly-backend/internal/features/workspaces/models"
	workspaces_repositories "accessly-backend/internal/features/workspaces/repositories"
	"accessly-backend/internal/util/apperrors"

	"github.com/google/uuid"
)

type SiteService struct {
	siteRepository                *sites_repositories.SiteRepository
	workspaceMembershipRepository *workspaces_repositories.MembershipRepository
}

func NewSiteService(
	siteRepository *sites_repositories.SiteRepository,
	workspaceMembershipRepository *workspaces_repositories.MembershipRepository,
) *SiteService {
	return &SiteService{
		siteRepository:                siteRepository,
		workspaceMembershipRepository: workspaceMembershipRepository,
	}
}

func (s *SiteService) CreateSite(
	user *users_models.User,
	request *sites_dto.CreateSiteRequestDTO,
) (*sites_models.Site, error) {
	if _, err := s.requireActiveMembership(user, request.WorkspaceID); err != nil {
		return nil, err
	}

	site := &sites_models.Site{
		ID:          uuid.New(),
		WorkspaceID: request.WorkspaceID,
		CreatedBy:   user.ID,
		URL:         request.URL,
	}

	if err := s.siteRepository.CreateSite(site); err != nil {
		return nil, fmt.Errorf("failed to create site: %w", err)
	}

	return site, nil
}

func (s *SiteService) ListSites(
	user *users_models.User,
	workspaceID uuid.UUID,
) ([]*sites_models.Site, error) {
	if _, err := s.requireActiveMembership(user, workspaceID); err != nil {
		return nil, err
	}

	return s.siteRepository.ListByWorkspace(workspaceID)
}

// DeleteSite is allowed for the site's creator and for workspace managers.
func (s *SiteService) DeleteSite(
	user *users_models.User,
	siteID uuid.UUID,
) error {
	site, err := s.siteRepository.GetSiteByID(siteID)
	if err != nil {
		return fmt.Errorf("failed to get site: %w", err)
	}

	if site == nil {
		return apperrors.NewNotFound("site not found")
	}

	membership, err := s.requireActiveMembership(user, site.WorkspaceID)
	if err != nil {
		return err
	}

	if site.CreatedBy != user.ID && !access.CanManageWorkspace(membership.Role) {
		return apperrors.NewForbidden("only the creator or a workspace admin can delete a site")
	}

	return s.siteRepository.DeleteSite(siteID)
}

func (s *SiteService) requireActiveMembership(
	user *users_models.User,
	workspaceID uuid.UUID,
) (*workspaces_models.WorkspaceMembership, error) {
	membership, err := s.workspaceMembershipRepository.GetMembership(user.ID, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	if membership == nil ||
		membership.Status != workspaces_enums.WorkspaceMembershipStatusActive {
		return nil, apperrors.NewForbidden("user is not an active member of this workspace")
	}

	return membership, nil
}
