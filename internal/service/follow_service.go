package service

import (
	"context"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"
)

// FollowService provides follow-relationship business logic.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// List returns the acting user's follows, never another user's follow
// graph. search optionally narrows by target username substring.
func (s *FollowService) List(ctx context.Context, userID uint, search string) ([]*models.Follow, error) {
	return s.followRepo.ListByUser(ctx, userID, search)
}

// Create validates and stores a follow from the acting user to the user
// named by followingUsername. Checks run in a fixed order: field present,
// not self, target exists, pair not already present. The last check is the
// repository's atomic conditional insert, so concurrent duplicates cannot
// both commit.
func (s *FollowService) Create(ctx context.Context, userID uint, username string, followingUsername *string) (*models.Follow, error) {
	if followingUsername == nil || strings.TrimSpace(*followingUsername) == "" {
		return nil, models.NewValidationError("Field 'following' is required.")
	}
	if *followingUsername == username {
		return nil, models.NewValidationError("You cannot follow yourself.")
	}

	following, err := s.userRepo.GetByUsername(ctx, *followingUsername)
	if err != nil {
		return nil, err
	}

	follow := &models.Follow{
		UserID:      userID,
		FollowingID: following.ID,
	}
	created, err := s.followRepo.CreateIfAbsent(ctx, follow)
	if err != nil {
		return nil, err
	}
	if !created {
		middleware.FollowConflicts.Inc()
		return nil, models.NewValidationError("Already following this user.")
	}

	return follow, nil
}
