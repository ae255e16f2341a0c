package repository

import (
	"context"

	"yatube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	// ListByUser returns the follows owned by userID. A non-empty search
	// narrows results to follows whose target username contains the string,
	// case-insensitively.
	ListByUser(ctx context.Context, userID uint, search string) ([]*models.Follow, error)
	// CreateIfAbsent inserts the follow unless the (user, following) pair
	// already exists. The insert is a single conditional statement against
	// the pair's unique index, so two concurrent identical requests cannot
	// both succeed. Returns false when the pair was already present.
	CreateIfAbsent(ctx context.Context, follow *models.Follow) (bool, error)
}

// followRepository implements FollowRepository
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) ListByUser(ctx context.Context, userID uint, search string) ([]*models.Follow, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN users following ON following.id = follows.following_id").
		Where("follows.user_id = ?", userID).
		Preload("User").
		Preload("Following").
		Order("follows.id ASC")

	if search != "" {
		q = q.Where("LOWER(following.username) LIKE LOWER(?)", "%"+search+"%")
	}

	var follows []*models.Follow
	if err := q.Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}

func (r *followRepository) CreateIfAbsent(ctx context.Context, follow *models.Follow) (bool, error) {
	// INSERT ... ON CONFLICT DO NOTHING so the uniqueness check and the
	// insert are one atomic statement.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).
		Create(follow)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	// Load usernames for the response.
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Following").
		First(follow, follow.ID).Error; err != nil {
		return true, models.NewInternalError(err)
	}
	return true, nil
}
