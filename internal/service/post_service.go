// Package service contains the business rules sitting between the HTTP
// handlers and the repositories: field validation, parent-resource
// resolution and the follow uniqueness flow. Ownership decisions live in
// the access package and are applied by the handlers.
package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// PostService provides post business logic.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
}

// PostInput carries the writable post fields. Pointers distinguish an
// absent field from an explicitly blank one.
type PostInput struct {
	Text  *string
	Group *uint
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
	}
}

// Get resolves a post by id.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// List returns a page of posts plus the total count for the pagination envelope.
func (s *PostService) List(ctx context.Context, limit, offset int) ([]*models.Post, int64, error) {
	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	posts, err := s.postRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Create validates the input and stores a new post authored by userID.
// The author is always the acting user; pub_date is set by the store.
func (s *PostService) Create(ctx context.Context, userID uint, in PostInput) (*models.Post, error) {
	if in.Text == nil || strings.TrimSpace(*in.Text) == "" {
		return nil, models.NewFieldValidationError("text", "Required field.")
	}
	if err := s.resolveGroup(ctx, in.Group); err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:    *in.Text,
		UserID:  userID,
		GroupID: in.Group,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// Update applies the provided fields to post. Absent fields keep their
// current values; author and pub_date are never touched. Callers must have
// verified ownership first.
func (s *PostService) Update(ctx context.Context, post *models.Post, in PostInput) (*models.Post, error) {
	if in.Text != nil && strings.TrimSpace(*in.Text) == "" {
		return nil, models.NewFieldValidationError("text", "Required field.")
	}
	if err := s.resolveGroup(ctx, in.Group); err != nil {
		return nil, err
	}

	if in.Text != nil {
		post.Text = *in.Text
	}
	if in.Group != nil {
		post.GroupID = in.Group
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// Delete removes the post. Callers must have verified ownership first.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	return s.postRepo.Delete(ctx, id)
}

func (s *PostService) resolveGroup(ctx context.Context, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
		return models.NewFieldValidationError("group", "Group does not exist.")
	}
	return nil
}
