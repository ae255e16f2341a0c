package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// CommentService provides comment business logic. Every operation resolves
// the parent post before anything else; a comment is never reachable
// through a post it does not belong to.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// List returns all comments of the post in creation order.
func (s *CommentService) List(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// Get resolves a comment through its parent post. The post is checked
// first so a bad post id yields "Post not found." even when the comment
// id is valid elsewhere.
func (s *CommentService) Get(ctx context.Context, postID, id uint) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetForPost(ctx, id, postID)
}

// Create validates and stores a comment authored by userID under postID.
func (s *CommentService) Create(ctx context.Context, userID, postID uint, text *string) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if text == nil || strings.TrimSpace(*text) == "" {
		return nil, models.NewFieldValidationError("text", "Required field.")
	}

	comment := &models.Comment{
		Text:   *text,
		UserID: userID,
		PostID: postID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Update writes a new text to the comment. Full updates require the field;
// partial updates only validate it when present. Callers must have
// resolved the comment via Get and verified ownership.
func (s *CommentService) Update(ctx context.Context, comment *models.Comment, text *string, partial bool) (*models.Comment, error) {
	if !partial && (text == nil || strings.TrimSpace(*text) == "") {
		return nil, models.NewFieldValidationError("text", "Required field.")
	}
	if partial {
		if text == nil {
			return comment, nil
		}
		if strings.TrimSpace(*text) == "" {
			return nil, models.NewFieldValidationError("text", "Required field.")
		}
	}

	comment.Text = *text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes the comment. Callers must have verified ownership first.
func (s *CommentService) Delete(ctx context.Context, comment *models.Comment) error {
	return s.commentRepo.Delete(ctx, comment.ID)
}
