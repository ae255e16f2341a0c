package server

import (
	"yatube/internal/access"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CommentRequest carries the single writable comment field.
type CommentRequest struct {
	Text *string `json:"text"`
}

// GetComments returns every comment on a post, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	actor := s.actor(c)
	if err := access.Authorize(actor, access.ActionList, access.ResourceComment, 0); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	postID, err := parseID(c, "postId", "Post")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.List(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(toCommentDTOs(comments))
}

// GetComment returns a single comment scoped to its parent post.
func (s *Server) GetComment(c *fiber.Ctx) error {
	actor := s.actor(c)
	if err := access.Authorize(actor, access.ActionRetrieve, access.ResourceComment, 0); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	postID, err := parseID(c, "postId", "Post")
	if err != nil {
		return nil
	}
	id, err := parseID(c, "id", "Comment")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.Get(c.UserContext(), postID, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(toCommentDTO(comment))
}

// CreateComment adds a comment to a post, owned by the authenticated user.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	actor := s.actor(c)
	if err := access.Authorize(actor, access.ActionCreate, access.ResourceComment, 0); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	postID, err := parseID(c, "postId", "Post")
	if err != nil {
		return nil
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Create(c.UserContext(), actor.ID, postID, req.Text)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(toCommentDTO(comment))
}

// UpdateComment handles full updates; the text field is required.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	return s.updateComment(c, access.ActionUpdate, false)
}

// PartialUpdateComment handles partial updates; an absent text field leaves
// the comment unchanged.
func (s *Server) PartialUpdateComment(c *fiber.Ctx) error {
	return s.updateComment(c, access.ActionPartialUpdate, true)
}

func (s *Server) updateComment(c *fiber.Ctx, action access.Action, partial bool) error {
	postID, err := parseID(c, "postId", "Post")
	if err != nil {
		return nil
	}
	id, err := parseID(c, "id", "Comment")
	if err != nil {
		return nil
	}

	// Parent post first, then the comment, then ownership. A missing post
	// or comment is a 404 even for non-owners.
	comment, err := s.commentService.Get(c.UserContext(), postID, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	actor := s.actor(c)
	if err := access.Authorize(actor, action, access.ResourceComment, comment.UserID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.commentService.Update(c.UserContext(), comment, req.Text, partial)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(toCommentDTO(updated))
}

// DeleteComment removes a comment.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId", "Post")
	if err != nil {
		return nil
	}
	id, err := parseID(c, "id", "Comment")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.Get(c.UserContext(), postID, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	actor := s.actor(c)
	if err := access.Authorize(actor, access.ActionDelete, access.ResourceComment, comment.UserID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if err := s.commentService.Delete(c.UserContext(), comment); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
