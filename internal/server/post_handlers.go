package server

import (
	"yatube/internal/access"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PostRequest carries the writable post fields. Pointer fields distinguish
// an absent field from an explicitly blank one.
type PostRequest struct {
	Text  *string `json:"text"`
	Group *uint   `json:"group"`
}

// GetPosts returns a paginated page of posts, newest first.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	actor := s.optionalActor(c)
	if err := access.Authorize(actor, access.ActionList, access.ResourcePost, 0); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	limit, offset := parsePagination(c)
	posts, total, err := s.postService.List(c.UserContext(), limit, offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(paginate(c, total, limit, offset, toPostDTOs(posts)))
}

// GetPost returns a single post by ID.
func (s *Server) GetPost(c *fiber.Ctx) error {
	actor := s.optionalActor(c)
	if err := access.Authorize(actor, access.ActionRetrieve, access.ResourcePost, 0); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	id, err := parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(toPostDTO(post))
}

// CreatePost creates a post owned by the authenticated user.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	actor := s.actor(c)
	if err := access.Authorize(actor, access.ActionCreate, access.ResourcePost, 0); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.UserContext(), actor.ID,
		service.PostInput{Text: req.Text, Group: req.Group})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(toPostDTO(post))
}

// UpdatePost handles full updates. Author and publication date never change,
// so a full update accepts the same payload as a partial one.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	return s.updatePost(c, access.ActionUpdate)
}

// PartialUpdatePost handles partial updates.
func (s *Server) PartialUpdatePost(c *fiber.Ctx) error {
	return s.updatePost(c, access.ActionPartialUpdate)
}

func (s *Server) updatePost(c *fiber.Ctx, action access.Action) error {
	id, err := parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	// Existence before ownership: an unknown post is a 404 regardless of
	// who asks.
	post, err := s.postService.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	actor := s.actor(c)
	if err := access.Authorize(actor, action, access.ResourcePost, post.UserID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.postService.Update(c.UserContext(), post,
		service.PostInput{Text: req.Text, Group: req.Group})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(toPostDTO(updated))
}

// DeletePost removes a post and its comments.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	actor := s.actor(c)
	if err := access.Authorize(actor, access.ActionDelete, access.ResourcePost, post.UserID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if err := s.postService.Delete(c.UserContext(), post.ID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
