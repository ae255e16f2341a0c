package server

import (
	"yatube/internal/access"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowRequest carries the target username for a new follow.
type FollowRequest struct {
	Following *string `json:"following"`
}

// GetFollows lists the authenticated user's follows. The optional
// ?search= parameter filters by target username, case-insensitively.
func (s *Server) GetFollows(c *fiber.Ctx) error {
	actor := s.actor(c)
	if err := access.Authorize(actor, access.ActionList, access.ResourceFollow, 0); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	follows, err := s.followService.List(c.UserContext(), actor.ID, c.Query("search"))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(toFollowDTOs(follows))
}

// CreateFollow subscribes the authenticated user to another user.
func (s *Server) CreateFollow(c *fiber.Ctx) error {
	actor := s.actor(c)
	if err := access.Authorize(actor, access.ActionCreate, access.ResourceFollow, 0); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	var req FollowRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	follow, err := s.followService.Create(c.UserContext(), actor.ID, actor.Username, req.Following)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(toFollowDTO(follow))
}
