package server

import (
	"yatube/internal/access"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetGroups lists all groups.
func (s *Server) GetGroups(c *fiber.Ctx) error {
	actor := s.optionalActor(c)
	if err := access.Authorize(actor, access.ActionList, access.ResourceGroup, 0); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	groups, err := s.groupRepo.List(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(toGroupDTOs(groups))
}

// GetGroup returns a single group by ID.
func (s *Server) GetGroup(c *fiber.Ctx) error {
	actor := s.optionalActor(c)
	if err := access.Authorize(actor, access.ActionRetrieve, access.ResourceGroup, 0); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	id, err := parseID(c, "id", "Group")
	if err != nil {
		return nil
	}

	group, err := s.groupRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(toGroupDTO(group))
}
