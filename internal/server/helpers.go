package server

import (
	"fmt"
	"strconv"

	"yatube/internal/access"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that the handler already wrote the error body.
var errResponseWritten = fmt.Errorf("response already written")

// parseID reads a positive integer route parameter. On failure it writes a
// 404 (unknown resource path segments behave like missing resources) and
// returns errResponseWritten.
func parseID(c *fiber.Ctx, param, resourceName string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(resourceName+" not found."))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// actor returns the authenticated actor stored by AuthRequired.
func (s *Server) actor(c *fiber.Ctx) *access.Actor {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return nil
	}
	username, _ := c.Locals("username").(string)
	return &access.Actor{ID: userID, Username: username}
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// parsePagination reads ?limit= and ?offset=, clamping bad values to the
// defaults rather than failing the request.
func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = defaultPageLimit
	offset = 0

	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// paginatedResponse is the list envelope: a total count plus absolute URLs
// for the neighboring pages, nil when there is no such page.
type paginatedResponse struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

func pageURL(c *fiber.Ctx, limit, offset int) *string {
	u := fmt.Sprintf("%s%s?limit=%d&offset=%d", c.BaseURL(), c.Path(), limit, offset)
	return &u
}

func paginate(c *fiber.Ctx, count int64, limit, offset int, results any) paginatedResponse {
	resp := paginatedResponse{Count: count, Results: results}
	if int64(offset+limit) < count {
		resp.Next = pageURL(c, limit, offset+limit)
	}
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		resp.Previous = pageURL(c, limit, prev)
	}
	return resp
}
