package handlers

import (
	"strconv"
	"strings"

	"foodgram/domain"
	"foodgram/pkg/follow"

	"github.com/gofiber/fiber/v2"
)

// viewerID is empty for anonymous requests.
func viewerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func viewerRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}

func parsePagination(c *fiber.Ctx) (domain.PaginationRequest, error) {
	p := domain.PaginationRequest{Page: 1, Limit: domain.DefaultPageLimit}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return p, domain.ErrInvalidPage
		}
		p.Page = page
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return p, domain.ErrInvalidLimit
		}
		p.Limit = min(limit, domain.MaxPageLimit)
	}

	return p, nil
}

// parseBoolFilter accepts 1/0/true/false; an absent value means false.
func parseBoolFilter(c *fiber.Ctx, key string) (bool, error) {
	switch strings.ToLower(c.Query(key)) {
	case "", "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, domain.ErrInvalidBoolean
	}
}

func parseRecipesLimit(c *fiber.Ctx) (int, error) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return follow.NoRecipesLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, domain.ErrInvalidRecipesLimit
	}
	return limit, nil
}

func queryList(c *fiber.Ctx, key string) []string {
	var values []string
	for _, v := range c.Context().QueryArgs().PeekMulti(key) {
		if s := strings.TrimSpace(string(v)); s != "" {
			values = append(values, s)
		}
	}
	return values
}
