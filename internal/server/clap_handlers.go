package server

import (
	"moim/internal/models"

	"github.com/gofiber/fiber/v2"
)

type clappersResponse struct {
	Clappers []uint `json:"clappers"`
	Count    int    `json:"count"`
}

// ToggleFeedClap handles POST /api/feeds/:id/claps
func (s *Server) ToggleFeedClap(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	feedID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	clapped, err := s.clapService.ToggleFeedClap(ctx, userID, feedID)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(fiber.Map{"clapped": clapped})
}

// GetFeedClappers handles GET /api/feeds/:id/claps
func (s *Server) GetFeedClappers(c *fiber.Ctx) error {
	ctx := c.UserContext()
	feedID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ids, count, err := s.clapService.ListFeedClappers(ctx, feedID)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(clappersResponse{Clappers: ids, Count: count})
}

// ToggleCommentClap handles POST /api/comments/:id/claps
func (s *Server) ToggleCommentClap(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	clapped, err := s.clapService.ToggleCommentClap(ctx, userID, commentID)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(fiber.Map{"clapped": clapped})
}

// GetCommentClappers handles GET /api/comments/:id/claps
func (s *Server) GetCommentClappers(c *fiber.Ctx) error {
	ctx := c.UserContext()
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ids, count, err := s.clapService.ListCommentClappers(ctx, commentID)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(clappersResponse{Clappers: ids, Count: count})
}
