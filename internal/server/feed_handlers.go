package server

import (
	"moim/internal/models"
	"moim/internal/service"

	"github.com/gofiber/fiber/v2"
)

type feedRequest struct {
	Kind      string   `json:"kind"`
	Content   string   `json:"content"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	Address   string   `json:"address,omitempty"`
	PlaceName string   `json:"place_name,omitempty"`
	Tags      []string `json:"tags"`
}

type feedPageResponse struct {
	Feeds      []*models.Feed `json:"feeds"`
	NextCursor int            `json:"next_cursor"`
}

// GetFeeds handles GET /api/feeds?cursor=
// With ?author=me it returns only the authenticated requester's feeds.
func (s *Server) GetFeeds(c *fiber.Ctx) error {
	ctx := c.UserContext()
	cursor := parseCursor(c)
	userID, authed := s.optionalUserID(c)

	var (
		feeds []*models.Feed
		next  int
		err   error
	)
	if c.Query("author") == "me" {
		if !authed {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required to list your own feeds"))
		}
		feeds, next, err = s.feedService.ListFeedsByUser(ctx, userID, cursor, userID)
	} else {
		feeds, next, err = s.feedService.ListFeeds(ctx, cursor, userID)
	}
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(feedPageResponse{Feeds: feeds, NextCursor: next})
}

// GetFeed handles GET /api/feeds/:id
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	feed, err := s.feedService.GetFeed(ctx, id, userID)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(feed)
}

// CreateFeed handles POST /api/feeds
func (s *Server) CreateFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req feedRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	feed, err := s.feedService.CreateFeed(ctx, service.CreateFeedInput{
		UserID:    userID,
		Kind:      req.Kind,
		Content:   req.Content,
		Lat:       req.Lat,
		Lng:       req.Lng,
		Address:   req.Address,
		PlaceName: req.PlaceName,
		Tags:      req.Tags,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(feed)
}

// UpdateFeed handles PUT /api/feeds/:id
func (s *Server) UpdateFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	feedID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req feedRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	feed, err := s.feedService.UpdateFeed(ctx, service.UpdateFeedInput{
		UserID:    userID,
		FeedID:    feedID,
		Content:   req.Content,
		Lat:       req.Lat,
		Lng:       req.Lng,
		Address:   req.Address,
		PlaceName: req.PlaceName,
		Tags:      req.Tags,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(feed)
}

// DeleteFeed handles DELETE /api/feeds/:id
func (s *Server) DeleteFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	feedID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.feedService.DeleteFeed(ctx, service.DeleteFeedInput{
		UserID: userID,
		FeedID: feedID,
	}); err != nil {
		return models.RespondAppError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
