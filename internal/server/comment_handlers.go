package server

import (
	"moim/internal/models"
	"moim/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content"`
}

type commentPageResponse struct {
	Comments   []*models.Comment `json:"comments"`
	NextCursor int               `json:"next_cursor"`
}

// CreateComment handles POST /api/feeds/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	feedID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req commentRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:  userID,
		FeedID:  feedID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(comment)
}

// GetComments handles GET /api/feeds/:id/comments?cursor=
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()
	feedID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, next, err := s.commentService.ListComments(ctx, feedID, parseCursor(c))
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(commentPageResponse{Comments: comments, NextCursor: next})
}

// UpdateComment handles PUT /api/feeds/:id/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	if _, err := s.parseID(c, "id"); err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req commentRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(ctx, service.UpdateCommentInput{
		UserID:    userID,
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/feeds/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	if _, err := s.parseID(c, "id"); err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if _, err := s.commentService.DeleteComment(ctx, service.DeleteCommentInput{
		UserID:    userID,
		CommentID: commentID,
	}); err != nil {
		return models.RespondAppError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
