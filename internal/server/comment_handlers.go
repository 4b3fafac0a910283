package server

import (
	"errors"

	"photoshare/internal/models"
	"photoshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Text string `json:"text"`
}

// CreateComment runs the sentiment filter and persists the comment when it
// passes. A rejected comment returns success=false and stores nothing.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return mapServiceError(c, err)
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	comment, err := s.commentService.Create(c.UserContext(), service.CreateCommentInput{
		PhotoID: id,
		UserID:  currentUserID(c),
		Text:    req.Text,
	})
	if err != nil {
		if errors.Is(err, service.ErrCommentRejected) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success": false,
				"error":   "comment rejected by sentiment moderation",
			})
		}
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"sentiment": comment.Sentiment,
		"comment":   comment,
	})
}
