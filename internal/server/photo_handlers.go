package server

import (
	"io"

	"photoshare/internal/models"
	"photoshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Feed returns photos newest first. The q query param does case-insensitive
// substring search over title, caption, location and creator username.
func (s *Server) Feed(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	photos, err := s.photoService.Feed(c.UserContext(), currentUserID(c), limit, offset, c.Query("q"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"photos": photos,
		"query":  c.Query("q"),
	})
}

// PhotoDetail returns a single photo with its comment thread.
func (s *Server) PhotoDetail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return mapServiceError(c, err)
	}

	photo, err := s.photoService.Get(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	comments, err := s.commentService.ListByPhoto(c.UserContext(), id)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"photo":    photo,
		"comments": comments,
	})
}

// UploadPage returns the creator's dashboard data: their recent uploads.
func (s *Server) UploadPage(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	userID := currentUserID(c)
	photos, err := s.photoService.ListByUser(c.UserContext(), userID, limit, offset, userID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"photos": photos})
}

// Upload accepts a multipart photo with its metadata and runs the full
// pipeline: analysis, re-encoding, storage, then the database row.
func (s *Server) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("photo file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return mapServiceError(c, models.NewInternalError(err))
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return mapServiceError(c, models.NewInternalError(err))
	}

	photo, err := s.photoService.Upload(c.UserContext(), service.UploadPhotoInput{
		UserID:   currentUserID(c),
		FileName: fileHeader.Filename,
		Content:  content,
		Title:    c.FormValue("title"),
		Caption:  c.FormValue("caption"),
		Location: c.FormValue("location"),
		People:   c.FormValue("people"),
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"photo":   photo,
	})
}

// DeletePhoto removes a photo; only its owner may do so.
func (s *Server) DeletePhoto(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return mapServiceError(c, err)
	}

	if err := s.photoService.Delete(c.UserContext(), id, currentUserID(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// ToggleLike flips the caller's like on a photo.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return mapServiceError(c, err)
	}

	liked, count, err := s.photoService.ToggleLike(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"liked": liked,
		"count": count,
	})
}

// ToggleSave flips the caller's save on a photo.
func (s *Server) ToggleSave(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return mapServiceError(c, err)
	}

	saved, count, err := s.photoService.ToggleSave(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"saved": saved,
		"count": count,
	})
}
