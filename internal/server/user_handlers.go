package server

import (
	"io"

	"photoshare/internal/models"
	"photoshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Profile returns a user's page: the account, their uploads and their liked
// and saved collections.
func (s *Server) Profile(c *fiber.Ctx) error {
	profile, err := s.userService.GetProfile(c.UserContext(), c.Params("username"), currentUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(profile)
}

// FollowToggle follows the named user, or unfollows when already following.
func (s *Server) FollowToggle(c *fiber.Ctx) error {
	following, err := s.userService.FollowToggle(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"following": following,
	})
}

// EditProfilePage returns the caller's current profile for the edit form.
func (s *Server) EditProfilePage(c *fiber.Ctx) error {
	user, err := s.userService.GetByID(c.UserContext(), currentUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// EditProfile updates the caller's bio and, when a multipart avatar file is
// present, their avatar.
func (s *Server) EditProfile(c *fiber.Ctx) error {
	in := service.UpdateProfileInput{
		UserID: currentUserID(c),
		Bio:    c.FormValue("bio"),
	}

	if fileHeader, err := c.FormFile("avatar"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return mapServiceError(c, models.NewInternalError(err))
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return mapServiceError(c, models.NewInternalError(err))
		}
		in.Avatar = content
		in.AvatarName = fileHeader.Filename
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), in)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
