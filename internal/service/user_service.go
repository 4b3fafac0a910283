package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/repository"
	"photoshare/internal/storage"
	"photoshare/internal/validation"
)

// UserService handles accounts, profiles and the follow graph.
type UserService struct {
	users   repository.UserRepository
	photos  repository.PhotoRepository
	storage storage.Backend
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, photos repository.PhotoRepository, backend storage.Backend) *UserService {
	return &UserService{users: users, photos: photos, storage: backend}
}

// RegisterInput carries a signup request.
type RegisterInput struct {
	Username string
	Password string
	Role     string
}

// Register creates an account. The role is fixed at signup and later logins
// must present the same one.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if !models.ValidRole(role) {
		return nil, models.NewValidationError("role must be creator or consumer")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: username, Password: string(hash), Role: models.Role(role)}
	if err := s.users.Create(ctx, user); err != nil {
		if isDuplicateKey(err) {
			return nil, models.NewValidationError("username is already taken")
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Driver-specific fallbacks: sqlite and postgres phrase it differently.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// Login checks credentials and the declared role. An account registered as a
// consumer cannot log in as a creator, and vice versa.
func (s *UserService) Login(ctx context.Context, username, password, role string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		// Identical response for unknown user and bad password.
		return nil, models.NewUnauthorizedError("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("invalid credentials")
	}
	if models.Role(strings.ToLower(strings.TrimSpace(role))) != user.Role {
		return nil, models.NewUnauthorizedError("role does not match this account")
	}
	return user, nil
}

// Profile is everything the profile page shows for one user.
type Profile struct {
	User   *models.User    `json:"user"`
	Photos []*models.Photo `json:"photos"`
	Liked  []*models.Photo `json:"liked"`
	Saved  []*models.Photo `json:"saved"`
	// Following reports whether the viewing user follows this profile.
	Following bool `json:"following"`
}

// GetProfile assembles a profile page: the user, their uploads, and their
// liked and saved collections.
func (s *UserService) GetProfile(ctx context.Context, username string, currentUserID uint) (*Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user", username)
		}
		return nil, models.NewInternalError(err)
	}

	photos, err := s.photos.ListByUser(ctx, user.ID, 60, 0, currentUserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	liked, err := s.photos.ListLikedBy(ctx, user.ID, 60, 0)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	saved, err := s.photos.ListSavedBy(ctx, user.ID, 60, 0)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	following := false
	if currentUserID != 0 && currentUserID != user.ID {
		following, err = s.users.IsFollowing(ctx, currentUserID, user.ID)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	return &Profile{User: user, Photos: photos, Liked: liked, Saved: saved, Following: following}, nil
}

// GetByID returns one user.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user", id)
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// UpdateProfileInput carries a profile edit. Avatar is optional.
type UpdateProfileInput struct {
	UserID     uint
	Bio        string
	AvatarName string
	Avatar     []byte
}

// UpdateProfile sets the bio and, when an avatar file was sent, runs it
// through the image pipeline and stores it.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if err := validation.ValidateBio(in.Bio); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, models.NewNotFoundError("user", in.UserID)
	}
	user.Bio = strings.TrimSpace(in.Bio)

	if len(in.Avatar) > 0 {
		if s.storage == nil {
			return nil, models.NewStorageError("no storage configured", storage.ErrNotConfigured)
		}
		processed, err := ProcessAvatar(in.Avatar)
		if err != nil {
			return nil, models.NewValidationError("avatar is not a supported image")
		}
		locator, err := s.storage.Put(ctx, uploadName(in.AvatarName, time.Now(), ".jpg"), "image/jpeg", processed.JPEG)
		if err != nil {
			return nil, models.NewStorageError("failed to store avatar", err)
		}
		if user.Avatar != "" {
			if err := s.storage.Delete(ctx, user.Avatar); err != nil {
				middleware.Logger.WarnContext(ctx, "old avatar cleanup failed",
					slog.String("locator", user.Avatar), slog.String("error", err.Error()))
			}
		}
		user.Avatar = locator
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// FollowToggle follows the named user, or unfollows when already following.
// It returns the new state.
func (s *UserService) FollowToggle(ctx context.Context, followerID uint, username string) (bool, error) {
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, models.NewNotFoundError("user", username)
		}
		return false, models.NewInternalError(err)
	}
	if target.ID == followerID {
		return false, models.NewValidationError("you cannot follow yourself")
	}

	following, err := s.users.IsFollowing(ctx, followerID, target.ID)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if following {
		if err := s.users.Unfollow(ctx, followerID, target.ID); err != nil {
			return false, models.NewInternalError(err)
		}
		return false, nil
	}
	if err := s.users.Follow(ctx, followerID, target.ID); err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}
