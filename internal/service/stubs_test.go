package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"photoshare/internal/models"
)

// fakePhotoRepo is an in-memory PhotoRepository for service tests.
type fakePhotoRepo struct {
	photos    map[uint]*models.Photo
	likes     map[[2]uint]bool
	saves     map[[2]uint]bool
	nextID    uint
	createErr error
	deleteErr error
	getErr    error
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{
		photos: map[uint]*models.Photo{},
		likes:  map[[2]uint]bool{},
		saves:  map[[2]uint]bool{},
		nextID: 1,
	}
}

func (f *fakePhotoRepo) Create(_ context.Context, photo *models.Photo) error {
	if f.createErr != nil {
		return f.createErr
	}
	photo.ID = f.nextID
	f.nextID++
	f.photos[photo.ID] = photo
	return nil
}

func (f *fakePhotoRepo) GetByID(_ context.Context, id uint, _ uint) (*models.Photo, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	photo, ok := f.photos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return photo, nil
}

func (f *fakePhotoRepo) List(_ context.Context, _, _ int, _ uint, _ string) ([]*models.Photo, error) {
	out := make([]*models.Photo, 0, len(f.photos))
	for _, p := range f.photos {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePhotoRepo) ListByUser(_ context.Context, userID uint, _, _ int, _ uint) ([]*models.Photo, error) {
	var out []*models.Photo
	for _, p := range f.photos {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePhotoRepo) ListSavedBy(context.Context, uint, int, int) ([]*models.Photo, error) {
	return nil, nil
}

func (f *fakePhotoRepo) ListLikedBy(context.Context, uint, int, int) ([]*models.Photo, error) {
	return nil, nil
}

func (f *fakePhotoRepo) Delete(_ context.Context, id uint) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.photos, id)
	return nil
}

func (f *fakePhotoRepo) ToggleLike(_ context.Context, userID, photoID uint) (bool, int64, error) {
	key := [2]uint{userID, photoID}
	f.likes[key] = !f.likes[key]
	var count int64
	for k, on := range f.likes {
		if on && k[1] == photoID {
			count++
		}
	}
	return f.likes[key], count, nil
}

func (f *fakePhotoRepo) ToggleSave(_ context.Context, userID, photoID uint) (bool, int64, error) {
	key := [2]uint{userID, photoID}
	f.saves[key] = !f.saves[key]
	var count int64
	for k, on := range f.saves {
		if on && k[1] == photoID {
			count++
		}
	}
	return f.saves[key], count, nil
}

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	users   map[uint]*models.User
	follows map[[2]uint]bool
	nextID  uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}, follows: map[[2]uint]bool{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return errors.New("UNIQUE constraint failed: users.username")
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Follow(_ context.Context, followerID, followedID uint) error {
	f.follows[[2]uint{followerID, followedID}] = true
	return nil
}

func (f *fakeUserRepo) Unfollow(_ context.Context, followerID, followedID uint) error {
	delete(f.follows, [2]uint{followerID, followedID})
	return nil
}

func (f *fakeUserRepo) IsFollowing(_ context.Context, followerID, followedID uint) (bool, error) {
	return f.follows[[2]uint{followerID, followedID}], nil
}

// fakeCommentRepo is an in-memory CommentRepository for service tests.
type fakeCommentRepo struct {
	comments []*models.Comment
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	comment.ID = uint(len(f.comments) + 1)
	f.comments = append(f.comments, comment)
	return nil
}

func (f *fakeCommentRepo) ListByPhoto(_ context.Context, photoID uint) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range f.comments {
		if c.PhotoID == photoID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) CountByPhoto(_ context.Context, photoID uint) (int64, error) {
	var n int64
	for _, c := range f.comments {
		if c.PhotoID == photoID {
			n++
		}
	}
	return n, nil
}

// memStorage is an in-memory storage.Backend.
type memStorage struct {
	objects   map[string][]byte
	putErr    error
	deleteErr error
	deleted   []string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Put(_ context.Context, name string, _ string, data []byte) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	m.objects[name] = data
	return "/static/uploads/" + name, nil
}

func (m *memStorage) Delete(_ context.Context, locator string) error {
	m.deleted = append(m.deleted, locator)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for name := range m.objects {
		if locator == "/static/uploads/"+name {
			delete(m.objects, name)
			return nil
		}
	}
	return fmt.Errorf("unknown locator %q", locator)
}

func (m *memStorage) Kind() string { return "memory" }
