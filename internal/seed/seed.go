// Package seed populates the database with demo data for development
// environments. It writes through gorm directly rather than the HTTP API so
// it can build large meshes quickly.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"photoshare/internal/models"
	"photoshare/internal/service"
)

var (
	resolutionTags = []string{"HD ᴴᴰ", "SD"}
	lightingTags   = []string{"Bright ☀️", "Dark 🌙", "Neutral Lighting ☁️"}
	colorTags      = []string{"Warm Tone 🔴", "Cool Tone 🔵", "Balanced Color 🎨"}

	locations = []string{
		"Lisbon", "Kyoto", "Reykjavik", "Cape Town", "Oaxaca", "Hanoi",
		"Patagonia", "Lofoten", "Big Sur", "Dolomites", "Zanzibar", "Petra",
	}

	commentPool = []string{
		"I love this, what a wonderful shot!",
		"Absolutely beautiful composition.",
		"Great colors, really well done.",
		"This is amazing, keep it up!",
		"Stunning light in this one.",
		"Nice capture.",
		"Where was this taken?",
		"The framing here is interesting.",
		"Saw a similar view last summer.",
		"Not my favorite from this set.",
		"A bit too dark for my taste.",
		"The horizon looks slightly tilted.",
	}
)

// Seeder generates and persists demo data according to a Plan.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
	// nextUser de-duplicates generated usernames across batches.
	nextUser int
}

// NewSeeder creates a Seeder bound to the given database handle.
func NewSeeder(db *gorm.DB) *Seeder {
	src := time.Now().UnixNano()
	gofakeit.Seed(src)
	return &Seeder{db: db, rng: rand.New(rand.NewSource(src))}
}

// Run executes the plan: users first, then photos, then the engagement mesh.
func (s *Seeder) Run(plan Plan) error {
	if err := plan.validate(); err != nil {
		return err
	}
	if plan.Clean {
		if err := s.clean(); err != nil {
			return fmt.Errorf("clean existing data: %w", err)
		}
	}

	creators, consumers, err := s.seedUsers(plan)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Printf("seeded %d creators and %d consumers", len(creators), len(consumers))

	photos, err := s.seedPhotos(creators, plan.PhotosPerCreator)
	if err != nil {
		return fmt.Errorf("seed photos: %w", err)
	}
	log.Printf("seeded %d photos", len(photos))

	everyone := append(append([]models.User{}, creators...), consumers...)
	comments, err := s.seedComments(everyone, photos, plan.CommentsPerPhoto)
	if err != nil {
		return fmt.Errorf("seed comments: %w", err)
	}
	log.Printf("seeded %d comments", comments)

	likes, saves, err := s.seedMarks(everyone, photos, plan)
	if err != nil {
		return fmt.Errorf("seed likes and saves: %w", err)
	}
	log.Printf("seeded %d likes and %d saves", likes, saves)

	follows, err := s.seedFollows(everyone, plan.FollowsPerUser)
	if err != nil {
		return fmt.Errorf("seed follows: %w", err)
	}
	log.Printf("seeded %d follows", follows)

	return nil
}

// clean removes all seedable rows. Deletes run child-first so it works on
// both postgres and sqlite without relying on cascades.
func (s *Seeder) clean() error {
	for _, table := range []string{"comments", "likes", "saves", "followers", "photos", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) seedUsers(plan Plan) (creators, consumers []models.User, err error) {
	// One shared hash keeps seeding fast; every demo account gets the
	// plan password.
	hash, err := bcrypt.GenerateFromPassword([]byte(plan.Password), bcrypt.MinCost)
	if err != nil {
		return nil, nil, err
	}

	batch := func(role models.Role, n int) ([]models.User, error) {
		users := make([]models.User, 0, n)
		for i := 0; i < n; i++ {
			user := models.User{
				Username: s.username(),
				Password: string(hash),
				Role:     role,
				Bio:      gofakeit.Sentence(8),
			}
			if err := s.db.Create(&user).Error; err != nil {
				return nil, err
			}
			users = append(users, user)
		}
		return users, nil
	}

	if creators, err = batch(models.RoleCreator, plan.Creators); err != nil {
		return nil, nil, err
	}
	if consumers, err = batch(models.RoleConsumer, plan.Consumers); err != nil {
		return nil, nil, err
	}
	return creators, consumers, nil
}

// username builds a unique lowercase handle that passes the registration
// validation rules.
func (s *Seeder) username() string {
	base := strings.ToLower(gofakeit.Username())
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		}
		return -1
	}, base)
	base = strings.Trim(base, "._-")
	base = strings.TrimRight(base, "0123456789")
	if len(base) < 3 {
		base = "user"
	}
	if len(base) > 20 {
		base = base[:20]
	}
	s.nextUser++
	return fmt.Sprintf("%s%d", base, s.nextUser)
}

func (s *Seeder) seedPhotos(creators []models.User, perCreator int) ([]models.Photo, error) {
	photos := make([]models.Photo, 0, len(creators)*perCreator)
	for _, creator := range creators {
		for i := 0; i < perCreator; i++ {
			name := fmt.Sprintf("%s_%s.jpg", creator.Username, gofakeit.LetterN(6))
			photo := models.Photo{
				FileURL:       "/static/uploads/" + name,
				PreviewURL:    "/static/uploads/" + strings.TrimSuffix(name, ".jpg") + ".webp",
				Title:         gofakeit.HipsterSentence(3),
				Caption:       gofakeit.HipsterSentence(10),
				Location:      locations[s.rng.Intn(len(locations))],
				PeoplePresent: gofakeit.Name(),
				AutoTags:      s.tags(),
				UserID:        creator.ID,
				UploadedAt:    s.pastTime(),
			}
			if err := s.db.Create(&photo).Error; err != nil {
				return nil, err
			}
			photos = append(photos, photo)
		}
	}
	return photos, nil
}

// tags composes an auto-tag string the way the upload analyzer would.
func (s *Seeder) tags() string {
	parts := []string{
		resolutionTags[s.rng.Intn(len(resolutionTags))],
		lightingTags[s.rng.Intn(len(lightingTags))],
		colorTags[s.rng.Intn(len(colorTags))],
	}
	return strings.Join(parts, " | ")
}

func (s *Seeder) pastTime() time.Time {
	daysBack := s.rng.Intn(90)
	minsBack := s.rng.Intn(24 * 60)
	return time.Now().UTC().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(minsBack)*time.Minute)
}

// seedComments writes only comments the moderation gate would accept, so the
// seeded database looks like one built through the API.
func (s *Seeder) seedComments(users []models.User, photos []models.Photo, perPhoto int) (int, error) {
	total := 0
	for _, photo := range photos {
		for i := 0; i < perPhoto; i++ {
			text := commentPool[s.rng.Intn(len(commentPool))]
			score := service.Polarity(text)
			if service.Rejected(score) {
				continue
			}
			comment := models.Comment{
				Text:      text,
				Sentiment: service.SentimentLabel(score),
				UserID:    users[s.rng.Intn(len(users))].ID,
				PhotoID:   photo.ID,
				CreatedAt: s.pastTime(),
			}
			if err := s.db.Create(&comment).Error; err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}

func (s *Seeder) seedMarks(users []models.User, photos []models.Photo, plan Plan) (likes, saves int, err error) {
	for _, photo := range photos {
		for _, user := range users {
			if s.rng.Float64() < plan.LikeRate {
				like := models.Like{UserID: user.ID, PhotoID: photo.ID}
				if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
					return likes, saves, err
				}
				likes++
			}
			if s.rng.Float64() < plan.SaveRate {
				save := models.Save{UserID: user.ID, PhotoID: photo.ID}
				if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&save).Error; err != nil {
					return likes, saves, err
				}
				saves++
			}
		}
	}
	return likes, saves, nil
}

func (s *Seeder) seedFollows(users []models.User, perUser int) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}
	total := 0
	for _, follower := range users {
		for i := 0; i < perUser; i++ {
			followed := users[s.rng.Intn(len(users))]
			if followed.ID == follower.ID {
				continue
			}
			err := s.db.Exec(
				"INSERT INTO followers (follower_id, followed_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
				follower.ID, followed.ID,
			).Error
			if err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
