// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumComments int
	ShouldClean bool
}

var groupPresets = []struct {
	Title       string
	Description string
}{
	{"Technology", "Hardware, software and everything in between"},
	{"Books", "Reading recommendations and literary discussion"},
	{"Travel", "Trip reports and destination tips"},
	{"Music", "New releases, old favorites and live shows"},
	{"Food", "Recipes, restaurants and cooking experiments"},
	{"Science", "Research news and popular science"},
	{"Movies", "Film discussion and reviews"},
	{"Sports", "Match threads and training talk"},
}

// Seeder populates the database with fake data
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded rows in dependency order.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, table := range []string{"follows", "comments", "posts", "groups", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Run seeds the database with users, groups, posts, comments and follows.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.CreateUsers(opts.NumUsers)
	if err != nil {
		return err
	}

	groups, err := s.CreateGroups()
	if err != nil {
		return err
	}

	posts, err := s.CreatePosts(users, groups, opts.NumPosts)
	if err != nil {
		return err
	}

	if err := s.CreateComments(users, posts, opts.NumComments); err != nil {
		return err
	}

	if err := s.CreateFollows(users); err != nil {
		return err
	}

	log.Printf("Seeding complete: %d users, %d groups, %d posts",
		len(users), len(groups), len(posts))
	return nil
}

// CreateUsers creates n users with the shared development password "password123".
func (s *Seeder) CreateUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		user := &models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			Password: string(hashed),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", username, err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))
	return users, nil
}

// CreateGroups creates the fixed set of thematic groups.
func (s *Seeder) CreateGroups() ([]*models.Group, error) {
	groups := make([]*models.Group, 0, len(groupPresets))
	for _, preset := range groupPresets {
		group := &models.Group{
			Title:       preset.Title,
			Slug:        strings.ToLower(preset.Title),
			Description: preset.Description,
		}
		if err := s.db.Create(group).Error; err != nil {
			return nil, fmt.Errorf("failed to create group %s: %w", group.Slug, err)
		}
		groups = append(groups, group)
	}
	log.Printf("Created %d groups", len(groups))
	return groups, nil
}

// CreatePosts creates n posts spread across users, with roughly half
// assigned to a random group.
func (s *Seeder) CreatePosts(users []*models.User, groups []*models.Group, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("cannot create posts without users")
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		post := &models.Post{
			Text:   gofakeit.Paragraph(1, 3, 8, "\n"),
			UserID: author.ID,
		}
		if len(groups) > 0 && s.rand.Intn(2) == 0 {
			groupID := groups[s.rand.Intn(len(groups))].ID
			post.GroupID = &groupID
		}
		if err := s.db.Create(post).Error; err != nil {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
		// spread publication dates over the last 90 days
		pubDate := time.Now().Add(-time.Duration(s.rand.Intn(90*24)) * time.Hour)
		if err := s.db.Model(post).Update("pub_date", pubDate).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	log.Printf("Created %d posts", len(posts))
	return posts, nil
}

// CreateComments creates n comments on random posts by random users.
func (s *Seeder) CreateComments(users []*models.User, posts []*models.Post, n int) error {
	if len(posts) == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		comment := &models.Comment{
			PostID: posts[s.rand.Intn(len(posts))].ID,
			UserID: users[s.rand.Intn(len(users))].ID,
			Text:   gofakeit.Sentence(s.rand.Intn(12) + 3),
		}
		if err := s.db.Create(comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
	}
	log.Printf("Created %d comments", n)
	return nil
}

// CreateFollows gives each user a handful of subscriptions. Duplicate pairs
// and self-follows are skipped rather than retried, so the exact count
// varies run to run.
func (s *Seeder) CreateFollows(users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	created := 0
	for _, user := range users {
		for i := 0; i < s.rand.Intn(5); i++ {
			target := users[s.rand.Intn(len(users))]
			if target.ID == user.ID {
				continue
			}
			follow := &models.Follow{UserID: user.ID, FollowingID: target.ID}
			err := s.db.Where("user_id = ? AND following_id = ?", user.ID, target.ID).
				FirstOrCreate(follow).Error
			if err != nil {
				return fmt.Errorf("failed to create follow: %w", err)
			}
			created++
		}
	}
	log.Printf("Created up to %d follows", created)
	return nil
}
