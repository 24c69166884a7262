// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumBlogs    int
	ShouldClean bool
}

var topicPool = []string{
	"go", "databases", "writing", "travel", "food", "photography",
	"music", "fitness", "philosophy", "startups", "devops", "design",
	"history", "science", "gardening", "books",
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d blogs...", opts.NumUsers, opts.NumBlogs)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
	}

	f := NewFactory(db)

	users, err := f.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}

	blogs, err := f.CreateBlogs(users, opts.NumBlogs)
	if err != nil {
		return fmt.Errorf("failed to create blogs: %w", err)
	}

	if err := f.CreateComments(users, blogs); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}

	if err := f.CreateEngagement(users, blogs); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	log.Printf("Seeding complete: %d users, %d blogs", len(users), len(blogs))
	return nil
}

func clearData(db *gorm.DB) error {
	// Relation rows first, then content, then users.
	tables := []string{
		"likes", "saves", "follows", "topic_selections",
		"comments", "blogs",
		"verification_tokens", "password_reset_tokens", "accounts", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

// Factory creates realistic records for development databases.
type Factory struct {
	db *gorm.DB
}

func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db}
}

// CreateUser builds and persists one user. All seeded users share the
// password "password123" and arrive verified.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Username:        gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:           gofakeit.Email(),
		Password:        string(hashed),
		Role:            models.RoleUser,
		Bio:             gofakeit.Sentence(10),
		Avatar:          fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		EmailVerifiedAt: &now,
	}
	for _, o := range overrides {
		o(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (f *Factory) CreateUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

// CreateBlog builds and persists one blog for the given author.
// Roughly one in four seeded blogs stays a draft.
func (f *Factory) CreateBlog(author *models.User, overrides ...func(*models.Blog)) (*models.Blog, error) {
	blog := &models.Blog{
		Title:    gofakeit.Sentence(5),
		Content:  gofakeit.Paragraph(3, 5, 12, "\n\n"),
		AuthorID: author.ID,
		Topics:   randomTopics(),
		Publish:  gofakeit.Number(0, 3) > 0,
		Views:    int64(gofakeit.Number(0, 5000)),
	}
	if gofakeit.Bool() {
		blog.Image = fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID())
	}
	for _, o := range overrides {
		o(blog)
	}

	if err := f.db.Create(blog).Error; err != nil {
		return nil, err
	}
	return blog, nil
}

func (f *Factory) CreateBlogs(users []models.User, count int) ([]models.Blog, error) {
	if len(users) == 0 {
		return nil, nil
	}
	blogs := make([]models.Blog, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		blog, err := f.CreateBlog(&author)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *blog)
	}
	return blogs, nil
}

// CreateComments scatters top-level comments and one level of replies over
// the published blogs.
func (f *Factory) CreateComments(users []models.User, blogs []models.Blog) error {
	if len(users) == 0 {
		return nil
	}
	for _, blog := range blogs {
		if !blog.Publish {
			continue
		}
		for i := 0; i < gofakeit.Number(0, 5); i++ {
			commenter := users[rand.Intn(len(users))]
			comment := &models.Comment{
				Content: gofakeit.Sentence(gofakeit.Number(5, 20)),
				UserID:  commenter.ID,
				BlogID:  blog.ID,
			}
			if err := f.db.Create(comment).Error; err != nil {
				return err
			}

			for j := 0; j < gofakeit.Number(0, 2); j++ {
				replier := users[rand.Intn(len(users))]
				reply := &models.Comment{
					Content:         gofakeit.Sentence(gofakeit.Number(3, 12)),
					UserID:          replier.ID,
					BlogID:          blog.ID,
					ParentCommentID: &comment.ID,
				}
				if err := f.db.Create(reply).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// CreateEngagement wires a mesh of likes, saves, and follows between the
// seeded users and blogs.
func (f *Factory) CreateEngagement(users []models.User, blogs []models.Blog) error {
	for _, user := range users {
		for _, blog := range blogs {
			if !blog.Publish {
				continue
			}
			if gofakeit.Number(0, 3) == 0 {
				like := &models.Like{UserID: user.ID, BlogID: blog.ID}
				if err := f.db.Create(like).Error; err != nil {
					return err
				}
			}
			if gofakeit.Number(0, 7) == 0 {
				save := &models.Save{UserID: user.ID, BlogID: blog.ID}
				if err := f.db.Create(save).Error; err != nil {
					return err
				}
			}
		}

		for _, other := range users {
			if other.ID == user.ID {
				continue
			}
			if gofakeit.Number(0, 4) == 0 {
				follow := &models.Follow{FollowerID: user.ID, FollowingID: other.ID}
				if err := f.db.Create(follow).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func randomTopics() []string {
	count := gofakeit.Number(1, 3)
	picked := make([]string, 0, count)
	seen := map[string]bool{}
	for len(picked) < count {
		topic := topicPool[rand.Intn(len(topicPool))]
		if seen[topic] {
			continue
		}
		seen[topic] = true
		picked = append(picked, topic)
	}
	return picked
}
