package seed

import (
	"fmt"
	"log"
	"time"

	"hayai/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// SkipBcrypt stores the demo password in plaintext for fast bulk
	// seeding. Never use outside local development.
	SkipBcrypt bool
	// MaxDays spreads seeded post timestamps over this many days back.
	MaxDays int
}

// DemoAccount is a permanent built-in account. Demo accounts occupy the
// ID range below the user ID sequence start, so registration never
// collides with them.
type DemoAccount struct {
	ID          uint
	Username    string
	DisplayName string
	Role        models.UserRole
	Bio         string
}

// DemoAccounts defines the fixed accounts every environment gets.
var DemoAccounts = []DemoAccount{
	{ID: 1, Username: "hayai", DisplayName: "HayAI", Role: models.RoleAdmin, Bio: "Resmi HayAI hesabı."},
	{ID: 2, Username: "guest", DisplayName: "Misafir", Role: models.RoleChild, Bio: "Keşfetmek için misafir hesabı."},
	{ID: 3, Username: "luna_art", DisplayName: "Luna", Role: models.RoleChild, Bio: "Kedileri çizmeyi seviyorum 🐱"},
	{ID: 4, Username: "pixelbaran", DisplayName: "Baran", Role: models.RoleChild, Bio: "Uzay ve roket çizimleri 🚀"},
	{ID: 5, Username: "selincreates", DisplayName: "Selin", Role: models.RoleChild, Bio: "Rengarenk dünyalar 🎨"},
}

// EnsureDemoAccounts upserts the fixed demo accounts. Safe to run on
// every startup.
func EnsureDemoAccounts(db *gorm.DB) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, acct := range DemoAccounts {
		user := models.User{
			ID:              acct.ID,
			Username:        acct.Username,
			Email:           fmt.Sprintf("%s@hayai.app", acct.Username),
			Password:        string(hashedPassword),
			DisplayName:     acct.DisplayName,
			Bio:             acct.Bio,
			Role:            acct.Role,
			TermsAccepted:   true,
			TermsAcceptedAt: &now,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&user).Error
		if err != nil {
			return fmt.Errorf("ensure demo account %s: %w", acct.Username, err)
		}
	}
	return nil
}

// Seed populates the database with demo data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	if err := EnsureDemoAccounts(db); err != nil {
		return fmt.Errorf("failed to create demo accounts: %w", err)
	}
	log.Printf("✓ %d demo accounts ensured", len(DemoAccounts))

	factory := NewFactory(db, opts)

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	posts, err := createPosts(factory, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if err := createSocialMesh(factory, users, posts); err != nil {
		return fmt.Errorf("failed to create likes/comments/follows: %w", err)
	}
	log.Println("✓ social mesh created")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, follows, posts, users, sequence_counters RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create seed user: %v", err)
			continue
		}
		users = append(users, user)
		logProgress("users", i, 100)
	}
	return users, nil
}

func createPosts(factory *Factory, users []*models.User, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := users[factory.rng.Intn(len(users))]

		// Roughly: most posts published, some private, a few still
		// pending and the odd rejection.
		var post *models.Post
		var err error
		switch roll := factory.rng.Float32(); {
		case roll < 0.65:
			post, err = factory.CreateDrawingPost(user)
		case roll < 0.85:
			post, err = factory.CreateDrawingPost(user, Private)
		case roll < 0.95:
			post, err = factory.CreateDrawingPost(user, Pending)
		default:
			post, err = factory.CreateDrawingPost(user, Rejected)
		}
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
		logProgress("posts", i, 100)
	}
	return posts, nil
}

// createSocialMesh adds likes, preset comments and follow edges between
// the seeded users. Only interactable posts receive interactions.
func createSocialMesh(factory *Factory, users []*models.User, posts []*models.Post) error {
	if len(users) == 0 {
		return nil
	}

	for _, post := range posts {
		if !post.Interactable() || post.Visibility != models.VisibilityPublic {
			continue
		}
		likers := factory.rng.Intn(5)
		for i := 0; i < likers; i++ {
			user := users[factory.rng.Intn(len(users))]
			if err := factory.CreateLike(user, post); err != nil {
				return err
			}
		}
		if factory.rng.Float32() < 0.4 {
			user := users[factory.rng.Intn(len(users))]
			if _, err := factory.CreateComment(user, post); err != nil {
				return err
			}
		}
	}

	for _, user := range users {
		follows := factory.rng.Intn(4)
		for i := 0; i < follows; i++ {
			other := users[factory.rng.Intn(len(users))]
			if err := factory.CreateFollow(user, other); err != nil {
				return err
			}
		}
	}

	return nil
}
