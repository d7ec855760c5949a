// Package seed provides helpers to create demo and development data for
// the application database. These helpers are intended for development
// and testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"hayai/internal/catalog"
	"hayai/internal/models"
	"hayai/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db        *gorm.DB
	opts      Options
	rng       *rand.Rand
	sequences repository.SequenceRepository
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		//nolint:gosec // Weak random number generator is fine for seeding
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		sequences: repository.NewSequenceRepository(db),
	}
}

// CreateUser constructs and persists a sample `models.User`. IDs come
// from the user ID sequence unless an override sets one explicitly.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999))
	user := &models.User{
		Username:    username,
		Email:       gofakeit.Email(),
		DisplayName: gofakeit.Name(),
		Bio:         gofakeit.Sentence(8),
		Role:        models.RoleChild,
		Interests:   []string{gofakeit.Noun(), gofakeit.Noun()},
	}
	now := time.Now()
	user.TermsAccepted = true
	user.TermsAcceptedAt = &now

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if user.ID == 0 {
		id, err := f.nextUserID()
		if err != nil {
			return nil, err
		}
		user.ID = id
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// nextUserID mints from the same sequence the registration path uses so
// seeded users never collide with accounts created through the API.
func (f *Factory) nextUserID() (uint, error) {
	value, err := f.sequences.Next(context.Background(),
		repository.UserIDSequence, repository.UserIDStart)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

// CreateDrawingPost constructs and persists a post for the given user.
// By default it looks like a finished transform: approved, public, with
// a style from the catalog and plausible media URLs.
func (f *Factory) CreateDrawingPost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	styles := catalog.Styles()
	style := styles[f.rng.Intn(len(styles)-1)] // skip the reserved rejection style

	originalSeed := gofakeit.UUID()
	post := &models.Post{
		ImageID:             uuid.NewString(),
		UserID:              user.ID,
		Kind:                models.KindOriginal,
		Status:              models.StatusApproved,
		Visibility:          models.VisibilityPublic,
		Style:               style,
		OriginalFilename:    gofakeit.Word() + ".png",
		OriginalURL:         fmt.Sprintf("https://picsum.photos/seed/%s/800/800", originalSeed),
		OriginalObjectID:    "originals/" + originalSeed + ".png",
		TransformedURL:      fmt.Sprintf("https://picsum.photos/seed/t-%s/800/800", originalSeed),
		TransformedObjectID: "improved/" + originalSeed + ".png",
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// Pending marks a seeded post as still waiting for its transform.
func Pending(post *models.Post) {
	post.Status = models.StatusPendingTransform
	post.Visibility = models.VisibilityPrivate
	post.Style = ""
	post.TransformedURL = ""
	post.TransformedObjectID = ""
}

// Rejected marks a seeded post as a failed moderation outcome. Rejected
// posts keep the original image refs and stay private.
func Rejected(post *models.Post) {
	post.Status = models.StatusRejected
	post.Visibility = models.VisibilityPrivate
	post.Style = catalog.StyleTestRejected
	post.TransformedURL = post.OriginalURL
	post.TransformedObjectID = post.OriginalObjectID
}

// Private keeps a post approved but visible only to its owner.
func Private(post *models.Post) {
	post.Visibility = models.VisibilityPrivate
}

// CreateComment persists a preset comment on the provided post authored
// by the provided user.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	presets := catalog.PresetComments()
	preset := presets[f.rng.Intn(len(presets))]

	comment := &models.Comment{
		CommentID:   uuid.NewString(),
		PostID:      post.ID,
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarName:  user.AvatarName,
		PresetID:    preset.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from `user` on `post`, ignoring duplicates.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	return f.db.Exec(`
		INSERT INTO likes (user_id, post_id, created_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, post_id) DO NOTHING`,
		user.ID, post.ID,
	).Error
}

// CreateFollow persists a follow edge, ignoring duplicates and self-loops.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	if follower.ID == followee.ID {
		return nil
	}
	return f.db.Exec(`
		INSERT INTO follows (follower_id, following_id, created_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (follower_id, following_id) DO NOTHING`,
		follower.ID, followee.ID,
	).Error
}

// logProgress prints a progress line every `every` items.
func logProgress(kind string, i, every int) {
	if i > 0 && i%every == 0 {
		log.Printf("Created %d %s...", i, kind)
	}
}
