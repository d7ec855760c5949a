package service

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"hayai/internal/models"
	"hayai/internal/repository"
	"hayai/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService owns accounts: registration, login and profile updates.
type UserService struct {
	userRepo  repository.UserRepository
	avatarDir string
}

type RegisterInput struct {
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	DisplayName   string   `json:"display_name"`
	Interests     []string `json:"interests"`
	AgeVerified   bool     `json:"age_verified"`
	TermsAccepted bool     `json:"terms_accepted"`
}

type UpdateProfileInput struct {
	UserID      uint
	DisplayName string
	Bio         string
	Interests   []string
	AvatarName  string
}

func NewUserService(userRepo repository.UserRepository, avatarDir string) *UserService {
	return &UserService{userRepo: userRepo, avatarDir: avatarDir}
}

// Register creates an account. Duplicate usernames and emails are conflicts,
// checked case-insensitively so "Luna" and "luna" collide.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if !in.TermsAccepted {
		return nil, models.NewValidationError("Terms of service must be accepted")
	}

	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Username is already taken")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	now := time.Now()
	user := &models.User{
		Username:        username,
		Email:           email,
		Password:        string(hash),
		DisplayName:     strings.TrimSpace(in.DisplayName),
		Interests:       in.Interests,
		Role:            models.RoleChild,
		AgeVerified:     in.AgeVerified,
		TermsAccepted:   true,
		TermsAcceptedAt: &now,
	}
	if user.DisplayName == "" {
		user.DisplayName = username
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and returns the account. The same error
// is returned for unknown usernames and wrong passwords.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

func (s *UserService) Search(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.userRepo.Search(ctx, query, limit, offset)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxDisplayNameLen = 128

	if in.DisplayName != "" {
		if len(in.DisplayName) > maxDisplayNameLen {
			return nil, models.NewValidationError("Display name too long (max 128 characters)")
		}
		user.DisplayName = in.DisplayName
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Interests != nil {
		user.Interests = in.Interests
	}
	if in.AvatarName != "" {
		if !s.avatarExists(in.AvatarName) {
			return nil, models.NewValidationError("Unknown avatar")
		}
		user.AvatarName = in.AvatarName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAvatar assigns one of the built-in avatars to the user.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, avatarName string) (*models.User, error) {
	if !s.avatarExists(avatarName) {
		return nil, models.NewValidationError("Unknown avatar")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.AvatarName = avatarName
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Avatars lists the built-in avatar names, derived from the files shipped
// in the avatar directory.
func (s *UserService) Avatars() ([]string, error) {
	entries, err := os.ReadDir(s.avatarDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, models.NewInternalError(err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		switch ext {
		case ".png", ".jpg", ".jpeg", ".webp", ".svg":
			names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *UserService) avatarExists(name string) bool {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return false
	}
	avatars, err := s.Avatars()
	if err != nil {
		return false
	}
	for _, a := range avatars {
		if a == name {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the admin role.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}
