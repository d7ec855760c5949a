package service

import (
	"context"

	"hayai/internal/models"
	"hayai/internal/notifications"
	"hayai/internal/repository"
)

// FollowService owns the directed follow graph.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	notifier   *notifications.Notifier
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// Follow creates the edge follower -> followee. Repeat calls are no-ops.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return models.NewValidationError("You cannot follow yourself")
	}

	follower, err := s.userRepo.GetByID(ctx, followerID)
	if err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return err
	}

	existed, err := s.followRepo.Exists(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if err := s.followRepo.Upsert(ctx, followerID, followeeID); err != nil {
		return err
	}

	if !existed && s.notifier != nil {
		_ = s.notifier.PublishUser(ctx, followeeID, notifications.Event{
			Type:      notifications.EventNewFollower,
			ActorID:   follower.ID,
			ActorName: follower.Username,
		})
	}
	return nil
}

// Unfollow removes the edge. Removing a missing edge is not an error.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return models.NewValidationError("You cannot unfollow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return err
	}
	return s.followRepo.Delete(ctx, followerID, followeeID)
}

func (s *FollowService) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, userID, limit, offset)
}

func (s *FollowService) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, userID, limit, offset)
}

func (s *FollowService) Stats(ctx context.Context, userID uint) (*repository.FollowStats, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Stats(ctx, userID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followeeID)
}
