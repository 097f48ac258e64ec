package services

import (
	"context"
	"faceboobs/server/internal/models"
	"faceboobs/shared/logger"
	"faceboobs/shared/utils"
	"fmt"

	"go.uber.org/zap"
)

// FollowStore is the persistence surface for follow relationships.
type FollowStore interface {
	FollowExists(ctx context.Context, follower, followed string) (bool, error)
	InsertFollow(ctx context.Context, follower, followed string) error
	DeleteFollow(ctx context.Context, follower, followed string) (int64, error)
	RecountFollowCounters(ctx context.Context, follower, followed string) error
}

// FollowService owns follow/unfollow and the denormalized counter recount.
// After every successful row mutation both affected counters are recomputed
// from live rows inside one transaction, never incremented, so a partial
// failure self-heals on the next mutation instead of drifting.
type FollowService struct {
	store     FollowStore
	notify    *NotificationService
	appLogger *logger.Logger
}

func NewFollowService(store FollowStore, notify *NotificationService, appLogger *logger.Logger) *FollowService {
	return &FollowService{store: store, notify: notify, appLogger: appLogger}
}

// Follow creates the (follower, followed) pair. Returns ActionAlreadyFollowing
// with no row insert or counter mutation when the pair already exists.
func (fs *FollowService) Follow(ctx context.Context, follower, followed string) (string, error) {
	follower = utils.NormalizeAddress(follower)
	followed = utils.NormalizeAddress(followed)
	if follower == followed {
		return "", ErrSelfAction
	}

	exists, err := fs.store.FollowExists(ctx, follower, followed)
	if err != nil {
		return "", fmt.Errorf("checking follow %s -> %s: %w", follower, followed, err)
	}
	if exists {
		return ActionAlreadyFollowing, nil
	}

	if err := fs.store.InsertFollow(ctx, follower, followed); err != nil {
		return "", fmt.Errorf("inserting follow %s -> %s: %w", follower, followed, err)
	}

	if err := fs.store.RecountFollowCounters(ctx, follower, followed); err != nil {
		// The row exists; the next mutation recounts and heals the counters.
		fs.appLogger.Warn("Follow counter recount failed after insert",
			zap.String("follower", follower), zap.String("followed", followed), zap.Error(err))
	}

	if fs.notify != nil {
		fs.notify.Fanout(ctx, models.NotificationFollow, followed, follower, nil)
	}

	return ActionFollowed, nil
}

// Unfollow deletes the pair. Unfollowing a never-followed pair affects zero
// rows and the recount is a no-op; ActionNotFollowing is reported.
func (fs *FollowService) Unfollow(ctx context.Context, follower, followed string) (string, error) {
	follower = utils.NormalizeAddress(follower)
	followed = utils.NormalizeAddress(followed)
	if follower == followed {
		return "", ErrSelfAction
	}

	rowsAffected, err := fs.store.DeleteFollow(ctx, follower, followed)
	if err != nil {
		return "", fmt.Errorf("deleting follow %s -> %s: %w", follower, followed, err)
	}

	if err := fs.store.RecountFollowCounters(ctx, follower, followed); err != nil {
		fs.appLogger.Warn("Follow counter recount failed after delete",
			zap.String("follower", follower), zap.String("followed", followed), zap.Error(err))
	}

	if rowsAffected == 0 {
		return ActionNotFollowing, nil
	}
	return ActionUnfollowed, nil
}

// IsFollowing reports whether the pair exists.
func (fs *FollowService) IsFollowing(ctx context.Context, follower, followed string) (bool, error) {
	return fs.store.FollowExists(ctx, utils.NormalizeAddress(follower), utils.NormalizeAddress(followed))
}
