package services

import (
	"context"
	"faceboobs/server/internal/models"
	"faceboobs/shared/logger"
	"faceboobs/shared/utils"
	"fmt"
)

// LikeStore is the persistence surface for like toggling.
type LikeStore interface {
	LikeExists(ctx context.Context, postID uint, userAddress string) (bool, error)
	InsertLike(ctx context.Context, postID uint, userAddress string) error
	DeleteLike(ctx context.Context, postID uint, userAddress string) (int64, error)
	CountLikes(ctx context.Context, postID uint) (int64, error)
}

// PostReader resolves post ids to post rows.
type PostReader interface {
	GetPost(ctx context.Context, postID uint) (*models.Post, error)
}

type LikeService struct {
	store     LikeStore
	posts     PostReader
	notify    *NotificationService
	appLogger *logger.Logger
}

func NewLikeService(store LikeStore, posts PostReader, notify *NotificationService, appLogger *logger.Logger) *LikeService {
	return &LikeService{store: store, posts: posts, notify: notify, appLogger: appLogger}
}

// Toggle flips the (post, user) like. A like on someone else's post fans out a
// notification to the post owner; notification failure never fails the like.
func (ls *LikeService) Toggle(ctx context.Context, postID uint, userAddress string) (string, error) {
	userAddress = utils.NormalizeAddress(userAddress)

	post, err := ls.posts.GetPost(ctx, postID)
	if err != nil {
		return "", fmt.Errorf("loading post %d: %w", postID, err)
	}
	if post == nil {
		return "", ErrNotFound
	}

	exists, err := ls.store.LikeExists(ctx, postID, userAddress)
	if err != nil {
		return "", fmt.Errorf("checking like on post %d: %w", postID, err)
	}

	if exists {
		if _, err := ls.store.DeleteLike(ctx, postID, userAddress); err != nil {
			return "", fmt.Errorf("removing like on post %d: %w", postID, err)
		}
		return ActionUnliked, nil
	}

	if err := ls.store.InsertLike(ctx, postID, userAddress); err != nil {
		return "", fmt.Errorf("inserting like on post %d: %w", postID, err)
	}

	if ls.notify != nil {
		ls.notify.Fanout(ctx, models.NotificationLike, post.CreatorAddress, userAddress, &postID)
	}

	return ActionLiked, nil
}

func (ls *LikeService) Count(ctx context.Context, postID uint) (int64, error) {
	return ls.store.CountLikes(ctx, postID)
}

func (ls *LikeService) HasLiked(ctx context.Context, postID uint, userAddress string) (bool, error) {
	return ls.store.LikeExists(ctx, postID, utils.NormalizeAddress(userAddress))
}
