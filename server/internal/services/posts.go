package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"faceboobs/server/internal/models"
	"faceboobs/shared/logger"
	"faceboobs/shared/utils"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"
)

// PostStore is the persistence surface for posts.
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID uint) (*models.Post, error)
	DeletePost(ctx context.Context, postID uint) error
	ListFeed(ctx context.Context, limit, offset int) ([]models.Post, error)
	ListPostsByCreator(ctx context.Context, creator string) ([]models.Post, error)
	ListFeedByCreators(ctx context.Context, creators []string, limit, offset int) ([]models.Post, error)
}

// FollowReader lists who a wallet follows, for the following feed.
type FollowReader interface {
	ListFollowing(ctx context.Context, follower string) ([]string, error)
}

// ContentRegistrar registers paid content with the on-chain registry.
type ContentRegistrar interface {
	RegisterContent(ctx context.Context, contentHash string, priceWei *big.Int, isPaid bool) (int64, error)
}

// NewPostInput carries the publish parameters.
type NewPostInput struct {
	CreatorAddress string `json:"creatorAddress"`
	MediaURL       string `json:"mediaUrl"`
	MediaType      string `json:"mediaType"`
	Caption        string `json:"caption"`
	IsPaid         bool   `json:"isPaid"`
	Price          string `json:"price"`
}

type PostService struct {
	store     PostStore
	follows   FollowReader
	users     UserReader
	registrar ContentRegistrar
	appLogger *logger.Logger
}

func NewPostService(store PostStore, follows FollowReader, users UserReader, registrar ContentRegistrar, appLogger *logger.Logger) *PostService {
	return &PostService{store: store, follows: follows, users: users, registrar: registrar, appLogger: appLogger}
}

// Create publishes a post. Paid posts require a creator account and are
// registered with the on-chain content registry before the row is written, so
// a Purchase can never reference a post without a content id.
func (ps *PostService) Create(ctx context.Context, input NewPostInput) (*models.Post, error) {
	creator := utils.NormalizeAddress(input.CreatorAddress)
	if strings.TrimSpace(input.MediaURL) == "" {
		return nil, ErrEmptyText
	}

	user, err := ps.users.GetUserByAddress(ctx, creator)
	if err != nil {
		return nil, fmt.Errorf("loading creator %s: %w", creator, err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	post := &models.Post{
		CreatorAddress: creator,
		MediaURL:       input.MediaURL,
		MediaType:      input.MediaType,
		Caption:        input.Caption,
		Price:          "0",
	}

	if input.IsPaid {
		if !user.IsCreator {
			return nil, ErrNotCreator
		}
		priceWei, err := priceToWei(input.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: price %q: %v", ErrNotPayable, input.Price, err)
		}
		if ps.registrar == nil {
			return nil, ErrSignerUnavailable
		}

		contentID, err := ps.registrar.RegisterContent(ctx, hashContent(input.MediaURL), priceWei, true)
		if err != nil {
			return nil, err
		}
		post.IsPaid = true
		post.Price = input.Price
		post.BlockchainContentID = &contentID
	}

	if err := ps.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("inserting post for %s: %w", creator, err)
	}

	ps.appLogger.Info("Post published",
		zap.String("creator", creator), zap.Uint("postId", post.ID), zap.Bool("isPaid", post.IsPaid))
	return post, nil
}

func (ps *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := ps.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// Delete removes a post, owner only.
func (ps *PostService) Delete(ctx context.Context, postID uint, requesterAddress string) error {
	requesterAddress = utils.NormalizeAddress(requesterAddress)
	post, err := ps.store.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	if post.CreatorAddress != requesterAddress {
		return ErrNotOwner
	}
	return ps.store.DeletePost(ctx, postID)
}

func (ps *PostService) Feed(ctx context.Context, limit, offset int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return ps.store.ListFeed(ctx, limit, offset)
}

// FollowingFeed returns recent posts from creators the viewer follows.
func (ps *PostService) FollowingFeed(ctx context.Context, viewerAddress string, limit, offset int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	followed, err := ps.follows.ListFollowing(ctx, utils.NormalizeAddress(viewerAddress))
	if err != nil {
		return nil, err
	}
	if len(followed) == 0 {
		return []models.Post{}, nil
	}
	return ps.store.ListFeedByCreators(ctx, followed, limit, offset)
}

func (ps *PostService) ListByCreator(ctx context.Context, creator string) ([]models.Post, error) {
	return ps.store.ListPostsByCreator(ctx, utils.NormalizeAddress(creator))
}

// RedactLocked blanks the media reference on paid posts the viewer has no
// access to, leaving the metadata intact for the locked-preview rendering.
func RedactLocked(post *models.Post, hasAccess bool) *models.Post {
	if post == nil || !post.IsPaid || hasAccess {
		return post
	}
	redacted := *post
	redacted.MediaURL = ""
	return &redacted
}

func hashContent(mediaURL string) string {
	sum := sha256.Sum256([]byte(mediaURL))
	return hex.EncodeToString(sum[:])
}
