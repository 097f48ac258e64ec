package services

import (
	"context"
	"faceboobs/server/internal/models"
	"faceboobs/shared/logger"
	"faceboobs/shared/utils"
	"fmt"
	"strings"
)

// CommentStore is the persistence surface for comments.
type CommentStore interface {
	InsertComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)
}

type CommentService struct {
	store     CommentStore
	posts     PostReader
	users     UserReader
	notify    *NotificationService
	appLogger *logger.Logger
}

func NewCommentService(store CommentStore, posts PostReader, users UserReader, notify *NotificationService, appLogger *logger.Logger) *CommentService {
	return &CommentService{store: store, posts: posts, users: users, notify: notify, appLogger: appLogger}
}

// Create inserts the comment with a username/avatar snapshot of the author,
// then best-effort notifies the post owner (skipped for self-comments).
func (cs *CommentService) Create(ctx context.Context, postID uint, authorAddress, text string) (*models.Comment, error) {
	authorAddress = utils.NormalizeAddress(authorAddress)
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	post, err := cs.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("loading post %d: %w", postID, err)
	}
	if post == nil {
		return nil, ErrNotFound
	}

	comment := &models.Comment{
		PostID:        postID,
		AuthorAddress: authorAddress,
		Text:          text,
	}
	if author, err := cs.users.GetUserByAddress(ctx, authorAddress); err == nil && author != nil {
		comment.Username = author.Username
		comment.AvatarURL = author.AvatarURL
	}

	if err := cs.store.InsertComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("inserting comment on post %d: %w", postID, err)
	}

	if cs.notify != nil {
		cs.notify.Fanout(ctx, models.NotificationComment, post.CreatorAddress, authorAddress, &postID)
	}

	return comment, nil
}

func (cs *CommentService) List(ctx context.Context, postID uint) ([]models.Comment, error) {
	return cs.store.ListComments(ctx, postID)
}
