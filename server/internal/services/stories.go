package services

import (
	"context"
	"faceboobs/server/internal/models"
	"faceboobs/shared/logger"
	"faceboobs/shared/utils"
	"strings"
	"time"
)

const storyLifetime = 24 * time.Hour

// StoryStore is the persistence surface for stories.
type StoryStore interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetStory(ctx context.Context, storyID uint) (*models.Story, error)
	ListActiveStories(ctx context.Context, now time.Time) ([]models.Story, error)
	DeleteStory(ctx context.Context, storyID uint) error
}

type StoryService struct {
	store     StoryStore
	appLogger *logger.Logger
	now       func() time.Time
}

func NewStoryService(store StoryStore, appLogger *logger.Logger) *StoryService {
	return &StoryService{store: store, appLogger: appLogger, now: time.Now}
}

// Create publishes a story that expires 24 hours from now.
func (ss *StoryService) Create(ctx context.Context, creatorAddress, mediaURL, mediaType string) (*models.Story, error) {
	if strings.TrimSpace(mediaURL) == "" {
		return nil, ErrEmptyText
	}
	story := &models.Story{
		CreatorAddress: utils.NormalizeAddress(creatorAddress),
		MediaURL:       mediaURL,
		MediaType:      mediaType,
		ExpiresAt:      ss.now().Add(storyLifetime),
	}
	if err := ss.store.CreateStory(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// ListActive returns unexpired stories, newest first.
func (ss *StoryService) ListActive(ctx context.Context) ([]models.Story, error) {
	return ss.store.ListActiveStories(ctx, ss.now())
}

// Delete removes a story, owner only.
func (ss *StoryService) Delete(ctx context.Context, storyID uint, requesterAddress string) error {
	story, err := ss.store.GetStory(ctx, storyID)
	if err != nil {
		return err
	}
	if story == nil {
		return ErrNotFound
	}
	if story.CreatorAddress != utils.NormalizeAddress(requesterAddress) {
		return ErrNotOwner
	}
	return ss.store.DeleteStory(ctx, storyID)
}
