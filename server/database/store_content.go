package database

import (
	"context"
	"errors"
	"faceboobs/server/internal/models"
	"time"

	"gorm.io/gorm"
)

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

// GetPost returns (nil, nil) when the post does not exist.
func (s *Store) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	var post models.Post
	result := s.db.WithContext(ctx).First(&post, postID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &post, nil
}

func (s *Store) DeletePost(ctx context.Context, postID uint) error {
	return s.db.WithContext(ctx).Delete(&models.Post{}, postID).Error
}

func (s *Store) ListFeed(ctx context.Context, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (s *Store) ListPostsByCreator(ctx context.Context, creator string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("creator_address = ?", creator).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (s *Store) ListFeedByCreators(ctx context.Context, creators []string, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("creator_address IN ?", creators).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

// RecountPurchaseCount applies the same recount-not-increment strategy used
// for the follow counters to a post's purchase_count.
func (s *Store) RecountPurchaseCount(ctx context.Context, postID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Purchase{}).
			Where("post_id = ?", postID).
			Count(&count).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Update("purchase_count", count).Error
	})
}

func (s *Store) CreateStory(ctx context.Context, story *models.Story) error {
	return s.db.WithContext(ctx).Create(story).Error
}

func (s *Store) GetStory(ctx context.Context, storyID uint) (*models.Story, error) {
	var story models.Story
	result := s.db.WithContext(ctx).First(&story, storyID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &story, nil
}

func (s *Store) ListActiveStories(ctx context.Context, now time.Time) ([]models.Story, error) {
	var stories []models.Story
	err := s.db.WithContext(ctx).
		Where("expires_at > ?", now).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}

func (s *Store) DeleteStory(ctx context.Context, storyID uint) error {
	return s.db.WithContext(ctx).Delete(&models.Story{}, storyID).Error
}

func (s *Store) LikeExists(ctx context.Context, postID uint, userAddress string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ? AND user_address = ?", postID, userAddress).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) InsertLike(ctx context.Context, postID uint, userAddress string) error {
	return s.db.WithContext(ctx).Create(&models.Like{
		PostID:      postID,
		UserAddress: userAddress,
	}).Error
}

func (s *Store) DeleteLike(ctx context.Context, postID uint, userAddress string) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("post_id = ? AND user_address = ?", postID, userAddress).
		Delete(&models.Like{})
	return result.RowsAffected, result.Error
}

func (s *Store) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (s *Store) InsertComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *Store) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}
