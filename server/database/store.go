package database

import (
	"context"
	"errors"
	"faceboobs/server/internal/models"
	"log"

	"gorm.io/gorm"
)

// Store wraps the gorm handle with the row-level operations the domain
// services compose. Constructed once in main and injected everywhere a
// database is needed; there is no package-level instance.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetUserByAddress looks a user up by lowercased wallet address. A missing row
// is not an error; it returns (nil, nil).
func (s *Store) GetUserByAddress(ctx context.Context, address string) (*models.User, error) {
	var user models.User
	result := s.db.WithContext(ctx).Where("address = ?", address).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: Database error loading user %s: %v", address, result.Error)
		return nil, result.Error
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

// UsernameTaken reports whether another account already holds the username.
func (s *Store) UsernameTaken(ctx context.Context, username, excludeAddress string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND address <> ?", username, excludeAddress).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) FollowExists(ctx context.Context, follower, followed string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_address = ? AND followed_address = ?", follower, followed).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) InsertFollow(ctx context.Context, follower, followed string) error {
	return s.db.WithContext(ctx).Create(&models.Follow{
		FollowerAddress: follower,
		FollowedAddress: followed,
	}).Error
}

// DeleteFollow removes the pair and returns how many rows were affected, so
// callers can distinguish an unfollow of a never-followed pair.
func (s *Store) DeleteFollow(ctx context.Context, follower, followed string) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("follower_address = ? AND followed_address = ?", follower, followed).
		Delete(&models.Follow{})
	return result.RowsAffected, result.Error
}

// RecountFollowCounters recomputes the followed user's followers_count and the
// follower's following_count from live Follow rows inside one transaction.
// Recounting rather than incrementing means a crash between the row write and
// the counter write self-heals on the next mutation.
func (s *Store) RecountFollowCounters(ctx context.Context, follower, followed string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var followersCount int64
		if err := tx.Model(&models.Follow{}).
			Where("followed_address = ?", followed).
			Count(&followersCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).
			Where("address = ?", followed).
			Update("followers_count", followersCount).Error; err != nil {
			return err
		}

		var followingCount int64
		if err := tx.Model(&models.Follow{}).
			Where("follower_address = ?", follower).
			Count(&followingCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).
			Where("address = ?", follower).
			Update("following_count", followingCount).Error; err != nil {
			return err
		}
		return nil
	})
}

func (s *Store) CountFollowers(ctx context.Context, address string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followed_address = ?", address).
		Count(&count).Error
	return count, err
}

func (s *Store) ListFollowing(ctx context.Context, follower string) ([]string, error) {
	var addresses []string
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_address = ?", follower).
		Pluck("followed_address", &addresses).Error
	return addresses, err
}

// PlatformStats are the aggregate row counts surfaced by the ops bot /stats
// command.
type PlatformStats struct {
	Users     int64
	Creators  int64
	Posts     int64
	Purchases int64
	Messages  int64
}

func (s *Store) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("is_creator = ?", true).Count(&stats.Creators).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Post{}).Count(&stats.Posts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Purchase{}).Count(&stats.Purchases).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Message{}).Count(&stats.Messages).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
