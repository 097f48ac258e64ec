package services

import (
	"context"
	"faceboobs/server/internal/models"
	"faceboobs/shared/logger"
	"faceboobs/shared/utils"
	"fmt"

	"go.uber.org/zap"
)

// UserStore is the persistence surface for account management.
type UserStore interface {
	GetUserByAddress(ctx context.Context, address string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	SaveUser(ctx context.Context, user *models.User) error
	UsernameTaken(ctx context.Context, username, excludeAddress string) (bool, error)
}

// ProfileUpdate carries the editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Username  *string `json:"username"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

type UserService struct {
	store     UserStore
	appLogger *logger.Logger
}

func NewUserService(store UserStore, appLogger *logger.Logger) *UserService {
	return &UserService{store: store, appLogger: appLogger}
}

// Connect looks the wallet up and creates the account on first connection.
// Addresses are case-normalized to lowercase before they touch the database.
func (us *UserService) Connect(ctx context.Context, address string) (*models.User, error) {
	if !utils.IsValidAddress(address) {
		return nil, ErrInvalidAddress
	}
	normalized := utils.NormalizeAddress(address)

	user, err := us.store.GetUserByAddress(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", normalized, err)
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{
		Address:  normalized,
		Username: defaultUsername(normalized),
	}
	if err := us.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user %s: %w", normalized, err)
	}
	us.appLogger.Info("Created user on first wallet connection", zap.String("address", normalized))
	return user, nil
}

func (us *UserService) Get(ctx context.Context, address string) (*models.User, error) {
	user, err := us.store.GetUserByAddress(ctx, utils.NormalizeAddress(address))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile applies the provided fields, enforcing username uniqueness.
func (us *UserService) UpdateProfile(ctx context.Context, address string, update ProfileUpdate) (*models.User, error) {
	normalized := utils.NormalizeAddress(address)
	user, err := us.store.GetUserByAddress(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if update.Username != nil && *update.Username != user.Username {
		if *update.Username == "" {
			return nil, ErrEmptyText
		}
		taken, err := us.store.UsernameTaken(ctx, *update.Username, normalized)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		user.Username = *update.Username
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}

	if err := us.store.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("saving profile for %s: %w", normalized, err)
	}
	return user, nil
}

// BecomeCreator flips the creator flag, permitting paid posts.
func (us *UserService) BecomeCreator(ctx context.Context, address string) (*models.User, error) {
	normalized := utils.NormalizeAddress(address)
	user, err := us.store.GetUserByAddress(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.IsCreator {
		return user, nil
	}
	user.IsCreator = true
	if err := us.store.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("upgrading %s to creator: %w", normalized, err)
	}
	us.appLogger.Info("User upgraded to creator", zap.String("address", normalized))
	return user, nil
}

func defaultUsername(address string) string {
	if len(address) >= 10 {
		return fmt.Sprintf("user_%s", address[2:10])
	}
	return fmt.Sprintf("user_%s", address)
}
