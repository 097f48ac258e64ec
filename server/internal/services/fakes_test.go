package services

import (
	"context"
	"errors"
	"faceboobs/server/internal/models"
	"faceboobs/shared/logger"
	"fmt"
	"math/big"
	"sort"
	"testing"
	"time"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	appLogger, err := logger.NewLogger(logger.Config{
		Level:          "debug",
		Environment:    "development",
		EnableTelegram: false,
	})
	if err != nil {
		t.Fatalf("failed to build test logger: %v", err)
	}
	return appLogger
}

var errStoreDown = errors.New("store down")

// memStore is an in-memory stand-in for database.Store covering every
// persistence interface the services consume.
type memStore struct {
	users         map[string]*models.User
	follows       map[string]map[string]bool
	posts         map[uint]*models.Post
	likes         map[string]bool
	comments      []models.Comment
	purchases     []models.Purchase
	notifications []models.Notification
	messages      []models.Message
	stories       map[uint]*models.Story
	nextID        uint

	followRecounts   int
	purchaseRecounts int

	failInsertPurchase     bool
	failInsertNotification bool
	failRecount            bool
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[string]*models.User),
		follows: make(map[string]map[string]bool),
		posts:   make(map[uint]*models.Post),
		likes:   make(map[string]bool),
		stories: make(map[uint]*models.Story),
	}
}

func (m *memStore) addUser(address, username string, isCreator bool) *models.User {
	m.nextID++
	user := &models.User{ID: m.nextID, Address: address, Username: username, IsCreator: isCreator}
	m.users[address] = user
	return user
}

func (m *memStore) addPost(creator string, isPaid bool, price string, contentID *int64) *models.Post {
	m.nextID++
	post := &models.Post{
		ID:                  m.nextID,
		CreatorAddress:      creator,
		MediaURL:            fmt.Sprintf("https://cdn.example/%d.jpg", m.nextID),
		IsPaid:              isPaid,
		Price:               price,
		BlockchainContentID: contentID,
	}
	m.posts[post.ID] = post
	return post
}

// UserStore / UserReader

func (m *memStore) GetUserByAddress(ctx context.Context, address string) (*models.User, error) {
	return m.users[address], nil
}

func (m *memStore) CreateUser(ctx context.Context, user *models.User) error {
	m.nextID++
	user.ID = m.nextID
	m.users[user.Address] = user
	return nil
}

func (m *memStore) SaveUser(ctx context.Context, user *models.User) error {
	m.users[user.Address] = user
	return nil
}

func (m *memStore) UsernameTaken(ctx context.Context, username, excludeAddress string) (bool, error) {
	for address, user := range m.users {
		if address != excludeAddress && user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// FollowStore

func (m *memStore) FollowExists(ctx context.Context, follower, followed string) (bool, error) {
	return m.follows[follower][followed], nil
}

func (m *memStore) InsertFollow(ctx context.Context, follower, followed string) error {
	if m.follows[follower] == nil {
		m.follows[follower] = make(map[string]bool)
	}
	m.follows[follower][followed] = true
	return nil
}

func (m *memStore) DeleteFollow(ctx context.Context, follower, followed string) (int64, error) {
	if m.follows[follower][followed] {
		delete(m.follows[follower], followed)
		return 1, nil
	}
	return 0, nil
}

func (m *memStore) RecountFollowCounters(ctx context.Context, follower, followed string) error {
	if m.failRecount {
		return errStoreDown
	}
	m.followRecounts++
	if user, ok := m.users[followed]; ok {
		var count int64
		for _, followeds := range m.follows {
			if followeds[followed] {
				count++
			}
		}
		user.FollowersCount = count
	}
	if user, ok := m.users[follower]; ok {
		user.FollowingCount = int64(len(m.follows[follower]))
	}
	return nil
}

// PostStore

func (m *memStore) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	return m.posts[postID], nil
}

func (m *memStore) CreatePost(ctx context.Context, post *models.Post) error {
	m.nextID++
	post.ID = m.nextID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	m.posts[post.ID] = post
	return nil
}

func (m *memStore) DeletePost(ctx context.Context, postID uint) error {
	delete(m.posts, postID)
	return nil
}

func (m *memStore) sortedPosts() []models.Post {
	var out []models.Post
	for _, post := range m.posts {
		out = append(out, *post)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) ListFeed(ctx context.Context, limit, offset int) ([]models.Post, error) {
	posts := m.sortedPosts()
	if offset >= len(posts) {
		return nil, nil
	}
	posts = posts[offset:]
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (m *memStore) ListPostsByCreator(ctx context.Context, creator string) ([]models.Post, error) {
	var out []models.Post
	for _, post := range m.sortedPosts() {
		if post.CreatorAddress == creator {
			out = append(out, post)
		}
	}
	return out, nil
}

func (m *memStore) ListFeedByCreators(ctx context.Context, creators []string, limit, offset int) ([]models.Post, error) {
	allowed := make(map[string]bool, len(creators))
	for _, creator := range creators {
		allowed[creator] = true
	}
	var out []models.Post
	for _, post := range m.sortedPosts() {
		if allowed[post.CreatorAddress] {
			out = append(out, post)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FollowReader

func (m *memStore) ListFollowing(ctx context.Context, follower string) ([]string, error) {
	var out []string
	for followed := range m.follows[follower] {
		out = append(out, followed)
	}
	sort.Strings(out)
	return out, nil
}

// LikeStore

func likeKey(postID uint, userAddress string) string {
	return fmt.Sprintf("%d|%s", postID, userAddress)
}

func (m *memStore) LikeExists(ctx context.Context, postID uint, userAddress string) (bool, error) {
	return m.likes[likeKey(postID, userAddress)], nil
}

func (m *memStore) InsertLike(ctx context.Context, postID uint, userAddress string) error {
	m.likes[likeKey(postID, userAddress)] = true
	return nil
}

func (m *memStore) DeleteLike(ctx context.Context, postID uint, userAddress string) (int64, error) {
	if m.likes[likeKey(postID, userAddress)] {
		delete(m.likes, likeKey(postID, userAddress))
		return 1, nil
	}
	return 0, nil
}

func (m *memStore) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	prefix := fmt.Sprintf("%d|", postID)
	for key := range m.likes {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			count++
		}
	}
	return count, nil
}

// CommentStore

func (m *memStore) InsertComment(ctx context.Context, comment *models.Comment) error {
	m.nextID++
	comment.ID = m.nextID
	m.comments = append(m.comments, *comment)
	return nil
}

func (m *memStore) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var out []models.Comment
	for _, comment := range m.comments {
		if comment.PostID == postID {
			out = append(out, comment)
		}
	}
	return out, nil
}

// PurchaseStore

func (m *memStore) InsertPurchase(ctx context.Context, purchase *models.Purchase) error {
	if m.failInsertPurchase {
		return errStoreDown
	}
	m.nextID++
	purchase.ID = m.nextID
	m.purchases = append(m.purchases, *purchase)
	return nil
}

func (m *memStore) PurchaseExists(ctx context.Context, buyer string, postID uint) (bool, error) {
	for _, purchase := range m.purchases {
		if purchase.BuyerAddress == buyer && purchase.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListPurchasesByBuyer(ctx context.Context, buyer string) ([]models.Purchase, error) {
	var out []models.Purchase
	for _, purchase := range m.purchases {
		if purchase.BuyerAddress == buyer {
			out = append(out, purchase)
		}
	}
	return out, nil
}

func (m *memStore) RecountPurchaseCount(ctx context.Context, postID uint) error {
	m.purchaseRecounts++
	if post, ok := m.posts[postID]; ok {
		var count int64
		for _, purchase := range m.purchases {
			if purchase.PostID == postID {
				count++
			}
		}
		post.PurchaseCount = count
	}
	return nil
}

// NotificationStore

func (m *memStore) InsertNotification(ctx context.Context, notification *models.Notification) error {
	if m.failInsertNotification {
		return errStoreDown
	}
	m.nextID++
	notification.ID = m.nextID
	m.notifications = append(m.notifications, *notification)
	return nil
}

func (m *memStore) ListNotifications(ctx context.Context, recipient string, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, notification := range m.notifications {
		if notification.RecipientAddress == recipient {
			out = append(out, notification)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) MarkNotificationRead(ctx context.Context, notificationID uint, recipient string) error {
	for i := range m.notifications {
		if m.notifications[i].ID == notificationID && m.notifications[i].RecipientAddress == recipient {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *memStore) MarkAllNotificationsRead(ctx context.Context, recipient string) error {
	for i := range m.notifications {
		if m.notifications[i].RecipientAddress == recipient {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

// MessageStore

func (m *memStore) InsertMessage(ctx context.Context, message *models.Message) error {
	m.nextID++
	message.ID = m.nextID
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	m.messages = append(m.messages, *message)
	return nil
}

func (m *memStore) ListMessagesBetween(ctx context.Context, a, b string) ([]models.Message, error) {
	var out []models.Message
	for _, message := range m.messages {
		if (message.SenderAddress == a && message.ReceiverAddress == b) ||
			(message.SenderAddress == b && message.ReceiverAddress == a) {
			out = append(out, message)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) ListMessagesForUser(ctx context.Context, address string) ([]models.Message, error) {
	var out []models.Message
	for _, message := range m.messages {
		if message.SenderAddress == address || message.ReceiverAddress == address {
			out = append(out, message)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) MarkConversationRead(ctx context.Context, reader, counterpart string) error {
	for i := range m.messages {
		if m.messages[i].ReceiverAddress == reader && m.messages[i].SenderAddress == counterpart {
			m.messages[i].IsRead = true
		}
	}
	return nil
}

// StoryStore

func (m *memStore) CreateStory(ctx context.Context, story *models.Story) error {
	m.nextID++
	story.ID = m.nextID
	m.stories[story.ID] = story
	return nil
}

func (m *memStore) GetStory(ctx context.Context, storyID uint) (*models.Story, error) {
	return m.stories[storyID], nil
}

func (m *memStore) ListActiveStories(ctx context.Context, now time.Time) ([]models.Story, error) {
	var out []models.Story
	for _, story := range m.stories {
		if story.ExpiresAt.After(now) {
			out = append(out, *story)
		}
	}
	return out, nil
}

func (m *memStore) DeleteStory(ctx context.Context, storyID uint) error {
	delete(m.stories, storyID)
	return nil
}

// MediaStore

func (m *memStore) InsertMediaBlob(ctx context.Context, blob *models.MediaBlob) error {
	return nil
}

func (m *memStore) GetMediaBlob(ctx context.Context, id string) (*models.MediaBlob, error) {
	return nil, nil
}

// fakeContract is a canned ContractPurchaser/ContentRegistrar.
type fakeContract struct {
	purchaseErr   error
	purchasedID   int64
	purchasedWei  *big.Int
	purchaseCalls int

	registerErr error
	nextContent int64
}

func (f *fakeContract) PurchaseContent(ctx context.Context, contentID int64, valueWei *big.Int) (string, error) {
	f.purchaseCalls++
	if f.purchaseErr != nil {
		return "", f.purchaseErr
	}
	f.purchasedID = contentID
	f.purchasedWei = new(big.Int).Set(valueWei)
	return "0xdeadbeefcafe", nil
}

func (f *fakeContract) RegisterContent(ctx context.Context, contentHash string, priceWei *big.Int, isPaid bool) (int64, error) {
	if f.registerErr != nil {
		return 0, f.registerErr
	}
	f.nextContent++
	return f.nextContent, nil
}
