package models

import "time"

// User represents a wallet-authenticated account. Address is the lowercased
// wallet address and acts as the natural key; the follower counters are
// denormalized and recomputed from live Follow rows on every mutation.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Address        string    `gorm:"uniqueIndex;not null" json:"address"`
	Username       string    `gorm:"uniqueIndex" json:"username"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatarUrl"`
	IsCreator      bool      `gorm:"default:false" json:"isCreator"`
	FollowersCount int64     `gorm:"default:0" json:"followersCount"`
	FollowingCount int64     `gorm:"default:0" json:"followingCount"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Post is a piece of creator content. MediaURL may be a remote storage URL or
// a media-cache reference. Paid posts carry a price (decimal string, native
// currency) and the content id assigned by the smart contract registry.
type Post struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	CreatorAddress      string    `gorm:"index;not null" json:"creatorAddress"`
	MediaURL            string    `gorm:"not null" json:"mediaUrl"`
	MediaType           string    `json:"mediaType"`
	Caption             string    `json:"caption"`
	IsPaid              bool      `gorm:"default:false" json:"isPaid"`
	Price               string    `gorm:"default:'0'" json:"price"`
	BlockchainContentID *int64    `json:"blockchainContentId"`
	PurchaseCount       int64     `gorm:"default:0" json:"purchaseCount"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Story is a post-like item that expires 24 hours after creation.
type Story struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatorAddress string    `gorm:"index;not null" json:"creatorAddress"`
	MediaURL       string    `gorm:"not null" json:"mediaUrl"`
	MediaType      string    `json:"mediaType"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	ExpiresAt      time.Time `gorm:"index;not null" json:"expiresAt"`
}

// Purchase records a settled on-chain content purchase. Rows are append-only
// and written only after the chain transaction is confirmed.
type Purchase struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BuyerAddress    string    `gorm:"index:idx_purchases_buyer_post;not null" json:"buyerAddress"`
	PostID          uint      `gorm:"index:idx_purchases_buyer_post;not null" json:"postId"`
	Amount          string    `gorm:"not null" json:"amount"`
	TransactionHash string    `gorm:"not null" json:"transactionHash"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Follow is a unique (follower, followed) pair.
type Follow struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FollowerAddress string    `gorm:"uniqueIndex:idx_follows_pair;not null" json:"followerAddress"`
	FollowedAddress string    `gorm:"uniqueIndex:idx_follows_pair;not null" json:"followedAddress"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Like is a unique (post, user) pair, toggled on and off.
type Like struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"uniqueIndex:idx_likes_pair;not null" json:"postId"`
	UserAddress string    `gorm:"uniqueIndex:idx_likes_pair;not null" json:"userAddress"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Comment snapshots the author's username and avatar at write time so old
// comments render without a user join.
type Comment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PostID        uint      `gorm:"index;not null" json:"postId"`
	AuthorAddress string    `gorm:"not null" json:"authorAddress"`
	Username      string    `json:"username"`
	AvatarURL     string    `json:"avatarUrl"`
	Text          string    `gorm:"not null" json:"text"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Notification types.
const (
	NotificationLike     = "like"
	NotificationComment  = "comment"
	NotificationFollow   = "follow"
	NotificationPurchase = "purchase"
	NotificationMessage  = "message"
)

// Notification is a denormalized row written at the moment of the triggering
// action. Writes are best-effort; a lost notification does not fail the action.
type Notification struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	RecipientAddress   string    `gorm:"index;not null" json:"recipientAddress"`
	Type               string    `gorm:"not null" json:"type"`
	OriginatorAddress  string    `gorm:"not null" json:"originatorAddress"`
	OriginatorUsername string    `json:"originatorUsername"`
	PostID             *uint     `json:"postId"`
	IsRead             bool      `gorm:"default:false" json:"isRead"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Message is a direct message. There is no conversation entity; conversations
// are derived by grouping messages by counterpart address.
type Message struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SenderAddress   string    `gorm:"index;not null" json:"senderAddress"`
	ReceiverAddress string    `gorm:"index;not null" json:"receiverAddress"`
	Text            string    `gorm:"not null" json:"text"`
	IsRead          bool      `gorm:"default:false" json:"isRead"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// MediaBlob is the legacy inline-media fallback: base64 payloads keyed by a
// generated id, kept readable for posts that predate remote storage URLs.
type MediaBlob struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	OwnerAddress string    `gorm:"index" json:"ownerAddress"`
	Payload      string    `gorm:"not null" json:"payload"`
	Filename     string    `json:"filename"`
	MimeType     string    `json:"mimeType"`
	SizeBytes    int64     `json:"sizeBytes"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
