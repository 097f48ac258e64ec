package events

import "time"

// Event kinds pushed over the realtime stream. They mirror the notification
// types plus raw message delivery.
const (
	KindLike     = "like"
	KindComment  = "comment"
	KindFollow   = "follow"
	KindPurchase = "purchase"
	KindMessage  = "message"
)

// Event is the payload delivered to realtime subscribers. Recipient selects
// which subscriber streams receive it; it is not serialized to clients.
type Event struct {
	Kind       string      `json:"kind"`
	Recipient  string      `json:"-"`
	Originator string      `json:"originator"`
	PostID     *uint       `json:"postId,omitempty"`
	Payload    interface{} `json:"payload,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}
