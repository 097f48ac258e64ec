package services

import (
	"context"
	"faceboobs/server/internal/events"
	"faceboobs/server/internal/models"
	"faceboobs/shared/logger"
	"faceboobs/shared/utils"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// MessageStore is the persistence surface for direct messages.
type MessageStore interface {
	InsertMessage(ctx context.Context, message *models.Message) error
	ListMessagesBetween(ctx context.Context, a, b string) ([]models.Message, error)
	ListMessagesForUser(ctx context.Context, address string) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, reader, counterpart string) error
}

// Conversation is derived state: there is no conversation row, only messages
// grouped by counterpart address.
type Conversation struct {
	Counterpart string         `json:"counterpart"`
	LastMessage models.Message `json:"lastMessage"`
	UnreadCount int            `json:"unreadCount"`
}

type MessageService struct {
	store     MessageStore
	notify    *NotificationService
	hub       *Hub
	appLogger *logger.Logger
}

func NewMessageService(store MessageStore, notify *NotificationService, hub *Hub, appLogger *logger.Logger) *MessageService {
	return &MessageService{store: store, notify: notify, hub: hub, appLogger: appLogger}
}

// Send persists the message, best-effort notifies the receiver, and pushes
// the message onto the receiver's realtime stream.
func (ms *MessageService) Send(ctx context.Context, sender, receiver, text string) (*models.Message, error) {
	sender = utils.NormalizeAddress(sender)
	receiver = utils.NormalizeAddress(receiver)
	if sender == receiver {
		return nil, ErrSelfAction
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	message := &models.Message{
		SenderAddress:   sender,
		ReceiverAddress: receiver,
		Text:            text,
	}
	if err := ms.store.InsertMessage(ctx, message); err != nil {
		return nil, err
	}

	if ms.notify != nil {
		ms.notify.Fanout(ctx, models.NotificationMessage, receiver, sender, nil)
	}
	if ms.hub != nil {
		ms.hub.Publish(events.Event{
			Kind:       events.KindMessage,
			Recipient:  receiver,
			Originator: sender,
			Payload:    message,
			CreatedAt:  time.Now(),
		})
	}

	return message, nil
}

// Conversations groups the wallet's messages by counterpart and reports the
// latest message plus the unread count per counterpart, newest first.
func (ms *MessageService) Conversations(ctx context.Context, address string) ([]Conversation, error) {
	address = utils.NormalizeAddress(address)

	messages, err := ms.store.ListMessagesForUser(ctx, address)
	if err != nil {
		return nil, err
	}

	grouped := lo.GroupBy(messages, func(m models.Message) string {
		if m.SenderAddress == address {
			return m.ReceiverAddress
		}
		return m.SenderAddress
	})

	conversations := make([]Conversation, 0, len(grouped))
	for counterpart, group := range grouped {
		// Messages arrive newest first, so the head is the latest.
		unread := lo.CountBy(group, func(m models.Message) bool {
			return m.ReceiverAddress == address && !m.IsRead
		})
		conversations = append(conversations, Conversation{
			Counterpart: counterpart,
			LastMessage: group[0],
			UnreadCount: unread,
		})
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.CreatedAt.After(conversations[j].LastMessage.CreatedAt)
	})
	return conversations, nil
}

// History returns the full exchange between two wallets, oldest first.
func (ms *MessageService) History(ctx context.Context, a, b string) ([]models.Message, error) {
	return ms.store.ListMessagesBetween(ctx, utils.NormalizeAddress(a), utils.NormalizeAddress(b))
}

// MarkRead marks every unread message from counterpart to reader as read.
func (ms *MessageService) MarkRead(ctx context.Context, reader, counterpart string) error {
	return ms.store.MarkConversationRead(ctx, utils.NormalizeAddress(reader), utils.NormalizeAddress(counterpart))
}
