package services

import (
	"context"
	"faceboobs/server/internal/models"
	"faceboobs/shared/logger"
	"faceboobs/shared/notifications"
	"faceboobs/shared/utils"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SyncState tracks how far the off-chain record of an on-chain purchase got.
// The chain transfer is irreversible, so a failed database write is reported
// as an explicit state instead of rolling anything back.
type SyncState string

const (
	SyncLocalOnly  SyncState = "local-only"
	SyncInProgress SyncState = "syncing"
	SyncDone       SyncState = "synced"
	SyncFailed     SyncState = "sync-failed"
)

// ContractPurchaser is the contract surface the purchase flow needs.
type ContractPurchaser interface {
	PurchaseContent(ctx context.Context, contentID int64, valueWei *big.Int) (string, error)
}

// PurchaseStore is the persistence surface for settled purchases.
type PurchaseStore interface {
	InsertPurchase(ctx context.Context, purchase *models.Purchase) error
	PurchaseExists(ctx context.Context, buyer string, postID uint) (bool, error)
	ListPurchasesByBuyer(ctx context.Context, buyer string) ([]models.Purchase, error)
	RecountPurchaseCount(ctx context.Context, postID uint) error
}

// PurchaseResult reports the outcome of a purchase attempt. AccessGranted is
// true whenever the chain transaction settled, independent of SyncState.
type PurchaseResult struct {
	PostID          uint      `json:"postId"`
	BuyerAddress    string    `json:"buyerAddress"`
	Amount          string    `json:"amount"`
	TransactionHash string    `json:"transactionHash"`
	SyncState       SyncState `json:"syncState"`
	AccessGranted   bool      `json:"accessGranted"`
}

// PurchaseService owns the purchase/access reconciliation sequence: convert
// price to base units, settle on-chain, then best-effort persist and notify.
type PurchaseService struct {
	contract  ContractPurchaser
	store     PurchaseStore
	posts     PostReader
	notify    *NotificationService
	appLogger *logger.Logger
	opsAlerts bool
}

func NewPurchaseService(contract ContractPurchaser, store PurchaseStore, posts PostReader, notify *NotificationService, appLogger *logger.Logger, opsAlerts bool) *PurchaseService {
	return &PurchaseService{
		contract:  contract,
		store:     store,
		posts:     posts,
		notify:    notify,
		appLogger: appLogger,
		opsAlerts: opsAlerts,
	}
}

// Purchase runs the full sequence for one attempt. Every failure before the
// chain call is terminal and surfaced; every failure after it is best-effort
// and reflected in SyncState, never in the returned error. No automatic retry
// is performed; the caller must re-invoke.
func (ps *PurchaseService) Purchase(ctx context.Context, buyerAddress string, postID uint) (*PurchaseResult, error) {
	buyerAddress = utils.NormalizeAddress(buyerAddress)

	post, err := ps.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("loading post %d: %w", postID, err)
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if post.CreatorAddress == buyerAddress {
		return nil, ErrSelfAction
	}
	if !post.IsPaid || post.BlockchainContentID == nil {
		return nil, ErrNotPayable
	}
	if ps.contract == nil {
		return nil, ErrChainUnreachable
	}

	valueWei, err := priceToWei(post.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q: %v", ErrNotPayable, post.Price, err)
	}

	result := &PurchaseResult{
		PostID:       postID,
		BuyerAddress: buyerAddress,
		Amount:       post.Price,
		SyncState:    SyncLocalOnly,
	}

	txHash, err := ps.contract.PurchaseContent(ctx, *post.BlockchainContentID, valueWei)
	if err != nil {
		return nil, err
	}

	// The transfer is settled on-chain from here on. Access is granted for
	// the session no matter what the database says.
	result.TransactionHash = txHash
	result.AccessGranted = true
	result.SyncState = SyncInProgress

	purchase := &models.Purchase{
		BuyerAddress:    buyerAddress,
		PostID:          postID,
		Amount:          post.Price,
		TransactionHash: txHash,
	}
	if err := ps.store.InsertPurchase(ctx, purchase); err != nil {
		result.SyncState = SyncFailed
		ps.appLogger.Warn("Purchase settled on-chain but database sync failed",
			zap.String("buyer", buyerAddress),
			zap.Uint("postId", postID),
			zap.String("txHash", txHash),
			zap.Error(err))
	} else {
		result.SyncState = SyncDone
		if err := ps.store.RecountPurchaseCount(ctx, postID); err != nil {
			ps.appLogger.Warn("Purchase count recount failed",
				zap.Uint("postId", postID), zap.Error(err))
		}
	}

	if ps.notify != nil {
		ps.notify.Fanout(ctx, models.NotificationPurchase, post.CreatorAddress, buyerAddress, &postID)
	}
	if ps.opsAlerts {
		notifications.LogPurchaseSettled(buyerAddress, postID, post.Price, txHash, result.SyncState == SyncDone)
	}

	return result, nil
}

// HasAccess re-derives the access predicate: requester is the creator, or the
// post is free, or a purchase row exists. No caching layer sits in front.
func (ps *PurchaseService) HasAccess(ctx context.Context, requesterAddress string, postID uint) (bool, error) {
	requesterAddress = utils.NormalizeAddress(requesterAddress)

	post, err := ps.posts.GetPost(ctx, postID)
	if err != nil {
		return false, fmt.Errorf("loading post %d: %w", postID, err)
	}
	if post == nil {
		return false, ErrNotFound
	}
	if post.CreatorAddress == requesterAddress {
		return true, nil
	}
	if !post.IsPaid {
		return true, nil
	}
	return ps.store.PurchaseExists(ctx, requesterAddress, postID)
}

func (ps *PurchaseService) ListByBuyer(ctx context.Context, buyerAddress string) ([]models.Purchase, error) {
	return ps.store.ListPurchasesByBuyer(ctx, utils.NormalizeAddress(buyerAddress))
}

// priceToWei converts a display-currency decimal string to the chain's
// integer base-unit representation.
func priceToWei(price string) (*big.Int, error) {
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	if parsed.Sign() <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}
	wei := parsed.Mul(decimal.New(1, 18))
	if !wei.IsInteger() {
		return nil, fmt.Errorf("price %s has more precision than one wei", price)
	}
	return wei.BigInt(), nil
}
