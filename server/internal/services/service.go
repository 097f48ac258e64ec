package services

import "errors"

// Follow and like actions reported back to callers.
const (
	ActionFollowed         = "followed"
	ActionAlreadyFollowing = "already_following"
	ActionUnfollowed       = "unfollowed"
	ActionNotFollowing     = "not_following"
	ActionLiked            = "liked"
	ActionUnliked          = "unliked"
)

// Validation and domain errors surfaced to the API layer.
var (
	ErrInvalidAddress = errors.New("invalid wallet address")
	ErrSelfAction     = errors.New("action cannot target your own account")
	ErrNotFound       = errors.New("record not found")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrNotOwner       = errors.New("caller does not own this record")
	ErrNotCreator     = errors.New("caller is not a creator account")
	ErrNotPayable     = errors.New("content is not payable")
	ErrEmptyText      = errors.New("text must not be empty")
)

// Chain-facing errors, one per branch of the purchase failure taxonomy. All
// are terminal for the attempt; no automatic retry is performed.
var (
	ErrSignerUnavailable = errors.New("no signing key configured")
	ErrWrongChain        = errors.New("connected node reports an unexpected chain id")
	ErrInsufficientFunds = errors.New("insufficient balance for purchase")
	ErrTxReverted        = errors.New("transaction reverted")
	ErrChainUnreachable  = errors.New("chain endpoint unreachable")
)
