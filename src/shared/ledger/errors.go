package ledger

import "errors"

// Every operation fails with exactly one of these. An error is terminal for
// the call and leaves all state unmodified; infrastructure failures (store,
// encoding) pass through wrapped and are never folded into this set.
var (
	ErrInvalidFee           = errors.New("invalid platform fee")
	ErrInvalidGoal          = errors.New("invalid goal amount")
	ErrInvalidDuration      = errors.New("invalid campaign duration")
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrCampaignEnded        = errors.New("campaign ended")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrScoreExists          = errors.New("trust score already exists")
	ErrInsufficientFunds    = errors.New("insufficient campaign funds")
	ErrDisbursementNotFound = errors.New("disbursement not found")
	ErrNotApproved          = errors.New("disbursement not approved")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrCampaignInactive     = errors.New("campaign inactive")
	ErrInvalidInput         = errors.New("invalid input")
	ErrAlreadyInitialized   = errors.New("already initialized")
)
