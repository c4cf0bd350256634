package domain

// PaymentStatus tracks the overall payment lifecycle of a purchase.
// It is the authoritative state machine; blockchain and fulfillment
// statuses follow it.
type PaymentStatus string

const (
	// PaymentStatusPending is the initial state of a freshly created purchase
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusProcessing means the card payment succeeded and token delivery is owed
	PaymentStatusProcessing PaymentStatus = "processing"
	// PaymentStatusCompleted means tokens were delivered and the purchase is settled
	PaymentStatusCompleted PaymentStatus = "completed"
	// PaymentStatusFailed means the payment or the token transfer failed
	PaymentStatusFailed PaymentStatus = "failed"
)

// Valid reports whether s is a known payment status
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed except an explicit retry
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// BlockchainStatus tracks the on-chain token transfer lifecycle
type BlockchainStatus string

const (
	// BlockchainStatusPending means no transfer has been attempted yet
	BlockchainStatusPending BlockchainStatus = "pending"
	// BlockchainStatusProcessing means a transfer has been submitted and awaits confirmation
	BlockchainStatusProcessing BlockchainStatus = "processing"
	// BlockchainStatusConfirmed means the transfer reached the confirmed commitment level
	BlockchainStatusConfirmed BlockchainStatus = "confirmed"
	// BlockchainStatusFailed means submission or confirmation failed
	BlockchainStatusFailed BlockchainStatus = "failed"
)

// Valid reports whether s is a known blockchain status
func (s BlockchainStatus) Valid() bool {
	switch s {
	case BlockchainStatusPending, BlockchainStatusProcessing, BlockchainStatusConfirmed, BlockchainStatusFailed:
		return true
	}
	return false
}

// FulfillmentStatus is the admin-facing delivery state. It is a derived
// view of BlockchainStatus and is never mutated independently; see
// DeriveFulfillmentStatus.
type FulfillmentStatus string

const (
	FulfillmentStatusPending    FulfillmentStatus = "pending"
	FulfillmentStatusProcessing FulfillmentStatus = "processing"
	FulfillmentStatusCompleted  FulfillmentStatus = "completed"
	FulfillmentStatusFailed     FulfillmentStatus = "failed"
)

// Valid reports whether s is a known fulfillment status
func (s FulfillmentStatus) Valid() bool {
	switch s {
	case FulfillmentStatusPending, FulfillmentStatusProcessing, FulfillmentStatusCompleted, FulfillmentStatusFailed:
		return true
	}
	return false
}

// DeriveFulfillmentStatus maps the canonical blockchain status onto the
// admin-facing fulfillment status. Every write of fulfillment_status goes
// through this function.
func DeriveFulfillmentStatus(s BlockchainStatus) FulfillmentStatus {
	switch s {
	case BlockchainStatusProcessing:
		return FulfillmentStatusProcessing
	case BlockchainStatusConfirmed:
		return FulfillmentStatusCompleted
	case BlockchainStatusFailed:
		return FulfillmentStatusFailed
	default:
		return FulfillmentStatusPending
	}
}

/// paymentTransitions is the closed transition table for PaymentStatus:
//
//	pending    --(payment succeeded webhook)--> processing
//	pending    --(payment failed/canceled)----> failed
//	processing --(fulfillment completed)------> completed
//	processing --(transfer failure)-----------> failed
//	failed     --(explicit admin retry)-------> pending
//
// completed is terminal; failed is terminal absent an explicit retry.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusFailed},
	PaymentStatusProcessing: {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusFailed:     {PaymentStatusPending},
	PaymentStatusCompleted:  {},
}

// CanTransition reports whether the payment state machine allows from -> to
func CanTransition(from, to PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BlockchainStatusConsistentWith reports whether bs is an allowed blockchain
// status for a transaction in payment status ps. These are the row invariants
// the reconciliation pass enforces.
func BlockchainStatusConsistentWith(ps PaymentStatus, bs BlockchainStatus) bool {
	switch ps {
	case PaymentStatusCompleted:
		return bs == BlockchainStatusConfirmed
	case PaymentStatusFailed:
		return bs == BlockchainStatusFailed || bs == BlockchainStatusPending
	case PaymentStatusProcessing:
		return bs == BlockchainStatusProcessing || bs == BlockchainStatusPending
	default:
		return bs == BlockchainStatusPending
	}
}
