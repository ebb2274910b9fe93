package entities

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the payment state of an entry
type PaymentStatus string

const (
	PaymentStatusUnpaid    PaymentStatus = "unpaid"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Entry is the ledger row for one user's attempt to join one contest.
// The fee is snapshotted at entry time; it is never recomputed from
// the contest.
type Entry struct {
	ID                uuid.UUID     `json:"id"`
	UserID            uuid.UUID     `json:"userId"`
	ContestID         uuid.UUID     `json:"contestId"`
	FeeKobo           int64         `json:"feeKobo"`
	PaymentStatus     PaymentStatus `json:"paymentStatus"`
	PaymentReference  string        `json:"paymentReference,omitempty"`
	IsFree            bool          `json:"isFree"`
	WinnerPosition    *int          `json:"winnerPosition,omitempty"` // 1, 2 or 3
	IsPromotedForward bool          `json:"isPromotedForward"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// Settled reports whether the entry grants access to submission:
// paid in full or satisfied by a promotion.
func (e *Entry) Settled() bool {
	return e.PaymentStatus == PaymentStatusCompleted || e.IsFree
}

// DecisionKind tags an EntryDecision
type DecisionKind string

const (
	DecisionAlreadyEntered   DecisionKind = "already_entered"
	DecisionFreeEntryGranted DecisionKind = "free_entry_granted"
	DecisionPaymentRequired  DecisionKind = "payment_required"
)

// EntryDecision is the outcome of a RequestEntry call. Exactly one
// variant applies; PaymentRequired carries the gateway handle.
type EntryDecision struct {
	Kind       DecisionKind `json:"kind"`
	Entry      *Entry       `json:"entry"`
	AmountKobo int64        `json:"amountKobo,omitempty"`
	Reference  string       `json:"reference,omitempty"`
	AccessCode string       `json:"accessCode,omitempty"`
}

// ReconciliationResult is the outcome of reconciling a payment
// reference against the gateway.
type ReconciliationResult struct {
	Reference      string        `json:"reference"`
	Status         PaymentStatus `json:"status"`
	AmountPaidKobo int64         `json:"amountPaidKobo,omitempty"`
	AlreadySettled bool          `json:"alreadySettled"`
}
