package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// PaymentReference builds a gateway reference for one payment attempt.
// It encodes user, contest and amount for manual reconciliation, plus
// a random tail so a retried attempt never reuses a spent reference.
func PaymentReference(userID, contestID uuid.UUID, amountKobo int64) string {
	return fmt.Sprintf("entry-%s-%s-%d-%s",
		shortID(userID), shortID(contestID), amountKobo, shortID(GenerateUUIDv7()))
}

func shortID(id uuid.UUID) string {
	s := id.String()
	return s[:8]
}
