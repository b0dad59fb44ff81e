package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Method is how a payment was received.
type Method string

const (
	MethodTransfer Method = "transfer"
	MethodCash     Method = "cash"
	MethodCheque   Method = "cheque"
	MethodCard     Method = "card"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodTransfer, MethodCash, MethodCheque, MethodCard:
		return true
	}

	return false
}

func ParseMethod(value string) (Method, error) {
	m := Method(value)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid payment method %q", value)
	}

	return m, nil
}

// Payment is an append-only ledger entry. A nil ScheduleID marks a legacy entry that
// predates per-installment attribution.
type Payment struct {
	ID          uuid.UUID
	ContractID  uuid.UUID
	ScheduleID  *uuid.UUID
	Amount      int64 // Amount in cents
	Currency    string
	PaymentDate time.Time
	Method      Method
	PayerName   string
	Reference   string
	CreatedAt   time.Time
}
