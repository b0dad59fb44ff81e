package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
	"github.com/MrJamesThe3rd/oascms/internal/kv"
	"github.com/MrJamesThe3rd/oascms/internal/payment"
)

// BucketName is the kv bucket holding the payment ledger.
const BucketName = "payments"

// Store is the append-only payment ledger. Entries are keyed contractID/paymentID so a
// contract's ledger is a single prefix scan.
type Store struct {
	bucket kv.Bucket
}

func New(bucket kv.Bucket) *Store {
	return &Store{bucket: bucket}
}

func key(contractID, paymentID uuid.UUID) string {
	return contractID.String() + "/" + paymentID.String()
}

// AppendPayment stores a new ledger entry. Existing entries are never overwritten.
func (s *Store) AppendPayment(ctx context.Context, p *payment.Payment) error {
	data, err := json.Marshal(toRecord(p))
	if err != nil {
		return fmt.Errorf("encoding payment: %w", err)
	}

	if err := s.bucket.Insert(ctx, key(p.ContractID, p.ID), data); err != nil {
		if errors.Is(err, kv.ErrExists) {
			return fmt.Errorf("payment %s: %w", p.ID, apperr.ErrConflict)
		}

		return fmt.Errorf("appending payment: %w", err)
	}

	return nil
}

// ListPayments returns a contract's ledger ordered by creation time.
func (s *Store) ListPayments(ctx context.Context, contractID uuid.UUID) ([]*payment.Payment, error) {
	entries, err := s.bucket.Scan(ctx, contractID.String()+"/")
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}

	payments := make([]*payment.Payment, 0, len(entries))

	for _, e := range entries {
		var rec paymentRecord
		if err := json.Unmarshal(e.Value, &rec); err != nil {
			return nil, fmt.Errorf("decoding payment %s: %w", e.Key, err)
		}

		payments = append(payments, rec.toPayment())
	}

	sort.SliceStable(payments, func(i, j int) bool {
		if !payments[i].CreatedAt.Equal(payments[j].CreatedAt) {
			return payments[i].CreatedAt.Before(payments[j].CreatedAt)
		}

		return bytes.Compare(payments[i].ID[:], payments[j].ID[:]) < 0
	})

	return payments, nil
}

type paymentRecord struct {
	ID          uuid.UUID  `json:"id"`
	ContractID  uuid.UUID  `json:"contractId"`
	ScheduleID  *uuid.UUID `json:"scheduleId"`
	Amount      int64      `json:"amount"`
	Currency    string     `json:"currency"`
	PaymentDate time.Time  `json:"paymentDate"`
	Method      string     `json:"method"`
	PayerName   string     `json:"payerName,omitempty"`
	Reference   string     `json:"reference,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toRecord(p *payment.Payment) paymentRecord {
	return paymentRecord{
		ID:          p.ID,
		ContractID:  p.ContractID,
		ScheduleID:  p.ScheduleID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		PaymentDate: p.PaymentDate,
		Method:      string(p.Method),
		PayerName:   p.PayerName,
		Reference:   p.Reference,
		CreatedAt:   p.CreatedAt,
	}
}

func (rec paymentRecord) toPayment() *payment.Payment {
	return &payment.Payment{
		ID:          rec.ID,
		ContractID:  rec.ContractID,
		ScheduleID:  rec.ScheduleID,
		Amount:      rec.Amount,
		Currency:    rec.Currency,
		PaymentDate: rec.PaymentDate,
		Method:      payment.Method(rec.Method),
		PayerName:   rec.PayerName,
		Reference:   rec.Reference,
		CreatedAt:   rec.CreatedAt,
	}
}
