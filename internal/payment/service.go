package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
	"github.com/MrJamesThe3rd/oascms/internal/contract"
	"github.com/MrJamesThe3rd/oascms/internal/logger"
	"github.com/MrJamesThe3rd/oascms/internal/metrics"
)

var validate = validator.New()

// DefaultCurrency is used when neither the payment nor the service names one.
const DefaultCurrency = "THB"

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payment
type Repository interface {
	AppendPayment(ctx context.Context, p *Payment) error
	ListPayments(ctx context.Context, contractID uuid.UUID) ([]*Payment, error)
}

// Contracts is the slice of the contract service the ledger depends on.
type Contracts interface {
	Get(ctx context.Context, id uuid.UUID) (*contract.Contract, error)
	MarkSchedulePaid(ctx context.Context, contractID, scheduleID uuid.UUID) error
}

type Service struct {
	repo      Repository
	contracts Contracts
	log       *logger.Logger
	metrics   *metrics.Recorder
	now       func() time.Time
	currency  string
}

type Option func(*Service)

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides time.Now for timestamps and for "today" during reconciliation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithDefaultCurrency(code string) Option {
	return func(s *Service) {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			s.currency = code
		}
	}
}

func NewService(repo Repository, contracts Contracts, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		contracts: contracts,
		now:       time.Now,
		currency:  DefaultCurrency,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type RecordParams struct {
	ContractID uuid.UUID `validate:"required"`
	// ScheduleID is optional. Without it the payment is credited to the first deposit.
	ScheduleID  *uuid.UUID
	Amount      int64  `validate:"gt=0"`
	Currency    string `validate:"omitempty,len=3,alpha"`
	PaymentDate time.Time
	Method      Method
	PayerName   string
	Reference   string
}

// Record appends a payment to the ledger. When the payment completes its installment the
// installment's cached status is bumped to paid; a failure there is logged and not returned
// since reconciliation does not depend on it.
func (s *Service) Record(ctx context.Context, params RecordParams) (*Payment, error) {
	if err := apperr.FromValidation(validate.Struct(params)); err != nil {
		return nil, err
	}

	if params.Method != "" && !params.Method.IsValid() {
		return nil, apperr.Invalid("unknown payment method %q", params.Method)
	}

	c, err := s.contracts.Get(ctx, params.ContractID)
	if err != nil {
		return nil, fmt.Errorf("getting contract: %w", err)
	}

	if params.ScheduleID != nil && c.Schedule(*params.ScheduleID) == nil {
		return nil, apperr.Invalid("installment %s is not part of contract %s", *params.ScheduleID, c.ID)
	}

	now := s.now().UTC()

	p := &Payment{
		ID:          uuid.New(),
		ContractID:  c.ID,
		ScheduleID:  params.ScheduleID,
		Amount:      params.Amount,
		Currency:    s.currency,
		PaymentDate: params.PaymentDate,
		Method:      params.Method,
		PayerName:   params.PayerName,
		Reference:   params.Reference,
		CreatedAt:   now,
	}

	if params.Currency != "" {
		p.Currency = strings.ToUpper(params.Currency)
	}

	if p.PaymentDate.IsZero() {
		p.PaymentDate = contract.DateOnly(now)
	}

	if p.Method == "" {
		p.Method = MethodTransfer
	}

	if err := s.repo.AppendPayment(ctx, p); err != nil {
		return nil, fmt.Errorf("appending payment: %w", err)
	}

	s.metrics.IncPayment()

	s.log.Info(ctx, "payment recorded", map[string]any{
		"payment_id":  p.ID.String(),
		"contract_id": p.ContractID.String(),
		"amount":      p.Amount,
		"currency":    p.Currency,
	})

	if p.ScheduleID != nil {
		s.bumpScheduleStatus(ctx, c, *p.ScheduleID)
	}

	return p, nil
}

func (s *Service) bumpScheduleStatus(ctx context.Context, c *contract.Contract, scheduleID uuid.UUID) {
	if c.Schedule(scheduleID).Status == contract.SchedulePaid {
		return
	}

	payments, err := s.repo.ListPayments(ctx, c.ID)
	if err != nil {
		s.log.Warn(ctx, "skipping installment status refresh", map[string]any{
			"contract_id": c.ID.String(),
			"error":       err.Error(),
		})

		return
	}

	report := Reconcile(c, payments, s.now())

	for _, line := range report.Lines {
		if line.Schedule.ID != scheduleID || line.Status != StatusPaid {
			continue
		}

		if err := s.contracts.MarkSchedulePaid(ctx, c.ID, scheduleID); err != nil {
			s.log.Warn(ctx, "marking installment paid failed", map[string]any{
				"contract_id": c.ID.String(),
				"schedule_id": scheduleID.String(),
				"error":       err.Error(),
			})
		}
	}
}

// List returns the ledger of a contract ordered by creation time.
func (s *Service) List(ctx context.Context, contractID uuid.UUID) ([]*Payment, error) {
	return s.repo.ListPayments(ctx, contractID)
}

// Reconcile reports the ledger-derived state of every installment of a contract as of today.
func (s *Service) Reconcile(ctx context.Context, contractID uuid.UUID) (*Report, error) {
	c, err := s.contracts.Get(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("getting contract: %w", err)
	}

	payments, err := s.repo.ListPayments(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}

	report := Reconcile(c, payments, s.now())

	for _, w := range report.Warnings {
		s.metrics.IncWarning(w.Kind)

		fields := map[string]any{
			"contract_id": contractID.String(),
			"payment_id":  w.PaymentID.String(),
			"kind":        w.Kind,
			"amount":      w.Amount,
		}
		if w.ScheduleID != nil {
			fields["schedule_id"] = w.ScheduleID.String()
		}

		s.log.Warn(ctx, w.Message, fields)
	}

	return report, nil
}
