package contract

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
	"github.com/MrJamesThe3rd/oascms/internal/logger"
)

var validate = validator.New()

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=contract
type Repository interface {
	CreateContract(ctx context.Context, c *Contract) error
	GetContract(ctx context.Context, id uuid.UUID) (*Contract, error)
	SaveContract(ctx context.Context, c *Contract) error
	ListContracts(ctx context.Context, projectID string) ([]*Contract, error)
}

type Service struct {
	repo Repository
	log  *logger.Logger
	now  func() time.Time
}

type Option func(*Service)

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides time.Now for timestamps and the default contract date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	ProjectID    string `validate:"required"`
	UnitNumber   string `validate:"required"`
	CustomerName string `validate:"required"`
	TotalAmount  int64  `validate:"gt=0"`
	// ContractDate defaults to today.
	ContractDate time.Time
	// SkipSchedules leaves the payment plan empty so it can be generated later.
	SkipSchedules bool
}

// Create stores a draft contract, generating its payment plan unless asked not to.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Contract, error) {
	if err := apperr.FromValidation(validate.Struct(params)); err != nil {
		return nil, err
	}

	now := s.now().UTC()

	date := params.ContractDate
	if date.IsZero() {
		date = now
	}

	c := &Contract{
		ID:               uuid.New(),
		ProjectID:        params.ProjectID,
		UnitNumber:       params.UnitNumber,
		CustomerName:     params.CustomerName,
		TotalAmount:      params.TotalAmount,
		Status:           StatusDraft,
		ContractDate:     DateOnly(date),
		PaymentSchedules: []Schedule{},
		CreatedAt:        now,
	}

	if !params.SkipSchedules {
		schedules, err := GenerateSchedules(c.TotalAmount, c.ContractDate)
		if err != nil {
			return nil, err
		}

		c.PaymentSchedules = schedules
	}

	if err := s.repo.CreateContract(ctx, c); err != nil {
		return nil, fmt.Errorf("creating contract: %w", err)
	}

	s.log.Info(ctx, "contract created", map[string]any{
		"contract_id":  c.ID.String(),
		"project_id":   c.ProjectID,
		"unit":         c.UnitNumber,
		"total_amount": c.TotalAmount,
		"installments": len(c.PaymentSchedules),
	})

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Contract, error) {
	return s.repo.GetContract(ctx, id)
}

// List returns the contracts of a project, or every contract when projectID is empty.
func (s *Service) List(ctx context.Context, projectID string) ([]*Contract, error) {
	return s.repo.ListContracts(ctx, projectID)
}

// GenerateSchedules builds the payment plan of a contract that has none yet.
func (s *Service) GenerateSchedules(ctx context.Context, id uuid.UUID) (*Contract, error) {
	c, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting contract: %w", err)
	}

	if len(c.PaymentSchedules) > 0 {
		return nil, apperr.InvalidState("contract %s already has %d installments", c.ID, len(c.PaymentSchedules))
	}

	schedules, err := GenerateSchedules(c.TotalAmount, c.ContractDate)
	if err != nil {
		return nil, err
	}

	c.PaymentSchedules = schedules

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Contract, error) {
	if !status.IsValid() {
		return nil, apperr.Invalid("unknown contract status %q", status)
	}

	c, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting contract: %w", err)
	}

	if !c.Status.CanTransitionTo(status) {
		return nil, apperr.InvalidState("contract %s cannot move from %s to %s", c.ID, c.Status, status)
	}

	prev := c.Status
	c.Status = status

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "contract status changed", map[string]any{
		"contract_id": c.ID.String(),
		"from":        string(prev),
		"to":          string(status),
	})

	return c, nil
}

// MarkSchedulePaid sets the cached status of an installment to paid.
// It does not record a payment and does not change what reconciliation reports.
func (s *Service) MarkSchedulePaid(ctx context.Context, contractID, scheduleID uuid.UUID) error {
	c, err := s.repo.GetContract(ctx, contractID)
	if err != nil {
		return fmt.Errorf("getting contract: %w", err)
	}

	sched := c.Schedule(scheduleID)
	if sched == nil {
		return fmt.Errorf("schedule %s on contract %s: %w", scheduleID, contractID, apperr.ErrNotFound)
	}

	if sched.Status == SchedulePaid {
		return nil
	}

	sched.Status = SchedulePaid

	return s.save(ctx, c)
}

func (s *Service) save(ctx context.Context, c *Contract) error {
	c.UpdatedAt = new(s.now().UTC())

	if err := s.repo.SaveContract(ctx, c); err != nil {
		return fmt.Errorf("saving contract: %w", err)
	}

	return nil
}
