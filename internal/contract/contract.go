package contract

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StageType is a phase of the payment plan. Stages are paid in declaration order.
type StageType string

const (
	StageDeposit  StageType = "Deposit"
	StageProgress StageType = "Progress"
	StageFinal    StageType = "Final"
)

// ScheduleStatus is the cached status of an installment. Reconciliation against the
// payment ledger is authoritative; this field is only a hint.
type ScheduleStatus string

const (
	SchedulePending ScheduleStatus = "pending"
	SchedulePaid    ScheduleStatus = "paid"
	ScheduleOverdue ScheduleStatus = "overdue"
)

// Status represents the lifecycle state of a contract.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusTerminated Status = "terminated"
)

var transitions = map[Status][]Status{
	StatusDraft:  {StatusActive, StatusTerminated},
	StatusActive: {StatusCompleted, StatusTerminated},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusCompleted, StatusTerminated:
		return true
	}

	return false
}

// CanTransitionTo reports whether a contract in status s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid contract status %q", value)
	}

	return s, nil
}

// Schedule is one installment of a contract's payment plan.
type Schedule struct {
	ID            uuid.UUID
	StageType     StageType
	InstallmentNo int // 1-based within the stage
	Name          string
	DueDate       time.Time
	Amount        int64 // Amount in cents
	Status        ScheduleStatus
}

// Contract is a sale contract for a single unit.
type Contract struct {
	ID               uuid.UUID
	ProjectID        string
	UnitNumber       string
	CustomerName     string
	TotalAmount      int64 // Amount in cents
	Status           Status
	ContractDate     time.Time
	PaymentSchedules []Schedule
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// Schedule returns the installment with the given id, or nil.
func (c *Contract) Schedule(id uuid.UUID) *Schedule {
	for i := range c.PaymentSchedules {
		if c.PaymentSchedules[i].ID == id {
			return &c.PaymentSchedules[i]
		}
	}

	return nil
}
