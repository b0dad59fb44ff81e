package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/oascms/internal/contract"
)

// DerivedStatus is the ledger-derived state of an installment.
type DerivedStatus string

const (
	StatusPaid     DerivedStatus = "PAID"
	StatusPartial  DerivedStatus = "PARTIAL"
	StatusOverdue  DerivedStatus = "OVERDUE"
	StatusDueToday DerivedStatus = "DUE_TODAY"
	StatusPending  DerivedStatus = "PENDING"
)

// Warning kinds raised while reconciling.
const (
	WarnOrphanSchedule     = "orphan_schedule"
	WarnForeignContract    = "foreign_contract"
	WarnUnattributedLegacy = "unattributed_legacy"
)

// Warning is a non-fatal data integrity problem. The payment it names was left out of the totals.
type Warning struct {
	Kind       string
	PaymentID  uuid.UUID
	ScheduleID *uuid.UUID
	Amount     int64
	Message    string
}

// Line is the reconciled state of one installment.
type Line struct {
	Schedule    contract.Schedule
	Paid        int64
	Outstanding int64
	Status      DerivedStatus
	PaymentIDs  []uuid.UUID
}

// Report is the reconciliation of a contract's installments against its ledger.
type Report struct {
	ContractID       uuid.UUID
	AsOf             time.Time
	Lines            []Line
	TotalAmount      int64
	TotalPaid        int64
	TotalOutstanding int64
	// PaidPercent is TotalPaid over TotalAmount, rounded to two places. It can exceed 100.
	PaidPercent  float64
	OverdueCount int
	// NextDue is the earliest installment not yet paid in full, or nil.
	NextDue  *Line
	Warnings []Warning
}

// Reconcile derives paid and outstanding amounts per installment from the ledger. The stored
// schedule status is ignored. Payments that cannot be attributed are reported as warnings.
func Reconcile(c *contract.Contract, payments []*Payment, today time.Time) *Report {
	today = contract.DateOnly(today)

	report := &Report{
		ContractID: c.ID,
		AsOf:       today,
		Lines:      make([]Line, len(c.PaymentSchedules)),
		Warnings:   []Warning{},
	}

	index := make(map[uuid.UUID]int, len(c.PaymentSchedules))
	for i, s := range c.PaymentSchedules {
		index[s.ID] = i
		report.Lines[i] = Line{Schedule: s, PaymentIDs: []uuid.UUID{}}
	}

	legacy, hasLegacy := legacyScheduleIndex(c.PaymentSchedules)

	for _, p := range payments {
		if p.ContractID != c.ID {
			report.Warnings = append(report.Warnings, warn(WarnForeignContract, p,
				fmt.Sprintf("payment %s belongs to contract %s", p.ID, p.ContractID)))

			continue
		}

		var (
			i  int
			ok bool
		)

		if p.ScheduleID == nil {
			i, ok = legacy, hasLegacy
			if !ok {
				report.Warnings = append(report.Warnings, warn(WarnUnattributedLegacy, p,
					fmt.Sprintf("payment %s has no installment and the contract has no first deposit", p.ID)))

				continue
			}
		} else {
			i, ok = index[*p.ScheduleID]
			if !ok {
				report.Warnings = append(report.Warnings, warn(WarnOrphanSchedule, p,
					fmt.Sprintf("payment %s references unknown installment %s", p.ID, *p.ScheduleID)))

				continue
			}
		}

		report.Lines[i].Paid += p.Amount
		report.Lines[i].PaymentIDs = append(report.Lines[i].PaymentIDs, p.ID)
	}

	for i := range report.Lines {
		line := &report.Lines[i]
		line.Outstanding = max(0, line.Schedule.Amount-line.Paid)
		line.Status = deriveStatus(line.Schedule, line.Paid, today)

		report.TotalAmount += line.Schedule.Amount
		report.TotalPaid += line.Paid
		report.TotalOutstanding += line.Outstanding

		if line.Status == StatusOverdue {
			report.OverdueCount++
		}

		if line.Status != StatusPaid && (report.NextDue == nil || line.Schedule.DueDate.Before(report.NextDue.Schedule.DueDate)) {
			report.NextDue = line
		}
	}

	if report.TotalAmount > 0 {
		report.PaidPercent = decimal.NewFromInt(report.TotalPaid).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(report.TotalAmount)).
			Round(2).
			InexactFloat64()
	}

	return report
}

func deriveStatus(s contract.Schedule, paid int64, today time.Time) DerivedStatus {
	due := contract.DateOnly(s.DueDate)

	switch {
	case paid >= s.Amount:
		return StatusPaid
	case paid > 0:
		return StatusPartial
	case due.Before(today):
		return StatusOverdue
	case due.Equal(today):
		return StatusDueToday
	default:
		return StatusPending
	}
}

// legacyScheduleIndex locates the first deposit installment, the only installment that
// ledger entries without a schedule id are credited to. Drop this once legacy entries
// have been migrated to carry a schedule id.
func legacyScheduleIndex(schedules []contract.Schedule) (int, bool) {
	for i, s := range schedules {
		if s.StageType == contract.StageDeposit && s.InstallmentNo == 1 {
			return i, true
		}
	}

	return 0, false
}

func warn(kind string, p *Payment, msg string) Warning {
	return Warning{
		Kind:       kind,
		PaymentID:  p.ID,
		ScheduleID: p.ScheduleID,
		Amount:     p.Amount,
		Message:    msg,
	}
}
