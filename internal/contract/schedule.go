package contract

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
	"github.com/MrJamesThe3rd/oascms/internal/money"
)

// stage describes one phase of the installment plan.
type stage struct {
	kind    StageType
	count   int
	percent int64 // of the contract total, per installment
	due     func(contractDate time.Time, n int) time.Time
}

// plan is the fixed installment template: 2x10% deposit, 4x10% progress, 40% final.
var plan = []stage{
	{
		kind:    StageDeposit,
		count:   2,
		percent: 10,
		due:     func(d time.Time, n int) time.Time { return d.AddDate(0, 0, (n-1)*7) },
	},
	{
		kind:    StageProgress,
		count:   4,
		percent: 10,
		due:     func(d time.Time, n int) time.Time { return d.AddDate(0, n*3, 0) },
	},
	{
		kind:    StageFinal,
		count:   1,
		percent: 40,
		due:     func(d time.Time, _ int) time.Time { return d.AddDate(0, 18, 0) },
	},
}

// GenerateSchedules builds the installment plan for a contract of totalAmount cents signed
// on contractDate. Installment amounts always sum to totalAmount exactly: truncation
// residue from the percentage splits is added to the final installment.
func GenerateSchedules(totalAmount int64, contractDate time.Time) ([]Schedule, error) {
	if totalAmount <= 0 {
		return nil, apperr.Invalid("total amount must be positive, got %d", totalAmount)
	}

	if contractDate.IsZero() {
		return nil, apperr.Invalid("contract date is required")
	}

	date := DateOnly(contractDate)
	schedules := make([]Schedule, 0, 7)

	var allocated int64

	for _, st := range plan {
		for n := 1; n <= st.count; n++ {
			amount := money.Percent(totalAmount, st.percent)
			allocated += amount

			schedules = append(schedules, Schedule{
				ID:            uuid.New(),
				StageType:     st.kind,
				InstallmentNo: n,
				Name:          installmentName(st, n),
				DueDate:       st.due(date, n),
				Amount:        amount,
				Status:        SchedulePending,
			})
		}
	}

	schedules[len(schedules)-1].Amount += totalAmount - allocated

	return schedules, nil
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func installmentName(st stage, n int) string {
	if st.count == 1 {
		return fmt.Sprintf("%s Payment", st.kind)
	}

	return fmt.Sprintf("%s %d", st.kind, n)
}
