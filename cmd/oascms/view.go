package main

import (
	"github.com/MrJamesThe3rd/oascms/internal/contract"
	"github.com/MrJamesThe3rd/oascms/internal/lottery"
	"github.com/MrJamesThe3rd/oascms/internal/money"
	"github.com/MrJamesThe3rd/oascms/internal/payment"
)

// JSON shapes printed by the CLI. Amounts are rendered as fixed two-decimal strings.

type roundView struct {
	ID             string          `json:"id"`
	ProjectID      string          `json:"projectId"`
	Name           string          `json:"name"`
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
	TotalWinners   int             `json:"totalWinners"`
	AvailableUnits []string        `json:"availableUnits"`
	Status         string          `json:"status"`
	Applicants     []applicantView `json:"applicants"`
	WaitingList    []waitingView   `json:"waitingList"`
	CreatedAt      string          `json:"createdAt"`
	DrawnAt        string          `json:"drawnAt,omitempty"`
}

type applicantView struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Phone           string           `json:"phone,omitempty"`
	Email           string           `json:"email,omitempty"`
	PriorityGroup   string           `json:"priorityGroup"`
	PriorityScore   int              `json:"priorityScore"`
	Status          string           `json:"status"`
	AllocatedUnitID *string          `json:"allocatedUnitId"`
	Preferences     []preferenceView `json:"preferences"`
}

type preferenceView struct {
	UnitID string `json:"unitId"`
	Rank   int    `json:"rank"`
}

type waitingView struct {
	ApplicantID string `json:"applicantId"`
	Rank        int    `json:"rank"`
	Status      string `json:"status"`
}

type resultView struct {
	RoundID     string          `json:"roundId"`
	Winners     []applicantView `json:"winners"`
	Unallocated []applicantView `json:"unallocated"`
	WaitingList []waitingView   `json:"waitingList"`
}

func newApplicantView(a *lottery.Applicant) applicantView {
	v := applicantView{
		ID:              a.ID.String(),
		Name:            a.Name,
		Phone:           a.Phone,
		Email:           a.Email,
		PriorityGroup:   string(a.PriorityGroup),
		PriorityScore:   a.PriorityScore,
		Status:          string(a.Status),
		AllocatedUnitID: a.AllocatedUnitID,
		Preferences:     make([]preferenceView, 0, len(a.Preferences)),
	}

	for _, p := range a.Preferences {
		v.Preferences = append(v.Preferences, preferenceView{UnitID: p.UnitID, Rank: p.Rank})
	}

	return v
}

func newWaitingViews(entries []lottery.WaitingListEntry) []waitingView {
	out := make([]waitingView, 0, len(entries))
	for _, w := range entries {
		out = append(out, waitingView{ApplicantID: w.ApplicantID.String(), Rank: w.Rank, Status: w.Status})
	}

	return out
}

func newRoundView(r *lottery.Round) roundView {
	v := roundView{
		ID:             r.ID.String(),
		ProjectID:      r.ProjectID,
		Name:           r.Name,
		StartDate:      dateString(r.StartDate),
		EndDate:        dateString(r.EndDate),
		TotalWinners:   r.TotalWinners,
		AvailableUnits: r.AvailableUnits,
		Status:         string(r.Status),
		Applicants:     make([]applicantView, 0, len(r.Applicants)),
		WaitingList:    newWaitingViews(r.WaitingList),
		CreatedAt:      timeString(&r.CreatedAt),
		DrawnAt:        timeString(r.DrawnAt),
	}

	for _, a := range r.Applicants {
		v.Applicants = append(v.Applicants, newApplicantView(a))
	}

	return v
}

func newResultView(r *lottery.Round, res *lottery.DrawResult) resultView {
	v := resultView{
		RoundID:     r.ID.String(),
		Winners:     make([]applicantView, 0, len(res.Winners)),
		Unallocated: make([]applicantView, 0, len(res.Unallocated)),
		WaitingList: newWaitingViews(res.WaitingList),
	}

	for _, a := range res.Winners {
		v.Winners = append(v.Winners, newApplicantView(a))
	}

	for _, a := range res.Unallocated {
		v.Unallocated = append(v.Unallocated, newApplicantView(a))
	}

	return v
}

type contractView struct {
	ID               string         `json:"id"`
	ProjectID        string         `json:"projectId"`
	UnitNumber       string         `json:"unitNumber"`
	CustomerName     string         `json:"customerName"`
	TotalAmount      string         `json:"totalAmount"`
	Status           string         `json:"status"`
	ContractDate     string         `json:"contractDate"`
	PaymentSchedules []scheduleView `json:"paymentSchedules"`
	CreatedAt        string         `json:"createdAt"`
}

type scheduleView struct {
	ID            string `json:"id"`
	StageType     string `json:"stageType"`
	InstallmentNo int    `json:"installmentNo"`
	Name          string `json:"name"`
	DueDate       string `json:"dueDate"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
}

func newScheduleView(s contract.Schedule) scheduleView {
	return scheduleView{
		ID:            s.ID.String(),
		StageType:     string(s.StageType),
		InstallmentNo: s.InstallmentNo,
		Name:          s.Name,
		DueDate:       dateString(s.DueDate),
		Amount:        money.Format(s.Amount),
		Status:        string(s.Status),
	}
}

func newContractView(c *contract.Contract) contractView {
	v := contractView{
		ID:               c.ID.String(),
		ProjectID:        c.ProjectID,
		UnitNumber:       c.UnitNumber,
		CustomerName:     c.CustomerName,
		TotalAmount:      money.Format(c.TotalAmount),
		Status:           string(c.Status),
		ContractDate:     dateString(c.ContractDate),
		PaymentSchedules: make([]scheduleView, 0, len(c.PaymentSchedules)),
		CreatedAt:        timeString(&c.CreatedAt),
	}

	for _, s := range c.PaymentSchedules {
		v.PaymentSchedules = append(v.PaymentSchedules, newScheduleView(s))
	}

	return v
}

type paymentView struct {
	ID          string `json:"id"`
	ContractID  string `json:"contractId"`
	ScheduleID  string `json:"scheduleId,omitempty"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	PaymentDate string `json:"paymentDate"`
	Method      string `json:"method"`
	PayerName   string `json:"payerName,omitempty"`
	Reference   string `json:"reference,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

func newPaymentView(p *payment.Payment) paymentView {
	return paymentView{
		ID:          p.ID.String(),
		ContractID:  p.ContractID.String(),
		ScheduleID:  idString(p.ScheduleID),
		Amount:      money.Format(p.Amount),
		Currency:    p.Currency,
		PaymentDate: dateString(p.PaymentDate),
		Method:      string(p.Method),
		PayerName:   p.PayerName,
		Reference:   p.Reference,
		CreatedAt:   timeString(&p.CreatedAt),
	}
}

type reportView struct {
	ContractID       string        `json:"contractId"`
	AsOf             string        `json:"asOf"`
	Lines            []lineView    `json:"lines"`
	TotalAmount      string        `json:"totalAmount"`
	TotalPaid        string        `json:"totalPaid"`
	TotalOutstanding string        `json:"totalOutstanding"`
	PaidPercent      float64       `json:"paidPercent"`
	OverdueCount     int           `json:"overdueCount"`
	NextDueID        string        `json:"nextDueScheduleId,omitempty"`
	Warnings         []warningView `json:"warnings"`
}

type lineView struct {
	Schedule    scheduleView `json:"schedule"`
	Paid        string       `json:"paid"`
	Outstanding string       `json:"outstanding"`
	Status      string       `json:"status"`
}

type warningView struct {
	Kind       string `json:"kind"`
	PaymentID  string `json:"paymentId"`
	ScheduleID string `json:"scheduleId,omitempty"`
	Amount     string `json:"amount"`
	Message    string `json:"message"`
}

func newReportView(r *payment.Report) reportView {
	v := reportView{
		ContractID:       r.ContractID.String(),
		AsOf:             dateString(r.AsOf),
		Lines:            make([]lineView, 0, len(r.Lines)),
		TotalAmount:      money.Format(r.TotalAmount),
		TotalPaid:        money.Format(r.TotalPaid),
		TotalOutstanding: money.Format(r.TotalOutstanding),
		PaidPercent:      r.PaidPercent,
		OverdueCount:     r.OverdueCount,
		Warnings:         make([]warningView, 0, len(r.Warnings)),
	}

	if r.NextDue != nil {
		v.NextDueID = r.NextDue.Schedule.ID.String()
	}

	for _, l := range r.Lines {
		v.Lines = append(v.Lines, lineView{
			Schedule:    newScheduleView(l.Schedule),
			Paid:        money.Format(l.Paid),
			Outstanding: money.Format(l.Outstanding),
			Status:      string(l.Status),
		})
	}

	for _, w := range r.Warnings {
		v.Warnings = append(v.Warnings, warningView{
			Kind:       w.Kind,
			PaymentID:  w.PaymentID.String(),
			ScheduleID: idString(w.ScheduleID),
			Amount:     money.Format(w.Amount),
			Message:    w.Message,
		})
	}

	return v
}
