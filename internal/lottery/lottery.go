package lottery

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PriorityGroup is an eligibility tier. Groups are listed in precedence order.
type PriorityGroup string

const (
	GroupFirstTime PriorityGroup = "P1_FIRST_TIME"
	GroupVeteran   PriorityGroup = "P2_VETERAN"
	GroupLocal     PriorityGroup = "P3_LOCAL"
	GroupGeneral   PriorityGroup = "P4_GENERAL"
)

var priorityGroups = []PriorityGroup{
	GroupFirstTime,
	GroupVeteran,
	GroupLocal,
	GroupGeneral,
}

// IsValid reports whether g is a known priority group.
func (g PriorityGroup) IsValid() bool {
	for _, candidate := range priorityGroups {
		if candidate == g {
			return true
		}
	}

	return false
}

// ParsePriorityGroup converts raw input into a PriorityGroup.
func ParsePriorityGroup(value string) (PriorityGroup, error) {
	g := PriorityGroup(value)
	if !g.IsValid() {
		return "", fmt.Errorf("invalid priority group %q", value)
	}

	return g, nil
}

// ApplicantStatus is pending until the round is drawn, then won or lost for good.
type ApplicantStatus string

const (
	ApplicantPending ApplicantStatus = "pending"
	ApplicantWon     ApplicantStatus = "won"
	ApplicantLost    ApplicantStatus = "lost"
)

// RoundStatus only moves forward: open -> closed, or open -> drawn.
type RoundStatus string

const (
	RoundOpen   RoundStatus = "open"
	RoundClosed RoundStatus = "closed"
	RoundDrawn  RoundStatus = "drawn"
)

const WaitingStatusWaiting = "waiting"

// MaxPreferences is the number of ranked unit preferences an applicant may give.
const MaxPreferences = 3

// ApplicantProfile holds the scoring inputs of an applicant.
type ApplicantProfile struct {
	Age              int `validate:"gte=18"`
	FamilySize       int `validate:"gte=1"`
	YearsOfResidence int `validate:"gte=0"`
	IsFirstTimeBuyer bool
}

// Preference is a ranked unit choice, rank 1 being the most wanted.
type Preference struct {
	UnitID string
	Rank   int
}

// Applicant is a lottery entry.
type Applicant struct {
	ID              uuid.UUID
	Name            string
	Phone           string
	Email           string
	PriorityGroup   PriorityGroup
	Profile         ApplicantProfile
	Preferences     []Preference
	Status          ApplicantStatus
	AllocatedUnitID *string
	PriorityScore   int
	SubmittedAt     time.Time
}

type WaitingListEntry struct {
	ApplicantID uuid.UUID
	Rank        int
	Status      string
}

// Round is a lottery round. Applicants are kept in submission order.
type Round struct {
	ID             uuid.UUID
	ProjectID      string
	Name           string
	StartDate      time.Time
	EndDate        time.Time
	TotalWinners   int
	AvailableUnits []string
	Status         RoundStatus
	Applicants     []*Applicant
	WaitingList    []WaitingListEntry
	CreatedAt      time.Time
	DrawnAt        *time.Time
}

// Applicant returns the applicant with the given id, or nil.
func (r *Round) Applicant(id uuid.UUID) *Applicant {
	for _, a := range r.Applicants {
		if a.ID == id {
			return a
		}
	}

	return nil
}

func (r *Round) clone() *Round {
	cp := *r
	cp.AvailableUnits = append([]string(nil), r.AvailableUnits...)
	cp.WaitingList = append([]WaitingListEntry(nil), r.WaitingList...)

	if r.DrawnAt != nil {
		cp.DrawnAt = new(*r.DrawnAt)
	}

	cp.Applicants = make([]*Applicant, len(r.Applicants))
	for i, a := range r.Applicants {
		ac := *a
		ac.Preferences = append([]Preference(nil), a.Preferences...)

		if a.AllocatedUnitID != nil {
			ac.AllocatedUnitID = new(*a.AllocatedUnitID)
		}

		cp.Applicants[i] = &ac
	}

	return &cp
}
