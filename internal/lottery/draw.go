package lottery

import (
	"sort"
	"time"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
)

// DrawResult summarises a drawn round.
type DrawResult struct {
	// Winners in rank order.
	Winners []*Applicant
	// Unallocated are winners for whom no unit was left.
	Unallocated []*Applicant
	WaitingList []WaitingListEntry
}

// Draw ranks the applicants of an open round, marks winners and losers, allocates units and
// builds the waiting list. The input round is never modified: the drawn round is returned as
// a new value, so a failed draw leaves no partial state behind.
//
// Ranking is by priority score, descending. Ties keep submission order.
func Draw(round *Round, now time.Time) (*Round, error) {
	if round == nil {
		return nil, apperr.Invalid("round is required")
	}

	if round.Status != RoundOpen {
		return nil, apperr.InvalidState("round %s is %s, only open rounds can be drawn", round.ID, round.Status)
	}

	if round.TotalWinners <= 0 {
		return nil, apperr.Invalid("total winners must be positive, got %d", round.TotalWinners)
	}

	for _, a := range round.Applicants {
		if a.Status != ApplicantPending {
			return nil, apperr.InvalidState("applicant %s is already %s", a.ID, a.Status)
		}
	}

	drawn := round.clone()

	for _, a := range drawn.Applicants {
		if a.PriorityScore == 0 {
			a.PriorityScore = ComputePriorityScore(a.Profile, a.PriorityGroup)
		}
	}

	ranked := rank(drawn.Applicants)
	cut := min(drawn.TotalWinners, len(ranked))

	allocator := newUnitAllocator(drawn.AvailableUnits)

	for _, a := range ranked[:cut] {
		a.Status = ApplicantWon
		a.AllocatedUnitID = allocator.allocate(a.Preferences)
	}

	drawn.WaitingList = make([]WaitingListEntry, 0, len(ranked)-cut)

	for i, a := range ranked[cut:] {
		a.Status = ApplicantLost
		drawn.WaitingList = append(drawn.WaitingList, WaitingListEntry{
			ApplicantID: a.ID,
			Rank:        i + 1,
			Status:      WaitingStatusWaiting,
		})
	}

	drawn.Status = RoundDrawn
	drawn.DrawnAt = &now

	return drawn, nil
}

// Summarize returns the winners, unallocated winners and waiting list of a drawn round.
func Summarize(round *Round) (*DrawResult, error) {
	if round.Status != RoundDrawn {
		return nil, apperr.InvalidState("round %s has not been drawn", round.ID)
	}

	res := &DrawResult{WaitingList: round.WaitingList}

	for _, a := range rank(round.Applicants) {
		if a.Status != ApplicantWon {
			continue
		}

		res.Winners = append(res.Winners, a)

		if a.AllocatedUnitID == nil {
			res.Unallocated = append(res.Unallocated, a)
		}
	}

	return res, nil
}

// rank returns applicants ordered by score descending; equal scores keep their input order.
func rank(applicants []*Applicant) []*Applicant {
	ranked := append([]*Applicant(nil), applicants...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})

	return ranked
}

// unitAllocator hands out units from the round's snapshot, each at most once.
type unitAllocator struct {
	order     []string
	available map[string]bool
}

func newUnitAllocator(units []string) *unitAllocator {
	ua := &unitAllocator{
		order:     units,
		available: make(map[string]bool, len(units)),
	}

	for _, u := range units {
		ua.available[u] = true
	}

	return ua
}

// allocate picks the best-ranked preference still free, otherwise the first free unit in
// snapshot order. It returns nil once every unit is taken.
func (ua *unitAllocator) allocate(prefs []Preference) *string {
	ordered := append([]Preference(nil), prefs...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Rank < ordered[j].Rank })

	for _, p := range ordered {
		if ua.available[p.UnitID] {
			return ua.take(p.UnitID)
		}
	}

	for _, u := range ua.order {
		if ua.available[u] {
			return ua.take(u)
		}
	}

	return nil
}

func (ua *unitAllocator) take(unit string) *string {
	ua.available[unit] = false
	return &unit
}
