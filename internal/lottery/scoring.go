package lottery

// Base points per priority group. The gap between adjacent tiers (250) is larger than
// the highest possible profile bonus (MaxProfileBonus = 210), so the group always dominates.
const (
	BaseFirstTime = 1000
	BaseVeteran   = 750
	BaseLocal     = 500
	BaseGeneral   = 250
)

// Profile bonus rules.
const (
	agePointsPerBracket    = 10 // per decade from 18-29 upwards
	maxAgeBonus            = 50 // reached at 60+
	familyPointsPerMember  = 10
	maxFamilyBonus         = 60 // reached at 6 members
	residencePointsPerYear = 5
	maxResidenceBonus      = 50 // reached at 10 years
	firstTimeBuyerBonus    = 50

	MaxProfileBonus = maxAgeBonus + maxFamilyBonus + maxResidenceBonus + firstTimeBuyerBonus
)

// BasePoints returns the tier base of g, or 0 for an unknown group.
func BasePoints(g PriorityGroup) int {
	switch g {
	case GroupFirstTime:
		return BaseFirstTime
	case GroupVeteran:
		return BaseVeteran
	case GroupLocal:
		return BaseLocal
	case GroupGeneral:
		return BaseGeneral
	}

	return 0
}

// ComputePriorityScore returns the deterministic priority score of an applicant.
// The result is never negative.
func ComputePriorityScore(p ApplicantProfile, g PriorityGroup) int {
	return BasePoints(g) + ageBonus(p.Age) + familyBonus(p.FamilySize) + residenceBonus(p.YearsOfResidence) + buyerBonus(p.IsFirstTimeBuyer)
}

func ageBonus(age int) int {
	if age < 18 {
		return 0
	}

	// 18-29 -> 1 bracket, 30-39 -> 2, ... 60+ -> 5.
	brackets := 1
	if age >= 30 {
		brackets = age/10 - 1
	}

	return min(brackets*agePointsPerBracket, maxAgeBonus)
}

func familyBonus(size int) int {
	if size < 0 {
		return 0
	}

	return min(size*familyPointsPerMember, maxFamilyBonus)
}

func residenceBonus(years int) int {
	if years < 0 {
		return 0
	}

	return min(years*residencePointsPerYear, maxResidenceBonus)
}

func buyerBonus(firstTime bool) int {
	if firstTime {
		return firstTimeBuyerBonus
	}

	return 0
}
