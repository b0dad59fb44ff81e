package lottery

import (
	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/oascms/internal/apperr"
)

var validate = validator.New()

// ProfileUpdate is a single typed change to an ApplicantProfile.
type ProfileUpdate interface {
	applyTo(p *ApplicantProfile)
}

type (
	SetAge              int
	SetFamilySize       int
	SetYearsOfResidence int
	SetFirstTimeBuyer   bool
)

func (v SetAge) applyTo(p *ApplicantProfile)              { p.Age = int(v) }
func (v SetFamilySize) applyTo(p *ApplicantProfile)       { p.FamilySize = int(v) }
func (v SetYearsOfResidence) applyTo(p *ApplicantProfile) { p.YearsOfResidence = int(v) }
func (v SetFirstTimeBuyer) applyTo(p *ApplicantProfile)   { p.IsFirstTimeBuyer = bool(v) }

// Apply returns a copy of p with the updates applied. The result is validated as a whole;
// on failure p is returned unchanged alongside an ErrInvalidInput.
func (p ApplicantProfile) Apply(updates ...ProfileUpdate) (ApplicantProfile, error) {
	next := p
	for _, u := range updates {
		u.applyTo(&next)
	}

	if err := next.Validate(); err != nil {
		return p, err
	}

	return next, nil
}

// Validate checks the profile against the eligibility floor.
func (p ApplicantProfile) Validate() error {
	return apperr.FromValidation(validate.Struct(p))
}
