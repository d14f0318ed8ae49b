// Package booking implements the multi-step booking flow and the commit
// of a completed draft. The draft is an explicit value passed through
// every operation; there is no hidden flow state.
package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bestbuddies/internal/model"
	"bestbuddies/internal/slots"
)

// Step of the booking flow. Steps are strictly ordered; no skipping.
type Step int

const (
	StepPetType Step = iota + 1
	StepPackage
	StepDateTime
	StepContact
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepPetType:
		return "pet_type"
	case StepPackage:
		return "package"
	case StepDateTime:
		return "date_time"
	case StepContact:
		return "contact"
	case StepSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Draft is the not-yet-committed booking accumulated across the steps.
// It never touches the store until commit.
type Draft struct {
	PetType   model.PetType `json:"petType"`
	PackageID string        `json:"packageId"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	PetName   string        `json:"petName"`
	Phone     string        `json:"phone"`
}

// Flow pairs the draft with its current step. Operations use value
// semantics: they return the updated flow and leave the receiver alone.
type Flow struct {
	Step  Step  `json:"step"`
	Draft Draft `json:"draft"`
}

// NewFlow returns a flow at the first step with an empty draft.
func NewFlow() Flow {
	return Flow{Step: StepPetType}
}

// Env carries the collaborator data step validation needs. Bookings is
// the current stored collection; Now is the evaluation instant.
type Env struct {
	Packages []model.Package
	Bookings []model.Booking
	Now      time.Time
}

// ValidationError reports the field blocking the current step.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var (
	// ErrCommitRequired is returned by Advance on the final step: the
	// only way out of the contact step is Committer.Commit.
	ErrCommitRequired = errors.New("final step advances through commit")

	// ErrFlowComplete is returned for any operation on a submitted flow.
	ErrFlowComplete = errors.New("booking flow already submitted")

	// ErrSlotConflict is returned by commit when the chosen slot became
	// unavailable between selection and submission.
	ErrSlotConflict = errors.New("time slot is no longer available")
)

// SelectPetType records the pet type. A previously chosen package that
// does not match the new type is cleared.
func (f Flow) SelectPetType(t model.PetType, packages []model.Package) Flow {
	f.Draft.PetType = t
	if f.Draft.PackageID == "" {
		return f
	}
	pkg, ok := model.FindPackage(packages, f.Draft.PackageID)
	if !ok || pkg.Type != t {
		f.Draft.PackageID = ""
	}
	return f
}

// SelectPackage records the package choice.
func (f Flow) SelectPackage(id string) Flow {
	f.Draft.PackageID = id
	return f
}

// SelectDate records the date. If the previously chosen time is not
// available on the new date, the time selection is cleared so the step
// reads as incomplete again.
func (f Flow) SelectDate(date string, bookings []model.Booking, now time.Time) Flow {
	f.Draft.Date = date
	if f.Draft.Time != "" && !slots.IsAvailable(date, f.Draft.Time, bookings, now) {
		f.Draft.Time = ""
	}
	return f
}

// SelectTime records the slot choice.
func (f Flow) SelectTime(label string) Flow {
	f.Draft.Time = label
	return f
}

// SetContact records the trimmed contact fields.
func (f Flow) SetContact(petName, phone string) Flow {
	f.Draft.PetName = strings.TrimSpace(petName)
	f.Draft.Phone = strings.TrimSpace(phone)
	return f
}

// Advance validates the current step and moves forward. On a failed
// predicate the flow is returned unchanged along with a
// *ValidationError naming the blocking field.
func (f Flow) Advance(env Env) (Flow, error) {
	if f.Step == StepSubmitted {
		return f, ErrFlowComplete
	}
	if err := f.validateStep(f.Step, env); err != nil {
		return f, err
	}
	if f.Step == StepContact {
		return f, ErrCommitRequired
	}
	f.Step++
	return f, nil
}

// Retreat moves back one step without clearing data. At the first step
// it is a no-op; a submitted flow is terminal.
func (f Flow) Retreat() Flow {
	if f.Step > StepPetType && f.Step != StepSubmitted {
		f.Step--
	}
	return f
}

func (f Flow) validateStep(step Step, env Env) error {
	d := f.Draft
	switch step {
	case StepPetType:
		if !d.PetType.Valid() {
			return &ValidationError{Field: "petType", Reason: "select a pet type"}
		}

	case StepPackage:
		if d.PackageID == "" {
			return &ValidationError{Field: "packageId", Reason: "select a package"}
		}
		pkg, ok := model.FindPackage(env.Packages, d.PackageID)
		if !ok {
			return &ValidationError{Field: "packageId", Reason: "unknown package"}
		}
		if pkg.Type != d.PetType {
			return &ValidationError{Field: "packageId", Reason: "package does not match pet type"}
		}

	case StepDateTime:
		if err := f.validateDateTime(env); err != nil {
			return err
		}

	case StepContact:
		if strings.TrimSpace(d.PetName) == "" {
			return &ValidationError{Field: "petName", Reason: "enter your pet's name"}
		}
		if strings.TrimSpace(d.Phone) == "" {
			return &ValidationError{Field: "phone", Reason: "enter your phone number"}
		}
	}
	return nil
}

// validateDateTime covers everything about step 3 except slot occupancy,
// then checks occupancy last. Commit distinguishes the two: a malformed
// or past selection is a validation error, a taken slot is a conflict.
func (f Flow) validateDateTime(env Env) error {
	d := f.Draft
	if d.Date == "" {
		return &ValidationError{Field: "date", Reason: "select a date"}
	}
	if _, err := time.Parse(slots.DateFormat, d.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "invalid date"}
	}
	if slots.IsPastDate(d.Date, env.Now) {
		return &ValidationError{Field: "date", Reason: "date is in the past"}
	}
	if d.Time == "" {
		return &ValidationError{Field: "time", Reason: "select a time slot"}
	}
	if !slots.ValidLabel(d.Time) {
		return &ValidationError{Field: "time", Reason: "unknown time slot"}
	}
	if !slots.IsAvailable(d.Date, d.Time, env.Bookings, env.Now) {
		return &ValidationError{Field: "time", Reason: "slot not available"}
	}
	return nil
}
