package booking

import (
	"errors"
	"testing"
	"time"

	"bestbuddies/internal/model"
)

var testPackages = []model.Package{
	{ID: "dog-basic", Name: "Basic Grooming", Type: model.PetDog, Price: 45, Duration: 60},
	{ID: "cat-basic", Name: "Basic Grooming", Type: model.PetCat, Price: 50, Duration: 60},
}

func testEnv(bookings []model.Booking) Env {
	return Env{
		Packages: testPackages,
		Bookings: bookings,
		Now:      time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC),
	}
}

func completeFlow() Flow {
	return Flow{
		Step: StepContact,
		Draft: Draft{
			PetType:   model.PetDog,
			PackageID: "dog-basic",
			Date:      "2024-06-20",
			Time:      "3pm",
			PetName:   "Rex",
			Phone:     "555-1234",
		},
	}
}

func TestAdvanceHappyPath(t *testing.T) {
	env := testEnv(nil)
	f := NewFlow()

	f = f.SelectPetType(model.PetDog, env.Packages)
	f, err := f.Advance(env)
	if err != nil {
		t.Fatalf("advance from pet type: %v", err)
	}
	if f.Step != StepPackage {
		t.Fatalf("step = %s, want %s", f.Step, StepPackage)
	}

	f = f.SelectPackage("dog-basic")
	f, err = f.Advance(env)
	if err != nil {
		t.Fatalf("advance from package: %v", err)
	}

	f = f.SelectDate("2024-06-20", env.Bookings, env.Now)
	f = f.SelectTime("3pm")
	f, err = f.Advance(env)
	if err != nil {
		t.Fatalf("advance from date/time: %v", err)
	}
	if f.Step != StepContact {
		t.Fatalf("step = %s, want %s", f.Step, StepContact)
	}

	f = f.SetContact("Rex", "555-1234")
	_, err = f.Advance(env)
	if !errors.Is(err, ErrCommitRequired) {
		t.Fatalf("final advance error = %v, want ErrCommitRequired", err)
	}
}

func TestAdvanceBlockedLeavesFlowUnchanged(t *testing.T) {
	tests := []struct {
		name      string
		flow      Flow
		wantField string
	}{
		{
			name:      "no pet type",
			flow:      NewFlow(),
			wantField: "petType",
		},
		{
			name:      "no package",
			flow:      Flow{Step: StepPackage, Draft: Draft{PetType: model.PetDog}},
			wantField: "packageId",
		},
		{
			name:      "package type mismatch",
			flow:      Flow{Step: StepPackage, Draft: Draft{PetType: model.PetDog, PackageID: "cat-basic"}},
			wantField: "packageId",
		},
		{
			name:      "no date",
			flow:      Flow{Step: StepDateTime, Draft: Draft{PetType: model.PetDog, PackageID: "dog-basic"}},
			wantField: "date",
		},
		{
			name: "past date",
			flow: Flow{Step: StepDateTime, Draft: Draft{
				PetType: model.PetDog, PackageID: "dog-basic", Date: "2024-06-01", Time: "3pm",
			}},
			wantField: "date",
		},
		{
			name: "no time",
			flow: Flow{Step: StepDateTime, Draft: Draft{
				PetType: model.PetDog, PackageID: "dog-basic", Date: "2024-06-20",
			}},
			wantField: "time",
		},
		{
			name: "blank pet name",
			flow: Flow{Step: StepContact, Draft: Draft{
				PetType: model.PetDog, PackageID: "dog-basic", Date: "2024-06-20",
				Time: "3pm", PetName: "   ", Phone: "555-1234",
			}},
			wantField: "petName",
		},
		{
			name: "blank phone",
			flow: Flow{Step: StepContact, Draft: Draft{
				PetType: model.PetDog, PackageID: "dog-basic", Date: "2024-06-20",
				Time: "3pm", PetName: "Rex", Phone: "",
			}},
			wantField: "phone",
		},
	}

	env := testEnv(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flow.Advance(env)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %s, want %s", verr.Field, tt.wantField)
			}
			if got != tt.flow {
				t.Error("flow changed on failed advance")
			}
		})
	}
}

func TestAdvanceBlockedByBookedSlot(t *testing.T) {
	booked := []model.Booking{
		{ID: "a", Date: "2024-06-20", Time: "3pm", Status: model.StatusPending},
	}
	f := Flow{Step: StepDateTime, Draft: Draft{
		PetType: model.PetDog, PackageID: "dog-basic", Date: "2024-06-20", Time: "3pm",
	}}

	_, err := f.Advance(testEnv(booked))
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "time" {
		t.Fatalf("error = %v, want time validation error", err)
	}
}

func TestSelectPetTypeClearsMismatchedPackage(t *testing.T) {
	f := NewFlow().SelectPetType(model.PetDog, testPackages).SelectPackage("dog-basic")

	f = f.SelectPetType(model.PetCat, testPackages)
	if f.Draft.PackageID != "" {
		t.Errorf("packageId = %q, want cleared", f.Draft.PackageID)
	}
	if f.Draft.PetType != model.PetCat {
		t.Errorf("petType = %s, want cat", f.Draft.PetType)
	}
}

func TestSelectPetTypeKeepsMatchingPackage(t *testing.T) {
	f := NewFlow().SelectPetType(model.PetDog, testPackages).SelectPackage("dog-basic")

	f = f.SelectPetType(model.PetDog, testPackages)
	if f.Draft.PackageID != "dog-basic" {
		t.Errorf("packageId = %q, want dog-basic", f.Draft.PackageID)
	}
}

func TestSelectDateClearsUnavailableTime(t *testing.T) {
	now := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	booked := []model.Booking{
		{ID: "a", Date: "2024-06-21", Time: "3pm", Status: model.StatusConfirmed},
	}

	f := NewFlow().SelectTime("3pm")

	// 3pm is free on the 20th, taken on the 21st.
	f = f.SelectDate("2024-06-20", booked, now)
	if f.Draft.Time != "3pm" {
		t.Fatalf("time = %q, want kept", f.Draft.Time)
	}

	f = f.SelectDate("2024-06-21", booked, now)
	if f.Draft.Time != "" {
		t.Errorf("time = %q, want cleared after date change", f.Draft.Time)
	}
}

func TestRetreat(t *testing.T) {
	f := Flow{Step: StepDateTime}

	f = f.Retreat()
	if f.Step != StepPackage {
		t.Errorf("step = %s, want %s", f.Step, StepPackage)
	}

	f = f.Retreat()
	f = f.Retreat() // already at the first step
	if f.Step != StepPetType {
		t.Errorf("step = %s, want %s", f.Step, StepPetType)
	}

	done := Flow{Step: StepSubmitted}.Retreat()
	if done.Step != StepSubmitted {
		t.Errorf("submitted flow retreated to %s", done.Step)
	}
}

func TestAdvanceAfterSubmit(t *testing.T) {
	f := Flow{Step: StepSubmitted}
	_, err := f.Advance(testEnv(nil))
	if !errors.Is(err, ErrFlowComplete) {
		t.Fatalf("error = %v, want ErrFlowComplete", err)
	}
}
