package kvstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bestbuddies/internal/model"
)

// storeConformance exercises the full Store contract against a backend.
func storeConformance(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	// Empty collections read as empty, not nil errors.
	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Empty(t, users)

	now := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	u := model.User{ID: "user-1", Name: "Jane", Email: "jane@example.com", Password: "secret1", Role: model.RoleCustomer, CreatedAt: now}
	require.NoError(t, s.SaveUsers(ctx, []model.User{u}))

	users, err = s.ListUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.User{u}, users)

	// Whole-collection replace, not merge.
	u2 := model.User{ID: "user-2", Name: "Bob", Email: "bob@example.com", Role: model.RoleCustomer, CreatedAt: now}
	require.NoError(t, s.SaveUsers(ctx, []model.User{u2}))
	users, err = s.ListUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.User{u2}, users)

	b := model.Booking{
		ID: "2024-06-10_10-00-00", UserID: "user-2", PetName: "Rex", PetType: model.PetDog,
		PackageID: "dog-basic", PackageName: "Basic Grooming", Date: "2024-06-20", Time: "3pm",
		Phone: "555-1234", CustomerName: "Bob", Status: model.StatusPending, CreatedAt: now,
	}
	require.NoError(t, s.SaveBookings(ctx, []model.Booking{b}))
	bookings, err := s.ListBookings(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Booking{b}, bookings)

	require.NoError(t, s.SavePackages(ctx, model.DefaultPackages))
	packages, err := s.ListPackages(ctx)
	require.NoError(t, err)
	require.Equal(t, model.DefaultPackages, packages)

	// Session marker.
	_, ok, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SetCurrentUser(ctx, u2))
	got, ok, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, u2, got)

	require.NoError(t, s.ClearCurrentUser(ctx))
	_, ok, err = s.CurrentUser(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	// Last-booking handoff is one-shot.
	require.NoError(t, s.SetLastBooking(ctx, b))
	last, ok, err := s.TakeLastBooking(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, b, last)

	_, ok, err = s.TakeLastBooking(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	storeConformance(t, NewMemory())
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store", "test.db")
	s, err := OpenBolt(path)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })

	storeConformance(t, s)
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, s.SavePackages(ctx, model.DefaultPackages))
	require.NoError(t, s.Close())

	s, err = OpenBolt(path)
	require.NoError(t, err)
	defer s.Close()

	packages, err := s.ListPackages(ctx)
	require.NoError(t, err)
	require.Equal(t, model.DefaultPackages, packages)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	now := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

	require.NoError(t, Seed(ctx, s, now))

	packages, err := s.ListPackages(ctx)
	require.NoError(t, err)
	require.Len(t, packages, 6)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, model.RoleAdmin, users[0].Role)
	require.Equal(t, DefaultAdmin.Email, users[0].Email)

	// Idempotent: a second seed adds nothing.
	require.NoError(t, Seed(ctx, s, now))
	users, err = s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestSeedKeepsExistingData(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	now := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

	custom := []model.Package{{ID: "dog-deluxe", Name: "Deluxe", Type: model.PetDog, Price: 99, Duration: 120}}
	require.NoError(t, s.SavePackages(ctx, custom))

	require.NoError(t, Seed(ctx, s, now))
	packages, err := s.ListPackages(ctx)
	require.NoError(t, err)
	require.Equal(t, custom, packages)
}
