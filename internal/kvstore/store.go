// Package kvstore persists the three record collections and the session
// markers in a flat key-value namespace. The only write primitive is a
// whole-collection replace: callers read a collection, mutate it in
// memory, and write it back. There is no compare-and-swap, so two
// interleaved writers can lose an update; the booking committer narrows
// that window by re-checking availability right before its write.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bestbuddies/internal/model"
)

// Fixed record keys.
const (
	KeyUsers       = "users"
	KeyBookings    = "bookings"
	KeyPackages    = "packages"
	KeyCurrentUser = "currentUser"
	KeyLastBooking = "lastBooking"
)

// Store is the narrow persistence contract. List methods return the full
// collection; Save methods replace it.
type Store interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	SaveUsers(ctx context.Context, users []model.User) error

	ListBookings(ctx context.Context) ([]model.Booking, error)
	SaveBookings(ctx context.Context, bookings []model.Booking) error

	ListPackages(ctx context.Context) ([]model.Package, error)
	SavePackages(ctx context.Context, packages []model.Package) error

	// CurrentUser returns the session marker, if any.
	CurrentUser(ctx context.Context) (model.User, bool, error)
	SetCurrentUser(ctx context.Context, user model.User) error
	ClearCurrentUser(ctx context.Context) error

	// SetLastBooking stores the one-shot handoff written on commit;
	// TakeLastBooking returns and clears it.
	SetLastBooking(ctx context.Context, b model.Booking) error
	TakeLastBooking(ctx context.Context) (model.Booking, bool, error)

	Close() error
}

// kv is the raw byte-level access the backends implement. Values are
// opaque JSON payloads.
type kv interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
	put(ctx context.Context, key string, value []byte) error
	delete(ctx context.Context, key string) error
}

// records adapts a kv backend to the Store contract.
type records struct {
	kv
	closer func() error
}

func listAs[T any](ctx context.Context, r records, key string) ([]T, error) {
	raw, ok, err := r.get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

func saveAs[T any](ctx context.Context, r records, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.put(ctx, key, raw); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func getOne[T any](ctx context.Context, r records, key string) (T, bool, error) {
	var zero T
	raw, ok, err := r.get(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return zero, false, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, true, nil
}

func putOne[T any](ctx context.Context, r records, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.put(ctx, key, raw); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (r records) ListUsers(ctx context.Context) ([]model.User, error) {
	return listAs[model.User](ctx, r, KeyUsers)
}

func (r records) SaveUsers(ctx context.Context, users []model.User) error {
	return saveAs(ctx, r, KeyUsers, users)
}

func (r records) ListBookings(ctx context.Context) ([]model.Booking, error) {
	return listAs[model.Booking](ctx, r, KeyBookings)
}

func (r records) SaveBookings(ctx context.Context, bookings []model.Booking) error {
	return saveAs(ctx, r, KeyBookings, bookings)
}

func (r records) ListPackages(ctx context.Context) ([]model.Package, error) {
	return listAs[model.Package](ctx, r, KeyPackages)
}

func (r records) SavePackages(ctx context.Context, packages []model.Package) error {
	return saveAs(ctx, r, KeyPackages, packages)
}

func (r records) CurrentUser(ctx context.Context) (model.User, bool, error) {
	return getOne[model.User](ctx, r, KeyCurrentUser)
}

func (r records) SetCurrentUser(ctx context.Context, user model.User) error {
	return putOne(ctx, r, KeyCurrentUser, user)
}

func (r records) ClearCurrentUser(ctx context.Context) error {
	return r.delete(ctx, KeyCurrentUser)
}

func (r records) SetLastBooking(ctx context.Context, b model.Booking) error {
	return putOne(ctx, r, KeyLastBooking, b)
}

func (r records) TakeLastBooking(ctx context.Context) (model.Booking, bool, error) {
	b, ok, err := getOne[model.Booking](ctx, r, KeyLastBooking)
	if err != nil || !ok {
		return b, ok, err
	}
	if err := r.delete(ctx, KeyLastBooking); err != nil {
		return b, true, fmt.Errorf("clear %s: %w", KeyLastBooking, err)
	}
	return b, true, nil
}

func (r records) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

// DefaultAdmin is the account installed on first open so the admin
// dashboard is reachable out of the box.
var DefaultAdmin = model.User{
	ID:       "admin-001",
	Name:     "Admin User",
	Email:    "admin@gmail.com",
	Password: "admin12345",
	Role:     model.RoleAdmin,
}

// Seed installs the default package catalogue and the default admin
// account where missing. Idempotent.
func Seed(ctx context.Context, s Store, now time.Time) error {
	packages, err := s.ListPackages(ctx)
	if err != nil {
		return fmt.Errorf("list packages: %w", err)
	}
	if len(packages) == 0 {
		if err := s.SavePackages(ctx, model.DefaultPackages); err != nil {
			return fmt.Errorf("seed packages: %w", err)
		}
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if u.Email == DefaultAdmin.Email {
			return nil
		}
	}
	admin := DefaultAdmin
	admin.CreatedAt = now
	if err := s.SaveUsers(ctx, append(users, admin)); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
