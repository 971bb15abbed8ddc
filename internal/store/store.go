// Package store persists every collection as its own JSON document under a
// data directory, mirroring the terminal's storage-key layout. State is held
// in memory and is authoritative; files are rewritten on every committed
// update.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Mahdyy18/center-five-system/internal/model"
)

// State holds all collections. Collections are only ever swapped wholesale
// inside an Update; there are no partial writes.
type State struct {
	Users           []model.UserAccount    `json:"users"`
	Services        []model.Service        `json:"services"`
	Invoices        []model.Invoice        `json:"invoices"`
	Debts           []model.ClientDebt     `json:"debts"`
	Teachers        []model.Teacher        `json:"teachers"`
	Expenses        []model.Expense        `json:"expenses"`
	Staff           []model.Staff          `json:"staff"`
	ActivityLogs    []model.ActivityLog    `json:"activityLogs"`
	ExternalBooks   []model.ExternalBook   `json:"externalBooks"`
	Bookings        []model.Booking        `json:"bookings"`
	BookingReceipts []model.BookingReceipt `json:"bookingReceipts"`
}

// Storage keys, one file per collection. Kept identical to the legacy
// terminal's keys so old backups restore cleanly.
const (
	keyUsers           = "cf_users"
	keyServices        = "cf_services"
	keyInvoices        = "cf_invoices"
	keyDebts           = "cf_debts"
	keyTeachers        = "cf_teachers"
	keyExpenses        = "cf_expenses"
	keyStaff           = "cf_staff"
	keyActivityLogs    = "cf_activity_logs"
	keyExternalBooks   = "cf_external_books"
	keyBookings        = "cf_bookings"
	keyBookingReceipts = "cf_booking_receipts"
)

type Store struct {
	mu    sync.RWMutex
	dir   string
	state State
}

// Open loads all collections from dir, creating it if needed. A missing or
// unparsable file falls back to an empty collection; startup never fails on
// corrupt data, it is logged and skipped.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	s := &Store{dir: dir}
	loadCollection(dir, keyUsers, &s.state.Users)
	loadCollection(dir, keyServices, &s.state.Services)
	loadCollection(dir, keyInvoices, &s.state.Invoices)
	loadCollection(dir, keyDebts, &s.state.Debts)
	loadCollection(dir, keyTeachers, &s.state.Teachers)
	loadCollection(dir, keyExpenses, &s.state.Expenses)
	loadCollection(dir, keyStaff, &s.state.Staff)
	loadCollection(dir, keyActivityLogs, &s.state.ActivityLogs)
	loadCollection(dir, keyExternalBooks, &s.state.ExternalBooks)
	loadCollection(dir, keyBookings, &s.state.Bookings)
	loadCollection(dir, keyBookingReceipts, &s.state.BookingReceipts)
	return s, nil
}

func loadCollection(dir, key string, dst interface{}) {
	path := filepath.Join(dir, key+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("key", key).Msg("store: read failed, starting empty")
		}
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("store: parse failed, starting empty")
	}
}

// View runs fn with a read lock. fn must not retain or mutate the state.
func (s *Store) View(fn func(st *State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.state)
}

// Update clones the current state, lets fn mutate the clone, persists it and
// swaps it in. If fn returns an error nothing is written and nothing is
// swapped, so a rejected operation leaves no trace in any collection.
func (s *Store) Update(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := cloneState(&s.state)
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.state = *next
	return nil
}

// Snapshot returns a deep copy of the whole state, safe to serialize outside
// the lock (used by backups and exports).
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	next, err := cloneState(&s.state)
	if err != nil {
		log.Error().Err(err).Msg("store: snapshot clone failed")
		return State{}
	}
	return *next
}

// Replace swaps in a whole new state (wholesale import).
func (s *Store) Replace(st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(&st); err != nil {
		return err
	}
	s.state = st
	return nil
}

// Reset wipes every collection.
func (s *Store) Reset() error {
	return s.Replace(State{})
}

// Ping verifies the data directory is still writable.
func (s *Store) Ping() error {
	probe := filepath.Join(s.dir, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}

// cloneState round-trips through JSON: slower than hand-written copies but
// guaranteed to keep commit-or-nothing semantics however deep the histories
// nest.
func cloneState(st *State) (*State, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("store: clone marshal: %w", err)
	}
	next := &State{}
	if err := json.Unmarshal(raw, next); err != nil {
		return nil, fmt.Errorf("store: clone unmarshal: %w", err)
	}
	return next, nil
}

func (s *Store) persist(st *State) error {
	entries := []struct {
		key string
		val interface{}
	}{
		{keyUsers, st.Users},
		{keyServices, st.Services},
		{keyInvoices, st.Invoices},
		{keyDebts, st.Debts},
		{keyTeachers, st.Teachers},
		{keyExpenses, st.Expenses},
		{keyStaff, st.Staff},
		{keyActivityLogs, st.ActivityLogs},
		{keyExternalBooks, st.ExternalBooks},
		{keyBookings, st.Bookings},
		{keyBookingReceipts, st.BookingReceipts},
	}
	for _, e := range entries {
		if err := writeJSON(filepath.Join(s.dir, e.key+".json"), e.val); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON writes via a temp file and rename so a crash mid-write never
// leaves a truncated collection on disk.
func writeJSON(path string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store: rename %s: %w", path, err)
	}
	return nil
}
