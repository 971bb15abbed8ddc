package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

var (
	errBadBackupFile = errors.New("ملف النسخة الاحتياطية غير صالح")
	errBadExcelFile  = errors.New("ملف الإكسل غير صالح")
)

// sheetCollections maps the workbook's Arabic sheet names onto state
// collections. Workbooks exported by the legacy terminal use exactly these
// names.
var sheetCollections = []struct {
	sheet      string
	collection string
}{
	{"الخدمات العامة", "services"},
	{"سجل الفواتير", "invoices"},
	{"المديونيات العامة", "debts"},
	{"شؤون المدرسين", "teachers"},
	{"سجل المصروفات", "expenses"},
	{"بيانات الموظفين", "staff"},
	{"سجل النشاط", "activityLogs"},
}

type DataService interface {
	ExportJSON() ([]byte, error)
	ImportJSON(payload []byte) (dto.ImportSummary, error)
	ExportXLSX(w io.Writer) error
	ImportXLSX(r io.Reader) (dto.ImportSummary, error)
	Reset() error
}

type dataService struct {
	store *store.Store
	clock ledger.Clock
}

func NewDataService(st *store.Store, clock ledger.Clock) DataService {
	return &dataService{store: st, clock: clock}
}

// ── JSON export / import ──────────────────────────────────────────────────────

// ExportJSON builds the full-state snapshot payload shared by manual exports
// and the scheduled backup workers.
func (s *dataService) ExportJSON() ([]byte, error) {
	snap := s.store.Snapshot()

	raw := func(v interface{}) json.RawMessage {
		b, err := json.Marshal(v)
		if err != nil {
			return json.RawMessage("[]")
		}
		return b
	}

	payload := dto.BackupPayload{
		Timestamp:       s.clock.Now(),
		Users:           raw(snap.Users),
		Services:        raw(snap.Services),
		Invoices:        raw(snap.Invoices),
		Debts:           raw(snap.Debts),
		Teachers:        raw(snap.Teachers),
		Expenses:        raw(snap.Expenses),
		Staff:           raw(snap.Staff),
		ActivityLogs:    raw(snap.ActivityLogs),
		ExternalBooks:   raw(snap.ExternalBooks),
		Bookings:        raw(snap.Bookings),
		BookingReceipts: raw(snap.BookingReceipts),
	}
	return json.MarshalIndent(payload, "", "  ")
}

// ImportJSON replaces the entire state with the backup's contents. Absent
// collections import as empty, so old backups taken before a collection
// existed still restore.
func (s *dataService) ImportJSON(payload []byte) (dto.ImportSummary, error) {
	var backup dto.BackupPayload
	if err := json.Unmarshal(payload, &backup); err != nil {
		return dto.ImportSummary{}, errBadBackupFile
	}

	var next store.State
	counts := map[string]int{}
	load := func(name string, raw json.RawMessage, dst interface{}, count func() int) error {
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("%w: %s", errBadBackupFile, name)
		}
		counts[name] = count()
		return nil
	}

	steps := []func() error{
		func() error {
			return load("users", backup.Users, &next.Users, func() int { return len(next.Users) })
		},
		func() error {
			return load("services", backup.Services, &next.Services, func() int { return len(next.Services) })
		},
		func() error {
			return load("invoices", backup.Invoices, &next.Invoices, func() int { return len(next.Invoices) })
		},
		func() error {
			return load("debts", backup.Debts, &next.Debts, func() int { return len(next.Debts) })
		},
		func() error {
			return load("teachers", backup.Teachers, &next.Teachers, func() int { return len(next.Teachers) })
		},
		func() error {
			return load("expenses", backup.Expenses, &next.Expenses, func() int { return len(next.Expenses) })
		},
		func() error {
			return load("staff", backup.Staff, &next.Staff, func() int { return len(next.Staff) })
		},
		func() error {
			return load("activityLogs", backup.ActivityLogs, &next.ActivityLogs, func() int { return len(next.ActivityLogs) })
		},
		func() error {
			return load("externalBooks", backup.ExternalBooks, &next.ExternalBooks, func() int { return len(next.ExternalBooks) })
		},
		func() error {
			return load("bookings", backup.Bookings, &next.Bookings, func() int { return len(next.Bookings) })
		},
		func() error {
			return load("bookingReceipts", backup.BookingReceipts, &next.BookingReceipts, func() int { return len(next.BookingReceipts) })
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return dto.ImportSummary{}, err
		}
	}

	if err := s.store.Replace(next); err != nil {
		return dto.ImportSummary{}, err
	}
	return dto.ImportSummary{Collections: counts}, nil
}

// ── Excel export / import ─────────────────────────────────────────────────────

// ExportXLSX writes one sheet per collection. Nested values (histories,
// items) are stored as JSON strings inside their cells, mirroring how the
// legacy workbooks were laid out.
func (s *dataService) ExportXLSX(w io.Writer) error {
	snap := s.store.Snapshot()
	collections := map[string]interface{}{
		"services":     snap.Services,
		"invoices":     snap.Invoices,
		"debts":        snap.Debts,
		"teachers":     snap.Teachers,
		"expenses":     snap.Expenses,
		"staff":        snap.Staff,
		"activityLogs": snap.ActivityLogs,
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Error().Err(err).Msg("data: close workbook")
		}
	}()

	for _, m := range sheetCollections {
		rows, err := toRows(collections[m.collection])
		if err != nil {
			return err
		}
		if _, err := f.NewSheet(m.sheet); err != nil {
			return err
		}
		for rowIdx, row := range rows {
			for colIdx, cell := range row {
				addr, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(m.sheet, addr, cell); err != nil {
					return err
				}
			}
		}
	}
	f.DeleteSheet("Sheet1")

	return f.Write(w)
}

// ImportXLSX reads a legacy workbook sheet by sheet and replaces the matching
// collections. Sheets missing from the workbook leave their collections
// untouched.
func (s *dataService) ImportXLSX(r io.Reader) (dto.ImportSummary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return dto.ImportSummary{}, errBadExcelFile
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Error().Err(err).Msg("data: close workbook")
		}
	}()

	counts := map[string]int{}
	err = s.store.Update(func(st *store.State) error {
		for _, m := range sheetCollections {
			rows, err := f.GetRows(m.sheet)
			if err != nil || len(rows) < 2 {
				continue
			}
			records := rowsToRecords(rows)
			raw, err := json.Marshal(records)
			if err != nil {
				return errBadExcelFile
			}

			var target interface{}
			switch m.collection {
			case "services":
				target = &st.Services
			case "invoices":
				target = &st.Invoices
			case "debts":
				target = &st.Debts
			case "teachers":
				target = &st.Teachers
			case "expenses":
				target = &st.Expenses
			case "staff":
				target = &st.Staff
			case "activityLogs":
				target = &st.ActivityLogs
			}
			if err := json.Unmarshal(raw, target); err != nil {
				return fmt.Errorf("%w: %s", errBadExcelFile, m.sheet)
			}
			counts[m.collection] = len(records)
		}
		return nil
	})
	if err != nil {
		return dto.ImportSummary{}, err
	}
	return dto.ImportSummary{Collections: counts}, nil
}

// Reset wipes every collection. The caller re-seeds the admin account.
func (s *dataService) Reset() error {
	return s.store.Reset()
}

// ── Row conversion helpers ────────────────────────────────────────────────────

// toRows flattens a collection slice into header + data rows. Field order
// follows the sorted JSON keys so exports are stable.
func toRows(collection interface{}) ([][]interface{}, error) {
	raw, err := json.Marshal(collection)
	if err != nil {
		return nil, err
	}
	var records []map[string]interface{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}

	keySet := map[string]bool{}
	for _, rec := range records {
		for k := range rec {
			keySet[k] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	header := make([]interface{}, len(keys))
	for i, k := range keys {
		header[i] = k
	}
	rows := [][]interface{}{header}

	for _, rec := range records {
		row := make([]interface{}, len(keys))
		for i, k := range keys {
			v, ok := rec[k]
			if !ok || v == nil {
				row[i] = ""
				continue
			}
			switch v.(type) {
			case map[string]interface{}, []interface{}:
				b, err := json.Marshal(v)
				if err != nil {
					return nil, err
				}
				row[i] = string(b)
			default:
				row[i] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// rowsToRecords rebuilds JSON objects from header + data rows. Cells holding
// serialized JSON (nested histories, item lists) are parsed back into real
// values.
func rowsToRecords(rows [][]string) []map[string]interface{} {
	header := rows[0]
	records := make([]map[string]interface{}, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]interface{}, len(header))
		empty := true
		for i, key := range header {
			if key == "" || i >= len(row) {
				continue
			}
			cell := row[i]
			if cell == "" {
				continue
			}
			empty = false
			rec[key] = parseNested(cell)
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records
}

// parseNested re-parses cells that look like JSON; everything else stays a
// plain string (or number when it scans cleanly).
func parseNested(cell string) interface{} {
	trimmed := strings.TrimSpace(cell)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var v interface{}
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return v
		}
		return cell
	}
	// bool cells come back as TRUE/FALSE from the sheet reader
	switch trimmed {
	case "true", "TRUE":
		return true
	case "false", "FALSE":
		return false
	}
	var n json.Number
	if err := json.Unmarshal([]byte(trimmed), &n); err == nil {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return cell
}
