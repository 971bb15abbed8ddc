package dto

import (
	"encoding/json"
	"time"
)

// BackupPayload is the full-state snapshot shape shared by exports, the
// backup sink and the import endpoint. Collection fields stay raw so the
// sink can pass payloads through without caring about their contents.
type BackupPayload struct {
	Timestamp       time.Time       `json:"timestamp"`
	Users           json.RawMessage `json:"users"`
	Services        json.RawMessage `json:"services"`
	Invoices        json.RawMessage `json:"invoices"`
	Debts           json.RawMessage `json:"debts"`
	Teachers        json.RawMessage `json:"teachers"`
	Expenses        json.RawMessage `json:"expenses"`
	Staff           json.RawMessage `json:"staff"`
	ActivityLogs    json.RawMessage `json:"activityLogs"`
	ExternalBooks   json.RawMessage `json:"externalBooks"`
	Bookings        json.RawMessage `json:"bookings"`
	BookingReceipts json.RawMessage `json:"bookingReceipts"`
}

type ImportSummary struct {
	Collections map[string]int `json:"collections"` // collection name -> rows imported
}
