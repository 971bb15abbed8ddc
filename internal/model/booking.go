package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingDelivered BookingStatus = "DELIVERED"
	BookingCanceled  BookingStatus = "CANCELED"
)

type BookingItemType string

const (
	BookingExternalBook BookingItemType = "EXTERNAL_BOOK"
	BookingTeacherNote  BookingItemType = "TEACHER_NOTE"
)

// ExternalBook is a third-party book offered for reservation.
type ExternalBook struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
}

type BookingItem struct {
	ID          string          `json:"id"`
	BookingID   string          `json:"bookingId"`
	Type        BookingItemType `json:"type"`
	Title       string          `json:"title"`
	TeacherID   string          `json:"teacherId,omitempty"`
	TeacherName string          `json:"teacherName,omitempty"`
	Qty         int             `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// BookingReceipt is a printable record issued on creation (full receipt) and
// on each partial collection (code suffixed "-COL").
type BookingReceipt struct {
	ID              string          `json:"id"`
	BookingID       string          `json:"bookingId"`
	Code            string          `json:"code"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	CashierName     string          `json:"cashierName"`
	Date            time.Time       `json:"date"`
	Items           []BookingItem   `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

// Booking is a reservation of external books and/or teacher notes against a
// down payment. Delivery requires the remaining amount to be fully collected;
// cancellation is status-only and performs no ledger reversal.
type Booking struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedByID     string          `json:"createdById"`
	CreatedByName   string          `json:"createdByName"`
	Status          BookingStatus   `json:"status"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	DeliveredByName string          `json:"deliveredByName,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Items           []BookingItem   `json:"items"`
	ReceiptID       string          `json:"receiptId"`
}
