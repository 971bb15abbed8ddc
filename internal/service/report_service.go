package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

type ReportService interface {
	Daily(day time.Time) dto.SalesReport
	Monthly(year int, month time.Month) dto.SalesReport
	Range(from, to time.Time) dto.SalesReport
}

type reportService struct {
	store *store.Store
	loc   *time.Location
}

func NewReportService(st *store.Store, loc *time.Location) ReportService {
	return &reportService{store: st, loc: loc}
}

func (s *reportService) Daily(day time.Time) dto.SalesReport {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	return s.Range(from, from.AddDate(0, 0, 1))
}

func (s *reportService) Monthly(year int, month time.Month) dto.SalesReport {
	from := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	return s.Range(from, from.AddDate(0, 1, 0))
}

// Range builds the trading summary for [from, to). Returned invoices are
// excluded from sales figures; their cash impact already shows up as RETURNS
// expenses or debt reversals.
func (s *reportService) Range(from, to time.Time) dto.SalesReport {
	snap := s.store.Snapshot()
	in := func(t time.Time) bool { return !t.Before(from) && t.Before(to) }

	report := dto.SalesReport{
		From: from.Format("2006-01-02"),
		To:   to.AddDate(0, 0, -1).Format("2006-01-02"),
	}

	products := make(map[string]int)
	cashiers := make(map[string]*dto.CashierSales)

	for _, inv := range snap.Invoices {
		if !in(inv.Date) || inv.Status == model.InvoiceReturned {
			continue
		}
		report.InvoiceCount++
		if inv.IsDebt {
			report.DebtSales = report.DebtSales.Add(inv.Total)
		} else {
			report.CashSales = report.CashSales.Add(inv.Total)
		}

		for _, it := range inv.Items {
			key := it.Name
			if it.TeacherName != "" {
				key = it.Name + " [" + it.TeacherName + "]"
			}
			products[key] += it.Quantity
		}

		cs, ok := cashiers[inv.CashierName]
		if !ok {
			cs = &dto.CashierSales{CashierName: inv.CashierName}
			cashiers[inv.CashierName] = cs
		}
		cs.Invoices++
		cs.Total = cs.Total.Add(inv.Total)
	}

	for _, exp := range snap.Expenses {
		if !in(exp.Date) {
			continue
		}
		report.Expenses = report.Expenses.Add(exp.Amount)
		if exp.Category == model.ExpenseReturns {
			report.Returns = report.Returns.Add(exp.Amount)
		}
	}

	report.Collections = s.clientCollections(snap, in).Add(s.bookingCollections(snap, in))
	report.CashIn = report.CashSales.Add(report.Collections)
	report.NetCash = report.CashIn.Sub(report.Expenses)
	report.TopProducts = topProducts(products, 10)
	report.SalesByCashier = cashierRows(cashiers)
	return report
}

func (s *reportService) clientCollections(snap store.State, in func(time.Time) bool) decimal.Decimal {
	total := decimal.Zero
	for _, d := range snap.Debts {
		for _, p := range d.Payments {
			if in(p.Date) {
				total = total.Add(p.Amount)
			}
		}
	}
	return total
}

// bookingCollections derives per-receipt collection deltas: each receipt
// stores the cumulative paid amount, so the money taken at that moment is
// the difference from the booking's previous receipt.
func (s *reportService) bookingCollections(snap store.State, in func(time.Time) bool) decimal.Decimal {
	byBooking := make(map[string][]model.BookingReceipt)
	for _, r := range snap.BookingReceipts {
		byBooking[r.BookingID] = append(byBooking[r.BookingID], r)
	}

	total := decimal.Zero
	for _, receipts := range byBooking {
		sort.Slice(receipts, func(i, j int) bool { return receipts[i].Date.Before(receipts[j].Date) })
		prev := decimal.Zero
		for _, r := range receipts {
			delta := r.PaidAmount.Sub(prev)
			prev = r.PaidAmount
			if in(r.Date) && delta.IsPositive() {
				total = total.Add(delta)
			}
		}
	}
	return total
}

func topProducts(counts map[string]int, limit int) []dto.ProductCount {
	rows := make([]dto.ProductCount, 0, len(counts))
	for name, n := range counts {
		rows = append(rows, dto.ProductCount{Name: name, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func cashierRows(cashiers map[string]*dto.CashierSales) []dto.CashierSales {
	rows := make([]dto.CashierSales, 0, len(cashiers))
	for _, cs := range cashiers {
		rows = append(rows, *cs)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Total.GreaterThan(rows[j].Total) })
	return rows
}
