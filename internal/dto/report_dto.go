package dto

import "github.com/shopspring/decimal"

// ProductCount is one row of the best-seller leaderboard. The key combines
// the service name with the owning teacher when present.
type ProductCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type CashierSales struct {
	CashierName string          `json:"cashierName"`
	Invoices    int             `json:"invoices"`
	Total       decimal.Decimal `json:"total"`
}

// SalesReport summarizes one day or month of trading. CashIn is the money
// that actually entered the drawer: cash sales plus collections.
type SalesReport struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	InvoiceCount  int             `json:"invoiceCount"`
	CashSales     decimal.Decimal `json:"cashSales"`
	DebtSales     decimal.Decimal `json:"debtSales"`
	Returns       decimal.Decimal `json:"returns"`
	Collections   decimal.Decimal `json:"collections"`
	Expenses      decimal.Decimal `json:"expenses"`
	CashIn        decimal.Decimal `json:"cashIn"`
	NetCash       decimal.Decimal `json:"netCash"`
	TopProducts   []ProductCount  `json:"topProducts"`
	SalesByCashier []CashierSales `json:"salesByCashier"`
}
