package infra

// pdf.go: printable receipts and account statements via go-pdf/fpdf.
// fpdf's core fonts are Latin-only, so the fixed labels are English while
// customer and item names flow through as-is.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/Mahdyy18/center-five-system/internal/model"
)

// GenerateInvoicePDF writes a thermal-receipt-style ticket for an invoice and
// returns the absolute path of the generated file.
func GenerateInvoicePDF(inv *model.Invoice, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("invoice_%s.pdf", inv.ID))

	// 74mm x 105mm, close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Center Five", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Sales Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Invoice "+inv.ID, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, inv.Date.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Customer: "+inv.CustomerName, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Cashier: "+inv.CashierName, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, it := range inv.Items {
		name := it.Name
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", it.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, it.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	if discount := inv.DiscountAmount(); !discount.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Discount:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-"+discount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, inv.Total.StringFixed(2), "", 1, "R", false, 0, "")

	if inv.IsDebt {
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(contentW, 4, "Charged on account", "", 1, "C", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// GenerateStatementPDF writes an A4 account statement for a client: charge
// history, payments and the closing balance.
func GenerateStatementPDF(debt *model.ClientDebt, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("statement_%s.pdf", debt.ID))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Center Five", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, "Account Statement", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Customer: "+debt.CustomerName, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	colDate := contentW * 0.20
	colDesc := contentW * 0.55
	colAmount := contentW * 0.25

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colDate, 6, "Date", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colDesc, 6, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colAmount, 6, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, h := range debt.History {
		desc := h.Service
		if len(desc) > 60 {
			desc = desc[:59] + "…"
		}
		pdf.CellFormat(colDate, 6, h.Date.Format("02/01/2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(colDesc, 6, desc, "", 0, "L", false, 0, "")
		pdf.CellFormat(colAmount, 6, h.Amount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	for _, p := range debt.Payments {
		pdf.CellFormat(colDate, 6, p.Date.Format("02/01/2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(colDesc, 6, "Payment received", "", 0, "L", false, 0, "")
		pdf.CellFormat(colAmount, 6, "-"+p.Amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(colDate+colDesc, 6, "Total charges:", "", 0, "L", false, 0, "")
	pdf.CellFormat(colAmount, 6, debt.TotalDebt.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(colDate+colDesc, 6, "Total paid:", "", 0, "L", false, 0, "")
	pdf.CellFormat(colAmount, 6, debt.PaidAmount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(colDate+colDesc, 7, "Balance due:", "", 0, "L", false, 0, "")
	pdf.CellFormat(colAmount, 7, debt.RemainingAmount.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
