package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

var (
	errExpenseNotFound  = errors.New("المصروف غير موجود")
	errExpenseProtected = errors.New("لا يمكن تعديل مصروف مرتجع مسجل آليا")
)

type ExpenseService interface {
	Create(req dto.ExpenseRequest) (model.Expense, error)
	Delete(id string) error
	List() []model.Expense
	RecordSupplierMove(req dto.SupplierMoveRequest) (model.Expense, error)
	SupplierSummaries() []dto.SupplierSummary
}

type expenseService struct {
	store *store.Store
	clock ledger.Clock
}

func NewExpenseService(st *store.Store, clock ledger.Clock) ExpenseService {
	return &expenseService{store: st, clock: clock}
}

func (s *expenseService) Create(req dto.ExpenseRequest) (model.Expense, error) {
	exp := model.Expense{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Amount:      req.Amount,
		Date:        s.clock.Now(),
		Category:    model.ExpenseCategory(req.Category),
		Description: req.Description,
		Kind:        model.ExpenseManual,
		StaffID:     req.StaffID,
	}
	err := s.store.Update(func(st *store.State) error {
		st.Expenses = append([]model.Expense{exp}, st.Expenses...)
		return nil
	})
	return exp, err
}

// Delete refuses to touch system-generated return rows: those exist to keep
// the cash register consistent with returned invoices.
func (s *expenseService) Delete(id string) error {
	return s.store.Update(func(st *store.State) error {
		for i := range st.Expenses {
			if st.Expenses[i].ID != id {
				continue
			}
			switch st.Expenses[i].Kind {
			case model.ExpenseReturnFull, model.ExpenseReturnPartial:
				return errExpenseProtected
			}
			st.Expenses = append(st.Expenses[:i], st.Expenses[i+1:]...)
			return nil
		}
		return errExpenseNotFound
	})
}

func (s *expenseService) List() []model.Expense {
	return s.store.Snapshot().Expenses
}

// RecordSupplierMove registers a delivery or a return to the supplier. A
// return carries a negative amount, so supplier totals and the cash register
// net out naturally.
func (s *expenseService) RecordSupplierMove(req dto.SupplierMoveRequest) (model.Expense, error) {
	total := req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
	title := fmt.Sprintf("توريد - %s: %s", req.SupplierName, req.ItemName)
	if req.IsReturn {
		total = total.Neg()
		title = fmt.Sprintf("مرتجع - %s: %s", req.SupplierName, req.ItemName)
	}
	exp := model.Expense{
		ID:           uuid.NewString(),
		Title:        title,
		Amount:       total,
		Date:         s.clock.Now(),
		Category:     model.ExpenseSupplier,
		Kind:         model.ExpenseSupplierMove,
		SupplierName: req.SupplierName,
		ItemName:     req.ItemName,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		TotalPrice:   total,
	}
	err := s.store.Update(func(st *store.State) error {
		st.Expenses = append([]model.Expense{exp}, st.Expenses...)
		return nil
	})
	return exp, err
}

func (s *expenseService) SupplierSummaries() []dto.SupplierSummary {
	totals := make(map[string]*dto.SupplierSummary)
	for _, exp := range s.store.Snapshot().Expenses {
		if exp.Category != model.ExpenseSupplier {
			continue
		}
		sum, ok := totals[exp.SupplierName]
		if !ok {
			sum = &dto.SupplierSummary{SupplierName: exp.SupplierName}
			totals[exp.SupplierName] = sum
		}
		sum.Moves++
		sum.NetTotal = sum.NetTotal.Add(exp.TotalPrice)
	}

	out := make([]dto.SupplierSummary, 0, len(totals))
	for _, sum := range totals {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SupplierName < out[j].SupplierName })
	return out
}
