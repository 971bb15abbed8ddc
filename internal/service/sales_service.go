package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

const defaultCustomerName = "عميل نقدي"

var errServiceNotFound = errors.New("الخدمة غير موجودة")

type SalesService interface {
	// Catalog
	CreateService(req dto.ServiceRequest) (model.Service, error)
	UpdateService(id string, req dto.ServiceRequest) (model.Service, error)
	DeleteService(id string) error
	ListServices() []model.Service

	// Invoices
	CreateInvoice(req dto.CreateInvoiceRequest, cashierName string) (model.Invoice, error)
	ListInvoices(filter dto.InvoiceFilter) []model.Invoice
	GetInvoice(id string) (model.Invoice, error)
	SetStatus(id string, status model.InvoiceStatus) error
	PartialReturn(id string, req dto.PartialReturnRequest) (decimal.Decimal, error)
	DeleteInvoice(id string) error
}

type salesService struct {
	store *store.Store
	coord *ledger.Coordinator
}

func NewSalesService(st *store.Store, coord *ledger.Coordinator) SalesService {
	return &salesService{store: st, coord: coord}
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (s *salesService) CreateService(req dto.ServiceRequest) (model.Service, error) {
	svc := model.Service{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		Category:    model.ServiceCategory(req.Category),
		TeacherID:   req.TeacherID,
		TeacherName: req.TeacherName,
	}
	err := s.store.Update(func(st *store.State) error {
		st.Services = append(st.Services, svc)
		return nil
	})
	return svc, err
}

func (s *salesService) UpdateService(id string, req dto.ServiceRequest) (model.Service, error) {
	var out model.Service
	err := s.store.Update(func(st *store.State) error {
		for i := range st.Services {
			if st.Services[i].ID != id {
				continue
			}
			svc := &st.Services[i]
			svc.Name = strings.TrimSpace(req.Name)
			svc.Price = req.Price
			svc.Category = model.ServiceCategory(req.Category)
			svc.TeacherID = req.TeacherID
			svc.TeacherName = req.TeacherName
			out = *svc
			return nil
		}
		return errServiceNotFound
	})
	return out, err
}

func (s *salesService) DeleteService(id string) error {
	return s.store.Update(func(st *store.State) error {
		for i := range st.Services {
			if st.Services[i].ID == id {
				st.Services = append(st.Services[:i], st.Services[i+1:]...)
				return nil
			}
		}
		return errServiceNotFound
	})
}

func (s *salesService) ListServices() []model.Service {
	return s.store.Snapshot().Services
}

// ── Invoices ──────────────────────────────────────────────────────────────────

func (s *salesService) CreateInvoice(req dto.CreateInvoiceRequest, cashierName string) (model.Invoice, error) {
	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		customer = defaultCustomerName
	}
	discountType := model.DiscountType(req.DiscountType)
	if discountType == "" {
		discountType = model.DiscountFixed
	}

	items := make([]model.InvoiceItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = model.InvoiceItem{
			ServiceID:        it.ServiceID,
			Name:             it.Name,
			Quantity:         it.Quantity,
			PricePerUnit:     it.PricePerUnit,
			TeacherID:        it.TeacherID,
			TeacherName:      it.TeacherName,
			DebtTeacherID:    it.DebtTeacherID,
			DebtTeacherName:  it.DebtTeacherName,
			OwnerTeacherName: it.OwnerTeacherName,
		}
	}

	inv := model.Invoice{
		CustomerName:  customer,
		CashierName:   cashierName,
		Items:         items,
		DiscountType:  discountType,
		DiscountValue: req.DiscountValue,
	}
	return s.coord.AddInvoice(inv, req.IsDebt, req.IsTeacherDebt)
}

func (s *salesService) ListInvoices(filter dto.InvoiceFilter) []model.Invoice {
	snap := s.store.Snapshot()
	out := make([]model.Invoice, 0, len(snap.Invoices))
	customer := strings.ToLower(strings.TrimSpace(filter.Customer))
	for _, inv := range snap.Invoices {
		if filter.Date != "" && inv.Date.Format("2006-01-02") != filter.Date {
			continue
		}
		if filter.Status != "" && string(inv.Status) != filter.Status {
			continue
		}
		if customer != "" && !strings.Contains(strings.ToLower(inv.CustomerName), customer) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

func (s *salesService) GetInvoice(id string) (model.Invoice, error) {
	for _, inv := range s.store.Snapshot().Invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return model.Invoice{}, ledger.ErrInvoiceNotFound
}

func (s *salesService) SetStatus(id string, status model.InvoiceStatus) error {
	return s.coord.SetInvoiceStatus(id, status)
}

func (s *salesService) PartialReturn(id string, req dto.PartialReturnRequest) (decimal.Decimal, error) {
	lines := make([]ledger.ReturnLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = ledger.ReturnLine{ServiceID: l.ServiceID, Quantity: l.Quantity}
	}
	return s.coord.PartialReturn(id, lines)
}

func (s *salesService) DeleteInvoice(id string) error {
	return s.coord.DeleteInvoice(id)
}
