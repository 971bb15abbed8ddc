package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/infra"
	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

var (
	errClientExists = errors.New("يوجد عميل مسجل بنفس الاسم")
)

type DebtService interface {
	CreateClient(req dto.CreateClientRequest) (model.ClientDebt, error)
	ListClients() []model.ClientDebt
	GetClient(id string) (model.ClientDebt, error)
	RecordPayment(clientID string, req dto.RecordPaymentRequest) (model.ClientDebt, error)
	AddCharge(clientID string, req dto.AddChargeRequest) (model.ClientDebt, error)
	DeleteClient(id string) error
	StatementPDF(clientID string) (string, error)
}

type debtService struct {
	store   *store.Store
	coord   *ledger.Coordinator
	pdfPath string
}

func NewDebtService(st *store.Store, coord *ledger.Coordinator, pdfPath string) DebtService {
	return &debtService{store: st, coord: coord, pdfPath: pdfPath}
}

func (s *debtService) CreateClient(req dto.CreateClientRequest) (model.ClientDebt, error) {
	client := model.ClientDebt{
		ID:              uuid.NewString(),
		CustomerName:    strings.TrimSpace(req.CustomerName),
		TotalDebt:       decimal.Zero,
		PaidAmount:      decimal.Zero,
		RemainingAmount: decimal.Zero,
		History:         []model.DebtEntry{},
		Payments:        []model.DebtPayment{},
	}
	err := s.store.Update(func(st *store.State) error {
		for i := range st.Debts {
			if st.Debts[i].MatchesName(client.CustomerName) {
				return errClientExists
			}
		}
		st.Debts = append(st.Debts, client)
		return nil
	})
	return client, err
}

func (s *debtService) ListClients() []model.ClientDebt {
	return s.store.Snapshot().Debts
}

func (s *debtService) GetClient(id string) (model.ClientDebt, error) {
	for _, d := range s.store.Snapshot().Debts {
		if d.ID == id {
			return d, nil
		}
	}
	return model.ClientDebt{}, ledger.ErrClientNotFound
}

func (s *debtService) RecordPayment(clientID string, req dto.RecordPaymentRequest) (model.ClientDebt, error) {
	return s.coord.RecordClientPayment(clientID, req.Amount, req.Note)
}

func (s *debtService) AddCharge(clientID string, req dto.AddChargeRequest) (model.ClientDebt, error) {
	return s.coord.AddClientCharge(clientID, req.Service, req.Amount, req.Note)
}

// DeleteClient removes the account outright, history included.
func (s *debtService) DeleteClient(id string) error {
	return s.store.Update(func(st *store.State) error {
		for i := range st.Debts {
			if st.Debts[i].ID == id {
				st.Debts = append(st.Debts[:i], st.Debts[i+1:]...)
				return nil
			}
		}
		return ledger.ErrClientNotFound
	})
}

func (s *debtService) StatementPDF(clientID string) (string, error) {
	client, err := s.GetClient(clientID)
	if err != nil {
		return "", err
	}
	return infra.GenerateStatementPDF(&client, s.pdfPath)
}
