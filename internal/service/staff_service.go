package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

var errStaffNotFound = errors.New("الموظف غير موجود")

type StaffService interface {
	Create(req dto.StaffRequest) (model.Staff, error)
	Update(id string, req dto.StaffRequest) (model.Staff, error)
	Delete(id string) error
	List() []model.Staff
	AddBonus(id string, req dto.StaffBonusRequest) (model.Staff, error)
	AddPenalty(id string, req dto.StaffAmountRequest) (model.Staff, error)
	AddWithdrawal(id string, req dto.StaffAmountRequest) (model.Staff, error)
}

type staffService struct {
	store *store.Store
	clock ledger.Clock
}

func NewStaffService(st *store.Store, clock ledger.Clock) StaffService {
	return &staffService{store: st, clock: clock}
}

func (s *staffService) Create(req dto.StaffRequest) (model.Staff, error) {
	member := model.Staff{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Salary:      req.Salary,
		Bonuses:     []model.StaffBonus{},
		Penalties:   []model.StaffPenalty{},
		Withdrawals: []model.StaffWithdrawal{},
	}
	err := s.store.Update(func(st *store.State) error {
		st.Staff = append(st.Staff, member)
		return nil
	})
	return member, err
}

func (s *staffService) Update(id string, req dto.StaffRequest) (model.Staff, error) {
	var out model.Staff
	err := s.mutate(id, func(m *model.Staff) {
		m.Name = strings.TrimSpace(req.Name)
		m.Salary = req.Salary
		out = *m
	})
	return out, err
}

func (s *staffService) Delete(id string) error {
	return s.store.Update(func(st *store.State) error {
		for i := range st.Staff {
			if st.Staff[i].ID == id {
				st.Staff = append(st.Staff[:i], st.Staff[i+1:]...)
				return nil
			}
		}
		return errStaffNotFound
	})
}

func (s *staffService) List() []model.Staff {
	return s.store.Snapshot().Staff
}

func (s *staffService) AddBonus(id string, req dto.StaffBonusRequest) (model.Staff, error) {
	var out model.Staff
	err := s.mutate(id, func(m *model.Staff) {
		m.Bonuses = append(m.Bonuses, model.StaffBonus{
			ID:     uuid.NewString(),
			Amount: req.Amount,
			Date:   s.clock.Now(),
			Type:   model.BonusType(req.Type),
			Note:   req.Note,
		})
		out = *m
	})
	return out, err
}

func (s *staffService) AddPenalty(id string, req dto.StaffAmountRequest) (model.Staff, error) {
	var out model.Staff
	err := s.mutate(id, func(m *model.Staff) {
		m.Penalties = append(m.Penalties, model.StaffPenalty{
			ID:     uuid.NewString(),
			Amount: req.Amount,
			Date:   s.clock.Now(),
			Note:   req.Note,
		})
		out = *m
	})
	return out, err
}

func (s *staffService) AddWithdrawal(id string, req dto.StaffAmountRequest) (model.Staff, error) {
	var out model.Staff
	err := s.mutate(id, func(m *model.Staff) {
		m.Withdrawals = append(m.Withdrawals, model.StaffWithdrawal{
			ID:     uuid.NewString(),
			Amount: req.Amount,
			Date:   s.clock.Now(),
			Note:   req.Note,
		})
		out = *m
	})
	return out, err
}

func (s *staffService) mutate(id string, fn func(*model.Staff)) error {
	return s.store.Update(func(st *store.State) error {
		for i := range st.Staff {
			if st.Staff[i].ID == id {
				fn(&st.Staff[i])
				return nil
			}
		}
		return errStaffNotFound
	})
}
