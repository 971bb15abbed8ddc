package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

var (
	errTeacherNotFound = errors.New("المدرس غير موجود")
	errTeacherExists   = errors.New("يوجد مدرس مسجل بنفس الاسم")
)

type TeacherService interface {
	Create(req dto.TeacherRequest) (model.Teacher, error)
	Update(id string, req dto.TeacherRequest) (model.Teacher, error)
	Delete(id string) error
	List() []model.Teacher
	Get(id string) (model.Teacher, error)
	SettleUnits(id string, req dto.SettleUnitsRequest) (model.Teacher, error)
	UnitsReport(id string) (dto.TeacherReportResponse, error)
}

type teacherService struct {
	store *store.Store
	coord *ledger.Coordinator
}

func NewTeacherService(st *store.Store, coord *ledger.Coordinator) TeacherService {
	return &teacherService{store: st, coord: coord}
}

func (s *teacherService) Create(req dto.TeacherRequest) (model.Teacher, error) {
	teacher := model.Teacher{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Code:        req.Code,
		Phone:       req.Phone,
		History:     []model.TeacherHistoryItem{},
		Settlements: []model.TeacherSettlement{},
	}
	err := s.store.Update(func(st *store.State) error {
		for i := range st.Teachers {
			if st.Teachers[i].MatchesName(teacher.Name) {
				return errTeacherExists
			}
		}
		st.Teachers = append(st.Teachers, teacher)
		return nil
	})
	return teacher, err
}

func (s *teacherService) Update(id string, req dto.TeacherRequest) (model.Teacher, error) {
	var out model.Teacher
	err := s.store.Update(func(st *store.State) error {
		for i := range st.Teachers {
			if st.Teachers[i].ID != id {
				continue
			}
			t := &st.Teachers[i]
			newName := strings.TrimSpace(req.Name)
			// renames propagate to the teacher's catalog services
			if newName != t.Name {
				for si := range st.Services {
					if st.Services[si].TeacherID == t.ID {
						st.Services[si].TeacherName = newName
					}
				}
			}
			t.Name = newName
			t.Code = req.Code
			t.Phone = req.Phone
			out = *t
			return nil
		}
		return errTeacherNotFound
	})
	return out, err
}

// Delete removes the teacher and cascades into the catalog: every service
// consigned under the teacher disappears with them.
func (s *teacherService) Delete(id string) error {
	return s.store.Update(func(st *store.State) error {
		idx := -1
		for i := range st.Teachers {
			if st.Teachers[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errTeacherNotFound
		}
		st.Teachers = append(st.Teachers[:idx], st.Teachers[idx+1:]...)

		kept := st.Services[:0]
		for _, svc := range st.Services {
			if svc.TeacherID != id {
				kept = append(kept, svc)
			}
		}
		st.Services = kept
		return nil
	})
}

func (s *teacherService) List() []model.Teacher {
	return s.store.Snapshot().Teachers
}

func (s *teacherService) Get(id string) (model.Teacher, error) {
	for _, t := range s.store.Snapshot().Teachers {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Teacher{}, errTeacherNotFound
}

func (s *teacherService) SettleUnits(id string, req dto.SettleUnitsRequest) (model.Teacher, error) {
	return s.coord.SettleTeacherUnits(id, req.Quantity, req.Note)
}

// UnitsReport groups the teacher's DEBT history into (day, service) buckets
// so the monthly settlement meeting has per-note sale counts.
func (s *teacherService) UnitsReport(id string) (dto.TeacherReportResponse, error) {
	teacher, err := s.Get(id)
	if err != nil {
		return dto.TeacherReportResponse{}, err
	}

	type bucket struct {
		date    string
		service string
	}
	counts := make(map[bucket]int)
	total := 0
	for _, h := range teacher.History {
		if h.EntryType != model.EntryDebt {
			continue
		}
		counts[bucket{date: h.Date.Format("2006-01-02"), service: h.ServiceName}] += h.Quantity
		total += h.Quantity
	}

	rows := make([]dto.TeacherReportRow, 0, len(counts))
	for b, units := range counts {
		rows = append(rows, dto.TeacherReportRow{Date: b.date, ServiceName: b.service, Units: units})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		return rows[i].ServiceName < rows[j].ServiceName
	})

	return dto.TeacherReportResponse{
		TeacherID:   teacher.ID,
		TeacherName: teacher.Name,
		TotalUnits:  total,
		Rows:        rows,
	}, nil
}
