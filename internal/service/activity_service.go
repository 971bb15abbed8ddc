package service

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

// activityCap bounds the audit log; oldest entries fall off the end.
const activityCap = 1000

type ActivityService interface {
	Record(actor string, role model.Role, action, details string, typ model.ActivityType)
	List() []model.ActivityLog
}

type activityService struct {
	store *store.Store
	clock ledger.Clock
}

func NewActivityService(st *store.Store, clock ledger.Clock) ActivityService {
	return &activityService{store: st, clock: clock}
}

// Record appends an audit entry, newest first. Failures are logged and
// swallowed: auditing never blocks the operation being audited.
func (s *activityService) Record(actor string, role model.Role, action, details string, typ model.ActivityType) {
	entry := model.ActivityLog{
		ID:        uuid.NewString(),
		Action:    action,
		Details:   details,
		User:      actor,
		Role:      role,
		Timestamp: s.clock.Now(),
		Type:      typ,
	}
	err := s.store.Update(func(st *store.State) error {
		st.ActivityLogs = append([]model.ActivityLog{entry}, st.ActivityLogs...)
		if len(st.ActivityLogs) > activityCap {
			st.ActivityLogs = st.ActivityLogs[:activityCap]
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("activity: record failed")
	}
}

func (s *activityService) List() []model.ActivityLog {
	return s.store.Snapshot().ActivityLogs
}
