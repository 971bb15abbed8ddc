// Package worker runs the scheduled backup loops. Backups are fire and
// forget: a failed run is logged and the next tick tries again.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Mahdyy18/center-five-system/internal/infra"
	"github.com/Mahdyy18/center-five-system/internal/service"
)

type BackupScheduler struct {
	data    service.DataService
	local   *infra.LocalSink
	dropbox *infra.DropboxClient // nil = cloud backup disabled

	localEvery time.Duration
	cloudEvery time.Duration
}

func NewBackupScheduler(data service.DataService, local *infra.LocalSink, dropbox *infra.DropboxClient, localEvery, cloudEvery time.Duration) *BackupScheduler {
	return &BackupScheduler{
		data:       data,
		local:      local,
		dropbox:    dropbox,
		localEvery: localEvery,
		cloudEvery: cloudEvery,
	}
}

// Start launches the backup loops and returns immediately. Both loops stop
// when ctx is canceled.
func (s *BackupScheduler) Start(ctx context.Context) {
	go s.runLocal(ctx)
	if s.dropbox != nil {
		go s.runCloud(ctx)
	} else {
		log.Info().Msg("backup: no dropbox token, cloud backup disabled")
	}
}

func (s *BackupScheduler) runLocal(ctx context.Context) {
	ticker := time.NewTicker(s.localEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			payload, err := s.data.ExportJSON()
			if err != nil {
				log.Error().Err(err).Msg("backup: export failed")
				continue
			}
			if err := s.local.Write(payload); err != nil {
				log.Error().Err(err).Msg("backup: local write failed")
				continue
			}
			log.Debug().Str("path", s.local.Path()).Msg("backup: local snapshot written")
		}
	}
}

func (s *BackupScheduler) runCloud(ctx context.Context) {
	ticker := time.NewTicker(s.cloudEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			payload, err := s.data.ExportJSON()
			if err != nil {
				log.Error().Err(err).Msg("backup: export failed")
				continue
			}
			uploadCtx, cancel := context.WithTimeout(ctx, 90*time.Second)
			err = s.dropbox.Upload(uploadCtx, payload)
			cancel()
			if err != nil {
				log.Error().Err(err).Msg("backup: dropbox upload failed")
				continue
			}
			log.Info().Msg("backup: cloud snapshot uploaded")
		}
	}
}
