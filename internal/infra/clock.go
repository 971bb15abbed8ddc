package infra

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ZoneClock pins all business timestamps to the shop's civil timezone so
// invoice day prefixes and daily reports roll over at local midnight,
// regardless of the host clock's zone.
type ZoneClock struct {
	loc *time.Location
}

// NewZoneClock loads the named timezone, falling back to UTC if the host has
// no tzdata for it.
func NewZoneClock(name string) *ZoneClock {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("clock: falling back to UTC")
		loc = time.UTC
	}
	return &ZoneClock{loc: loc}
}

func (c *ZoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location exposes the pinned zone for report range computation.
func (c *ZoneClock) Location() *time.Location {
	return c.loc
}
