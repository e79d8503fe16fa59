/* scheduler.go
 * Contains the weekly re-aggregation scheduler. Matchup data settles by Tuesday
 * morning, so one rebuild pass per week keeps the stored aggregates current
 */

package scheduler

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"

	"rosteriq/api/api"
)

type Scheduler struct {
	s       gocron.Scheduler
	api     *api.API
	rebuild gocron.AtTime
}

// NewScheduler creates a scheduler that rebuilds all owner aggregates weekly.
// rebuildTime is a local "HH:MM" in the given timezone.
func NewScheduler(a *api.API, rebuildTime string, timezone string) (*Scheduler, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Error("Failed to load location, falling back to UTC", "timezone", timezone, "error", err)
		location = time.UTC
	}

	at, err := parseAtTime(rebuildTime)
	if err != nil {
		return nil, err
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:       s,
		api:     a,
		rebuild: at,
	}, nil
}

func (s *Scheduler) Start() error {
	// Aggregate rebuild - Tuesday mornings, after the weekend's matchups settle
	_, err := s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(s.rebuild)),
		gocron.NewTask(s.rebuildAggregates),
	)
	if err != nil {
		return fmt.Errorf("failed to create aggregate rebuild job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) rebuildAggregates() {
	owners, err := s.api.RebuildAllAggregates()
	if err != nil {
		slog.Error("Failed to rebuild owner aggregates", "error", err)
		return
	}
	slog.Info("weekly aggregate rebuild complete", "owners", owners)
}

// parseAtTime converts "HH:MM" into a gocron AtTime.
func parseAtTime(v string) (gocron.AtTime, error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid rebuild time %q, expected HH:MM", v)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return nil, fmt.Errorf("invalid rebuild hour in %q", v)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid rebuild minute in %q", v)
	}
	return gocron.NewAtTime(uint(hour), uint(minute), 0), nil
}
