//go:build unit

package usecase

import "github.com/robfig/cron/v3"

// SetTickSchedule arms jobs registered or restored afterwards on sched instead
// of their own trigger, so cron-driven firings can run at sub-minute cadence.
func (s *SchedulerService) SetTickSchedule(sched cron.Schedule) {
	s.mu.Lock()
	s.tickOverride = sched
	s.mu.Unlock()
}
