package schedule

import (
	"strings"
	"time"

	"stock-notifier/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const (
	fieldCount = 5
	domField   = 2
	dowField   = 4

	// robfig/cron's marker for an unrestricted day field
	starBit = uint64(1) << 63
)

// minute hour day-of-month month day-of-week; no seconds, no descriptors
var standardParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Trigger is a parsed five-field cron expression.
type Trigger struct {
	expr     string
	schedule cron.Schedule
}

func ParseExpression(expr string) (Trigger, error) {
	fields := strings.Fields(expr)
	if len(fields) == 0 {
		return Trigger{}, errs.Wrap(ErrInvalidScheduleExpression, "empty expression")
	}
	if len(fields) != fieldCount {
		return Trigger{}, errs.Wrapf(ErrInvalidScheduleExpression,
			"expected exactly %d fields, found %d in %q", fieldCount, len(fields), expr)
	}

	normalized := strings.Join(fields, " ")
	sched, err := standardParser.Parse(normalized)
	if err != nil {
		return Trigger{}, errs.Wrapf(ErrInvalidScheduleExpression, "%q: %v", expr, err)
	}

	if spec, ok := sched.(*cron.SpecSchedule); ok {
		markStarredDays(spec, fields)
	}

	// e.g. "0 0 30 2 *" parses but has no matching instant
	if sched.Next(time.Now()).IsZero() {
		return Trigger{}, errs.Wrapf(ErrInvalidScheduleExpression, "%q never fires", expr)
	}

	return Trigger{expr: normalized, schedule: sched}, nil
}

func (t Trigger) Expression() string { return t.expr }

// Next returns the first matching instant strictly after from, evaluated in from's location.
// Day-of-month and day-of-week are OR-ed when both are restricted. A day field that
// starts with "*" (including "*/2") is not a restriction, so both must then match.
func (t Trigger) Next(from time.Time) time.Time {
	if t.schedule == nil {
		return time.Time{}
	}
	return t.schedule.Next(from)
}

// Schedule exposes the parsed form to the cron dispatcher.
func (t Trigger) Schedule() cron.Schedule { return t.schedule }

func (t Trigger) IsZero() bool { return t.schedule == nil }

// markStarredDays restores the star marker robfig drops for stepped wildcards,
// so "0 0 1 * */2" means the 1st when it falls on an even weekday.
func markStarredDays(spec *cron.SpecSchedule, fields []string) {
	if strings.HasPrefix(fields[domField], "*") {
		spec.Dom |= starBit
	}
	if strings.HasPrefix(fields[dowField], "*") {
		spec.Dow |= starBit
	}
}
