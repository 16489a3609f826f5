package price

import (
	"strings"
	"time"
)

// Range is the cadence of a synthetic date series.
type Range int

const (
	Day Range = iota
	Weekday
	Friday
	Sunday
	Month
	Hour
	Min
	Sec
)

var rangeNames = map[Range]string{
	Day: "day", Weekday: "weekday", Friday: "friday", Sunday: "sunday",
	Month: "month", Hour: "hour", Min: "min", Sec: "sec",
}

func (r Range) String() string {
	if name, ok := rangeNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRange looks a cadence up by name ("weekday", "month", ...).
func ParseRange(name string) (Range, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for r, n := range rangeNames {
		if n == name {
			return r, true
		}
	}
	return 0, false
}

// Intraday reports whether the cadence produces date-time values.
func (r Range) Intraday() bool {
	return r == Hour || r == Min || r == Sec
}

// MaxDateSerie bounds the number of cadence steps DateSerie will walk.
const MaxDateSerie = 1 << 20

// minStep is the shortest gap between two consecutive values of r.
func (r Range) minStep() time.Duration {
	const day = 24 * time.Hour
	switch r {
	case Day, Weekday:
		return day
	case Friday, Sunday:
		return 7 * day
	case Month:
		return 28 * day
	case Hour:
		return time.Hour
	case Min:
		return time.Minute
	case Sec:
		return time.Second
	}
	return 0
}

// DateSerie produces every date from start to stop inclusive at cadence r.
// Dates found in block (which must be sorted) are left out. Intraday
// cadences produce date-time strings, the rest produce dates. Unparsable
// bounds, start after stop, an unknown cadence or a span of more than
// MaxDateSerie steps give an empty series.
func DateSerie(start, stop string, r Range, block Series) Series {
	from, ok1 := ParseDate(start)
	to, ok2 := ParseDate(stop)
	if !ok1 || !ok2 || from.After(to) {
		return Series{}
	}
	if step := r.minStep(); step == 0 || to.Sub(from)/step >= MaxDateSerie {
		return Series{}
	}
	if !r.Intraday() {
		from, to = midnight(from), midnight(to)
	}

	var next func(time.Time) time.Time
	format := FormatDate
	switch r {
	case Day:
		next = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	case Weekday:
		next = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	case Friday:
		from = nextWeekday(from, time.Friday)
		next = func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }
	case Sunday:
		from = nextWeekday(from, time.Sunday)
		next = func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }
	case Month:
		from = lastDayOfMonth(from)
		next = func(t time.Time) time.Time { return lastDayOfMonth(t.AddDate(0, 0, 1)) }
	case Hour:
		next = func(t time.Time) time.Time { return t.Add(time.Hour) }
		format = FormatDateTime
	case Min:
		next = func(t time.Time) time.Time { return t.Add(time.Minute) }
		format = FormatDateTime
	case Sec:
		next = func(t time.Time) time.Time { return t.Add(time.Second) }
		format = FormatDateTime
	default:
		return Series{}
	}

	out := Series{}
	for t := from; !t.After(to); t = next(t) {
		if r == Weekday && (t.Weekday() == time.Saturday || t.Weekday() == time.Sunday) {
			continue
		}
		date := format(t)
		if len(block) > 0 && Find(block, date) >= 0 {
			continue
		}
		out = append(out, Price{Date: date})
	}
	return out
}
