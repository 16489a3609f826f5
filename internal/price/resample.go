package price

import (
	"math"
	"time"
)

// bucket accumulates bars into one resampled bar.
type bucket struct {
	p     Price
	empty bool
}

func newBucket() bucket { return bucket{empty: true} }

func (b *bucket) add(p Price) {
	if b.empty {
		b.p = Price{High: p.High, Low: p.Low, Close: p.Close, Volume: p.Volume}
		b.empty = false
		return
	}
	b.p.High = math.Max(b.p.High, p.High)
	b.p.Low = math.Min(b.p.Low, p.Low)
	b.p.Close = p.Close
	b.p.Volume += p.Volume
}

func (b *bucket) flush(out Series, date string) Series {
	if b.empty {
		return out
	}
	b.p.Date = date
	out = append(out, b.p)
	*b = newBucket()
	return out
}

// DayToWeek groups daily bars into weeks closing on anchor. Each week is
// dated by its closing anchor day. Bars with unparsable dates are skipped.
func DayToWeek(s Series, anchor time.Weekday) Series {
	var out Series
	var stop time.Time
	started := false
	b := newBucket()

	for _, p := range s {
		t, ok := ParseDate(p.Date)
		if !ok {
			continue
		}
		t = midnight(t)
		if !started {
			stop = nextWeekday(t, anchor)
			started = true
		}
		if t.After(stop) {
			out = b.flush(out, FormatDate(stop))
			for t.After(stop) {
				stop = stop.AddDate(0, 0, 7)
			}
		}
		b.add(p)
	}
	if started {
		out = b.flush(out, FormatDate(stop))
	}
	return out
}

// DayToMonth groups daily bars by calendar month. Each month is dated by
// its last calendar day.
func DayToMonth(s Series) Series {
	var out Series
	var month time.Time
	started := false
	b := newBucket()

	for _, p := range s {
		t, ok := ParseDate(p.Date)
		if !ok {
			continue
		}
		last := lastDayOfMonth(t)
		if started && !last.Equal(month) {
			out = b.flush(out, FormatDate(month))
		}
		month = last
		started = true
		b.add(p)
	}
	if started {
		out = b.flush(out, FormatDate(month))
	}
	return out
}
