package schedule

import "time"

// GenerateSlots walks candidate start times for one calendar date and returns
// the bookable ones in order. It is pure: no side effects, same inputs yield
// the same output, and existing is never mutated.
//
// Rules, in the order they eliminate candidates:
//  1. the date's weekday (in the instructor's timezone) must be a working day
//  2. the whole session must fit inside [dailyOpen, dailyClose) — no clipping
//  3. the start must honor the minimum notice from now
//  4. the session must not overlap the break window, if one is configured;
//     a candidate crossing the break restarts the grid at the break's end
//  5. the session must not overlap any existing reservation
//
// Degenerate rule sets (granularity wider than the day, session longer than
// the day, break covering the day) produce an empty result, not an error.
func GenerateSlots(rs RuleSet, date time.Time, now time.Time, existing []TimeWindow) []TimeWindow {
	if rs.Validate() != nil {
		return nil
	}

	localDate := date.In(rs.Location)
	if !rs.worksOn(localDate.Weekday()) {
		return nil
	}

	open := rs.DailyOpen.At(localDate, rs.Location)
	close := rs.DailyClose.At(localDate, rs.Location)
	if !open.Before(close) {
		return nil
	}

	noticeLimit := now.Add(rs.MinNotice)
	brk, hasBreak := rs.breakWindow(localDate)

	var slots []TimeWindow
	for start := open; start.Before(close); {
		end := start.Add(rs.SessionDuration)
		candidate, err := NewTimeWindow(start, end)
		if err != nil {
			break
		}

		// A candidate crossing the break realigns the grid to the break's
		// end, so the afternoon fills from the moment work resumes.
		if hasBreak && candidate.Overlaps(brk) {
			start = brk.End()
			continue
		}

		if end.After(close) || start.Before(noticeLimit) || overlapsAny(candidate, existing) {
			start = start.Add(rs.SlotGranularity)
			continue
		}

		slots = append(slots, candidate)
		start = start.Add(rs.SlotGranularity)
	}
	return slots
}

func overlapsAny(candidate TimeWindow, existing []TimeWindow) bool {
	for _, w := range existing {
		if candidate.Overlaps(w) {
			return true
		}
	}
	return false
}
