package domain

// ConsolidateAlerts reduces a window of events to the single
// highest-severity active PAGER alert and the events carrying exactly that
// level. None and green are not elevated and never surface; severity order
// is red > orange > yellow. Returns a zero AlertStatus when no elevated
// alert is present.
func ConsolidateAlerts(events []Event) AlertStatus {
	var highest AlertLevel
	for _, e := range events {
		if alertRank[e.Alert] > alertRank[highest] {
			highest = e.Alert
		}
	}
	if !highest.Elevated() {
		return AlertStatus{}
	}

	var triggering []Event
	for _, e := range events {
		if e.Alert == highest {
			triggering = append(triggering, e)
		}
	}
	return AlertStatus{Level: highest, TriggeringEvents: triggering}
}

// DetectTsunami reports whether any event in the window carries a tsunami
// flag. The most recent flagged event by origin time is surfaced as the
// trigger. Detection is independent of PAGER alert levels.
func DetectTsunami(events []Event) TsunamiStatus {
	var latest *Event
	for i := range events {
		if !events[i].Tsunami {
			continue
		}
		if latest == nil || events[i].Time.After(latest.Time) {
			latest = &events[i]
		}
	}
	if latest == nil {
		return TsunamiStatus{}
	}
	trigger := *latest
	return TsunamiStatus{Warning: true, TriggeringEvent: &trigger}
}
