package domain

// SamplePriority downsamples events to at most sampleSize for render
// budgets, preserving high-magnitude events first. Events at or above
// priorityThreshold are all retained while they fit the budget; remaining
// slots are filled with a uniform random sample of the rest. When priority
// events alone exceed the budget, the result is a uniform random sample of
// the priority partition only, so very large events can still be dropped.
//
// sampleSize <= 0 yields an empty result. sampleSize >= len(events) yields
// a shuffled copy of the full input.
func SamplePriority(events []Event, sampleSize int, priorityThreshold float64) []Event {
	if sampleSize <= 0 {
		return nil
	}
	if sampleSize >= len(events) {
		return shuffled(events)
	}

	var priority, other []Event
	for _, e := range events {
		if e.Mag() >= priorityThreshold {
			priority = append(priority, e)
		} else {
			other = append(other, e)
		}
	}

	if len(priority) >= sampleSize {
		return shuffled(priority)[:sampleSize]
	}

	out := make([]Event, 0, sampleSize)
	out = append(out, priority...)
	out = append(out, shuffled(other)[:sampleSize-len(priority)]...)
	return out
}

// shuffled returns a Fisher–Yates shuffled copy, leaving the input intact.
func shuffled(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	sampleRand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
