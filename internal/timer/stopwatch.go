package timer

import "time"

// Lap records cumulative elapsed time at the moment of capture and the
// delta since the previous lap.
type Lap struct {
	Number int           `json:"number"`
	Total  time.Duration `json:"total"`
	Delta  time.Duration `json:"delta"`
}

// Stopwatch counts up. Elapsed time is accumulated + (now - segmentStart)
// rather than an incremented counter, so missed ticks cost nothing.
type Stopwatch struct {
	accumulated  time.Duration
	segmentStart time.Time
	running      bool
	laps         []Lap
}

func (w *Stopwatch) Running() bool { return w.running }

func (w *Stopwatch) Start(now time.Time) {
	if w.running {
		return
	}
	w.segmentStart = now
	w.running = true
}

// Pause folds the open segment into the accumulated total.
func (w *Stopwatch) Pause(now time.Time) {
	if !w.running {
		return
	}
	w.accumulated += now.Sub(w.segmentStart)
	w.running = false
}

func (w *Stopwatch) Elapsed(now time.Time) time.Duration {
	if !w.running {
		return w.accumulated
	}
	return w.accumulated + now.Sub(w.segmentStart)
}

// Lap captures the current cumulative time and its delta from the
// previous lap.
func (w *Stopwatch) Lap(now time.Time) Lap {
	total := w.Elapsed(now)
	delta := total
	if n := len(w.laps); n > 0 {
		delta = total - w.laps[n-1].Total
	}
	lap := Lap{Number: len(w.laps) + 1, Total: total, Delta: delta}
	w.laps = append(w.laps, lap)
	return lap
}

func (w *Stopwatch) Laps() []Lap {
	out := make([]Lap, len(w.laps))
	copy(out, w.laps)
	return out
}

func (w *Stopwatch) Reset() {
	*w = Stopwatch{}
}
