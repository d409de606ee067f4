package session

import (
	"math/rand"
	"time"
)

// Cosmetic status lines shown while the pipeline runs. They animate the
// PROCESSING view and are deliberately decoupled from real pipeline
// progress.
var (
	statusLines = []string{
		"[INFO] Scansione 40.000 Fonti Accademiche...",
		"[INFO] Filtraggio Contenuti a Bassa Densità...",
		"[INFO] Generazione Mappe Neurali...",
	}

	systemLines = []string{
		"Analyzing patterns...",
		"Decoding vector space...",
		"Retrieving archives...",
		"Synthesizing layout...",
	}
)

// Log lines appended around pipeline settlement.
const (
	logLineDegradedError = " [ERROR] NEURAL LINK SEVERED"
	logLineDegradedWarn  = " [WARN] SWITCHING TO LOCAL CACHE..."
	logLineSuccess       = " [SUCCESS] DATA STREAM ESTABLISHED"
)

// logTailLimit bounds the rotating tail kept when random system lines are
// appended.
const logTailLimit = 4

// tickerSet owns the two cosmetic tickers of one PROCESSING run. Closing
// stop tears both down; the epoch check inside each tick makes teardown safe
// even if a tick races the close.
type tickerSet struct {
	stop chan struct{}
}

// startTickersLocked launches the progress and log tickers for the given
// epoch. Caller holds m.mu.
func (m *Machine) startTickersLocked(epoch uint64) {
	ts := &tickerSet{stop: make(chan struct{})}
	m.tickers = ts

	go m.runProgressTicker(ts, epoch)
	go m.runLogTicker(ts, epoch)
}

// stopTickersLocked tears down the current ticker set, if any. Caller holds
// m.mu.
func (m *Machine) stopTickersLocked() {
	if m.tickers != nil {
		close(m.tickers.stop)
		m.tickers = nil
	}
}

// runProgressTicker advances the cosmetic percentage by a small random step
// each tick. It plateaus past 90 and never reaches 100 on its own; only
// settlement forces 100.
func (m *Machine) runProgressTicker(ts *tickerSet, epoch uint64) {
	t := time.NewTicker(m.timings.ProgressTick)
	defer t.Stop()

	for {
		select {
		case <-ts.stop:
			return
		case <-t.C:
			m.mu.Lock()
			if m.epoch != epoch || m.state != StateProcessing {
				m.mu.Unlock()
				return
			}
			if m.progress < 90 {
				m.progress += rand.Intn(5)
			}
			m.mu.Unlock()
		}
	}
}

// runLogTicker appends the fixed status lines in order, one per tick, and
// occasionally mixes in a random system line while trimming the tail.
func (m *Machine) runLogTicker(ts *tickerSet, epoch uint64) {
	t := time.NewTicker(m.timings.LogTick)
	defer t.Stop()

	next := 0
	for {
		select {
		case <-ts.stop:
			return
		case <-t.C:
			m.mu.Lock()
			if m.epoch != epoch || m.state != StateProcessing {
				m.mu.Unlock()
				return
			}
			if next < len(statusLines) {
				m.logs = append(m.logs, statusLines[next])
				next++
			}
			if rand.Float64() > 0.7 {
				if len(m.logs) > logTailLimit {
					m.logs = append([]string(nil), m.logs[len(m.logs)-logTailLimit:]...)
				}
				m.logs = append(m.logs, " [SYSTEM] "+systemLines[rand.Intn(len(systemLines))])
			}
			m.mu.Unlock()
		}
	}
}
