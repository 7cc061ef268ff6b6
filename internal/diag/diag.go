// Package diag wraps charmbracelet/log with the small set of typed,
// structured events the physical-channel core emits as it runs (spec
// §7's error taxonomy plus the SCR-lock and multi-block milestones). A
// nil *Logger is valid and every method on it is a no-op, so callers that
// don't care about diagnostics can simply omit one.
package diag

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is a thin, nil-safe facade over a charmbracelet/log.Logger.
type Logger struct {
	l *log.Logger
}

// New creates a Logger writing to w at the given level (e.g. log.InfoLevel,
// log.DebugLevel).
func New(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return &Logger{l: l}
}

// NewDefault creates a Logger writing to stderr at info level, suitable
// as a driver's default when no config overrides it.
func NewDefault() *Logger {
	return New(os.Stderr, log.InfoLevel)
}

// With returns a derived Logger that attaches key/value pairs to every
// subsequent event (e.g. a channel id), per charmbracelet/log's
// structured-field convention.
func (d *Logger) With(keyvals ...interface{}) *Logger {
	if d == nil {
		return nil
	}
	return &Logger{l: d.l.With(keyvals...)}
}

// SyncAcquired records that the Framer found a new two-header lock.
func (d *Logger) SyncAcquired(totalErr int) {
	if d == nil {
		return
	}
	d.l.Info("sync acquired", "total_sync_err", totalErr)
}

// SyncLost records that cumulative sync error exceeded the loss threshold.
func (d *Logger) SyncLost(totalErr int) {
	if d == nil {
		return
	}
	d.l.Warn("sync lost", "total_sync_err", totalErr)
}

// DecodeFailed records a DecodeError: no SCR produced a type-DATA,
// CRC-valid frame.
func (d *Logger) DecodeFailed(frameNo int) {
	if d == nil {
		return
	}
	d.l.Debug("frame decode failed", "frame_no", frameNo)
}

// DecodeAmbiguous records more than one SCR passing the gate on a single
// frame -- never silently resolved.
func (d *Logger) DecodeAmbiguous(frameNo int, scrs []int) {
	if d == nil {
		return
	}
	d.l.Warn("ambiguous scr candidates", "frame_no", frameNo, "scrs", scrs)
}

// ScrLocked records blind SCR detection converging.
func (d *Logger) ScrLocked(scr, confidence int) {
	if d == nil {
		return
	}
	d.l.Info("scr locked", "scr", scr, "confidence", confidence)
}

// MultiBlockEmitted records a completed multi-block hand-off to the TPDU
// consumer.
func (d *Logger) MultiBlockEmitted(frameNo, blocks int, ok bool) {
	if d == nil {
		return
	}
	if ok {
		d.l.Info("multi-block emitted", "frame_no", frameNo, "blocks", blocks)
		return
	}
	d.l.Warn("multi-block parity error", "frame_no", frameNo, "blocks", blocks)
}

// ProtocolError records a MultiBlockProtocolError: an illegal fn
// transition for the current assembler state.
func (d *Logger) ProtocolError(state, fn int) {
	if d == nil {
		return
	}
	d.l.Warn("multi-block protocol error", "state", state, "fn", fn)
}
