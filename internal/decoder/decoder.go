// Package decoder implements the TETRAPOL downlink frame decoder (PAS
// 0001-2 §6.1.2/§6.1.4/§6.1.5/§6.2.2, spec §4.2): descrambling (with blind
// SCR detection), differential-precoding inversion, deinterleaving,
// convolutional channel decoding, and CRC-5 validation of a single 152-bit
// frame.
package decoder

import (
	"fmt"

	"github.com/tetrapol-go/physch/internal/channel"
	"github.com/tetrapol-go/physch/internal/crc5"
	"github.com/tetrapol-go/physch/internal/framer"
	"github.com/tetrapol-go/physch/internal/tables"
)

// DetectSCR selects blind scrambling-constant detection.
const DetectSCR = -1

// MaxSCR is the highest valid scrambling constant (inclusive).
const MaxSCR = 127

// FrameTypeData is the logical frame-type value required at data[0] for a
// data frame to be accepted; anything else (voice, HR-data, ...) is
// dropped per the Non-goals.
const FrameTypeData = 1

// MaxChannelErrors is the greatest number of solution-A/solution-B
// disagreements tolerated in the channel decode before a candidate SCR is
// rejected. The reference rejects on any disagreement at all.
const MaxChannelErrors = 0

// LogicalBits is the length of a decoded data frame (res_len 26 + 50).
const LogicalBits = 76

// DataFrame is a validated 76-bit logical frame plus per-bit disagreement
// flags from the dual-solution channel decode.
type DataFrame struct {
	FrameNo int
	Data    [LogicalBits]uint8
	Err     [LogicalBits]uint8
}

// Fn returns the 2-bit intra-superframe block counter carried in bits 1-2
// of the decoded frame (low bit at index 1, per spec §4.2).
func (df DataFrame) Fn() int {
	return 2*int(df.Data[2]) + int(df.Data[1])
}

// Outcome classifies what a Decode call produced.
type Outcome int

const (
	// NoCandidate means no scrambling constant produced a type-DATA,
	// CRC-valid decode.
	NoCandidate Outcome = iota
	// Ambiguous means more than one scrambling constant passed the full
	// gate on this frame (ties are never silently resolved by "last one
	// wins" -- see spec §9's note on the reference's ambiguous behavior).
	Ambiguous
	// Decoded means exactly one scrambling constant passed.
	Decoded
)

// Decoder holds the per-channel SCR state: the requested mode (a fixed
// constant or DetectSCR), confidence statistics, and the lock once
// acquired. It has no other mutable state and is safe to reuse across
// frames from a single goroutine.
type Decoder struct {
	scr        int // DetectSCR, or a fixed value forced by SetSCR
	confidence int
	stat       [MaxSCR + 1]int
	locked     bool
	lockedSCR  int
}

// New creates a Decoder in blind-detection mode with the given confidence
// threshold (number of frames on which an SCR must pass the decode gate,
// counted cumulatively with ties included, before a detected SCR is locked).
func New(confidence int) *Decoder {
	return &Decoder{scr: DetectSCR, confidence: confidence}
}

// SetSCR forces a fixed scrambling constant, or re-enables blind detection
// when passed DetectSCR. Resets detection statistics, per spec §6.
func (d *Decoder) SetSCR(scr int) {
	d.scr = scr
	d.ResetStats()
}

// GetSCR returns the fixed SCR, the locked SCR once blind detection has
// converged, or DetectSCR while still scanning.
func (d *Decoder) GetSCR() int {
	if d.scr == DetectSCR && d.locked {
		return d.lockedSCR
	}
	return d.scr
}

// SetSCRConfidence sets the number of passing frames (counted cumulatively,
// ties included) required to lock a blindly-detected SCR.
func (d *Decoder) SetSCRConfidence(confidence int) { d.confidence = confidence }

// GetSCRConfidence returns the configured confidence threshold.
func (d *Decoder) GetSCRConfidence() int { return d.confidence }

// Locked reports whether blind detection has converged on an SCR.
func (d *Decoder) Locked() bool { return d.scr == DetectSCR && d.locked }

// ResetStats clears the per-SCR hit counters and drops any lock.
func (d *Decoder) ResetStats() {
	for i := range d.stat {
		d.stat[i] = 0
	}
	d.locked = false
	d.lockedSCR = 0
}

// candidates returns the SCR values to attempt for the next frame.
func (d *Decoder) candidates() []int {
	switch {
	case d.scr != DetectSCR:
		return []int{d.scr}
	case d.locked:
		return []int{d.lockedSCR}
	default:
		all := make([]int, MaxSCR+1)
		for i := range all {
			all[i] = i
		}
		return all
	}
}

// candidate is one scrambling constant that survived the full decode gate.
type candidate struct {
	scr int
	df  DataFrame
}

// Decode runs the per-frame pipeline (descramble/diff-decode/deinterleave/
// channel-decode/type-gate/CRC) across every candidate SCR for the current
// mode. On Decoded, df is populated and the winning SCR's confidence
// counter is bumped (locking it once confidence is reached, in blind
// mode). On Ambiguous, every tied SCR's counter is still bumped (spec §9:
// the reimplementation must not silently let the "last" one win) but no
// DataFrame is produced. On NoCandidate, nothing is bumped.
func (d *Decoder) Decode(fr framer.Frame) (df DataFrame, outcome Outcome) {
	var passing []candidate
	for _, scr := range d.candidates() {
		if cdf, ok := tryDecode(fr, scr); ok {
			passing = append(passing, candidate{scr: scr, df: cdf})
		}
	}

	switch len(passing) {
	case 0:
		return DataFrame{}, NoCandidate
	case 1:
		winner := passing[0]
		d.recordHit(winner.scr)
		return winner.df, Decoded
	default:
		for _, c := range passing {
			d.recordHit(c.scr)
		}
		return DataFrame{}, Ambiguous
	}
}

// recordHit increments the given SCR's confidence counter and locks it
// (in blind mode only) once the counter reaches the confidence threshold.
func (d *Decoder) recordHit(scr int) {
	d.stat[scr]++
	if d.scr == DetectSCR && !d.locked && d.confidence > 0 && d.stat[scr] >= d.confidence {
		d.locked = true
		d.lockedSCR = scr
	}
}

// tryDecode runs the full pipeline for a single candidate SCR against a
// copy of the frame's raw bits, leaving fr untouched.
func tryDecode(fr framer.Frame, scr int) (DataFrame, bool) {
	var data [framer.DataLen]uint8
	copy(data[:], fr.Data[:])

	descramble(data[:], scr)
	invertDiffPrecode(data[:])
	deinterleaved := deinterleave(data[:])

	var logical [LogicalBits]uint8
	var errBits [LogicalBits]uint8

	res1, err1, errs1 := channel.Decode(deinterleaved[:52], 26)
	res2, err2, errs2 := channel.Decode(deinterleaved[52:], 50)
	copy(logical[:26], res1)
	copy(logical[26:], res2)
	copy(errBits[:26], err1)
	copy(errBits[26:], err2)

	if errs1+errs2 > MaxChannelErrors {
		return DataFrame{}, false
	}
	if logical[0] != FrameTypeData {
		return DataFrame{}, false
	}
	if !crc5.Check(logical[:]) {
		return DataFrame{}, false
	}

	return DataFrame{FrameNo: fr.FrameNo, Data: logical, Err: errBits}, true
}

// descramble XORs the 152-bit payload with the rotated scrambling
// m-sequence in place. scr == 0 bypasses descrambling entirely.
func descramble(data []uint8, scr int) {
	if scr == 0 {
		return
	}
	for k := 0; k < framer.DataLen; k++ {
		data[k] ^= tables.Scrambling[(k+scr)%len(tables.Scrambling)]
	}
}

// invertDiffPrecode undoes the UHF differential precoder in place, walking
// from the last bit down to the first per spec §4.2 step 2.
func invertDiffPrecode(data []uint8) {
	for j := framer.DataLen - 1; j >= 1; j-- {
		data[j] ^= data[j-tables.DiffPrecodeUHF[j]]
	}
}

// deinterleave applies the UHF data-frame interleave permutation:
// out[j] = in[pi[j]].
func deinterleave(in []uint8) [framer.DataLen]uint8 {
	var out [framer.DataLen]uint8
	for j, src := range tables.InterleaveDataUHF {
		out[j] = in[src]
	}
	return out
}

func (d *Decoder) String() string {
	return fmt.Sprintf("Decoder{scr=%d locked=%t lockedSCR=%d confidence=%d}",
		d.scr, d.locked, d.lockedSCR, d.confidence)
}
