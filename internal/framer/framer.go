// Package framer implements the TETRAPOL downlink physical-channel framer
// (PAS 0001-2 §6.1–6.3, spec §4.1): a bounded byte-stream buffer with a
// two-stage frame-synchronisation state machine that turns a hard-decided,
// one-bit-per-byte channel stream into 160-bit-cadence frames.
//
// Unlike the teacher repository's codec.RingBuffer (a true modulo-indexed
// ring), the sync search here needs contiguous random access across a
// sliding window, so the buffer is a compacting slice: bytes are appended
// at the tail and whole prefixes are dropped (shifted to the front) as sync
// offset and frames are consumed. Capacity is fixed at construction and
// never grows, matching the "no dynamic allocation during steady state"
// resource policy.
package framer

import (
	"fmt"

	"github.com/tetrapol-go/physch/internal/tables"
)

// FrameNoUnknown is the sentinel value for an unresolved superframe counter.
const FrameNoUnknown = -1

// FrameNoModulus is the superframe length frame_no wraps modulo.
const FrameNoModulus = 200

const (
	// HeaderLen is the differentially-encoded sync header length in bits.
	HeaderLen = 8
	// DataLen is the payload length in bits, following the header.
	DataLen = 152
	// FrameLen is the total on-air frame length in bits.
	FrameLen = HeaderLen + DataLen

	// MaxFrameSyncErr is the maximum combined Hamming distance across two
	// consecutive sync headers tolerated during acquisition, and the
	// maximum combined current+previous header error tolerated while
	// tracking sync.
	MaxFrameSyncErr = 1

	// DefaultBufferFrames is the minimum buffer capacity in frames
	// (spec §3: "rolling input buffer (>=10 frames)").
	DefaultBufferFrames = 10
)

// Frame is a demodulated 152-bit data payload plus its (possibly unknown)
// intra-superframe counter, produced once per 160-bit on-air frame.
type Frame struct {
	FrameNo int
	Data    [DataLen]uint8
}

// Event describes what Next produced on a given call.
type Event int

const (
	// NeedMoreData means the buffer holds less than one frame can be
	// reliably judged against (or sync has not yet been attempted) --
	// the caller should stop pumping Recv/Next and wait for more input.
	NeedMoreData Event = iota
	// SyncAcquired means a new two-header lock was just found; the
	// caller should reset its downstream assembler/segmentation state.
	SyncAcquired
	// FrameReady means Frame is populated with a freshly extracted,
	// differentially-decoded 152-bit payload.
	FrameReady
	// SyncLost means cumulative sync error exceeded the loss threshold;
	// the caller should treat this as "resync needed" and stop pumping
	// until more data arrives (Next will restart acquisition on its own).
	SyncLost
)

// Framer holds the rolling byte buffer and sync state machine for one
// physical channel.
type Framer struct {
	buf []uint8 // len(buf) <= cap(buf); capacity fixed at construction
	cap int

	hasSync      bool
	lastSyncErr  int
	totalSyncErr int
	frameNo      int
}

// New creates a Framer with a buffer capacity of minFrames frames, raised to
// DefaultBufferFrames when minFrames is smaller than that.
func New(minFrames int) *Framer {
	if minFrames < DefaultBufferFrames {
		minFrames = DefaultBufferFrames
	}
	return &Framer{
		buf:     make([]uint8, 0, minFrames*FrameLen),
		cap:     minFrames * FrameLen,
		frameNo: FrameNoUnknown,
	}
}

// Reset clears the buffer and all synchronisation state, as if the Framer
// were newly constructed.
func (f *Framer) Reset() {
	f.buf = f.buf[:0]
	f.hasSync = false
	f.lastSyncErr = 0
	f.totalSyncErr = 0
	f.frameNo = FrameNoUnknown
}

// HasSync reports whether the framer currently holds frame synchronisation.
func (f *Framer) HasSync() bool { return f.hasSync }

// TotalSyncErr returns the cumulative sync-error penalty.
func (f *Framer) TotalSyncErr() int { return f.totalSyncErr }

// FrameNo returns the framer's current superframe counter
// (FrameNoUnknown if not yet resolved).
func (f *Framer) FrameNo() int { return f.frameNo }

// SetFrameNo back-propagates a resolved superframe counter, e.g. once the
// multi-block assembler recovers frame_no from a completed multi-block's
// startmod (spec §4.3 "Frame-number back-propagation").
func (f *Framer) SetFrameNo(n int) { f.frameNo = n }

// advanceFrameNo wraps frame_no modulo the superframe length after a frame
// whose frame_no was resolved.
func (f *Framer) advanceFrameNo(resolved int) {
	f.frameNo = (resolved + 1) % FrameNoModulus
}

// Recv appends up to the buffer's remaining capacity from data and returns
// the number of bytes actually accepted -- always min(len(data), freeSpace).
func (f *Framer) Recv(data []uint8) int {
	free := f.cap - len(f.buf)
	n := len(data)
	if n > free {
		n = free
	}
	f.buf = append(f.buf, data[:n]...)
	return n
}

// consume drops n bytes from the front of the buffer.
func (f *Framer) consume(n int) {
	copy(f.buf, f.buf[n:])
	f.buf = f.buf[:len(f.buf)-n]
}

// Next advances the sync/frame state machine by as much as the current
// buffer allows and returns what happened. The caller drives Next in a loop
// until it returns NeedMoreData (need more input) or SyncLost (resync
// needed); FrameReady and SyncAcquired both mean "call Next again".
//
// On FrameReady, the caller decoding/assembling the frame passes the
// frame_no it resolved for it to ObserveFrameNo, which advances the
// superframe counter so frame_no re-locks for the next frame.
func (f *Framer) Next() (Frame, Event) {
	if !f.hasSync {
		found, offs := f.findFrameSync()
		f.consume(offs)
		if !found {
			return Frame{}, NeedMoreData
		}
		f.hasSync = true
		f.lastSyncErr = 0
		f.totalSyncErr = 0
		f.frameNo = FrameNoUnknown
		return Frame{}, SyncAcquired
	}

	if len(f.buf) < FrameLen {
		return Frame{}, NeedMoreData
	}

	syncErr := cmpFrameSync(f.buf[:HeaderLen])
	if syncErr+f.lastSyncErr > MaxFrameSyncErr {
		f.totalSyncErr = 1 + 2*f.totalSyncErr
		if f.totalSyncErr >= FrameLen {
			f.hasSync = false
			return Frame{}, SyncLost
		}
	} else {
		f.totalSyncErr = 0
	}
	f.lastSyncErr = syncErr

	var fr Frame
	copy(fr.Data[:], f.buf[HeaderLen:FrameLen])
	differentialDecode(fr.Data[:], 0)
	fr.FrameNo = f.frameNo
	f.consume(FrameLen)

	return fr, FrameReady
}

// ObserveFrameNo records the (possibly still unknown) frame_no that the
// decoder/assembler resolved for the frame just emitted by Next, and
// advances the framer's superframe counter for the next frame per spec
// §4.1 ("After successful Frame Decoder return that resolved frame_no...").
func (f *Framer) ObserveFrameNo(resolved int) {
	if resolved != FrameNoUnknown {
		f.advanceFrameNo(resolved)
	}
}

// findFrameSync slides a one-bit window looking for two consecutive sync
// headers (spec §4.1 "Sync acquisition"). It always returns the number of
// bytes to discard from the front of the buffer, whether or not sync was
// found (mirroring the reference: search progress is never re-done).
func (f *Framer) findFrameSync() (found bool, discard int) {
	offs := 0
	syncErr := MaxFrameSyncErr + 1
	for offs+FrameLen+HeaderLen <= len(f.buf) {
		syncErr = cmpFrameSync(f.buf[offs:offs+HeaderLen]) +
			cmpFrameSync(f.buf[offs+FrameLen:offs+FrameLen+HeaderLen])
		if syncErr <= MaxFrameSyncErr {
			break
		}
		offs++
	}
	return syncErr <= MaxFrameSyncErr, offs
}

// cmpFrameSync returns the Hamming distance between header[1:8] and the
// differentially-encoded sync pattern (header[0] is don't-care).
func cmpFrameSync(header []uint8) int {
	err := 0
	for i, want := range tables.FrameSyncPattern {
		if header[i+1] != want {
			err++
		}
	}
	return err
}

// differentialDecode XORs each bit with the running decoded value, seeded
// with seed: out[i] = in[i] XOR out[i-1], out[-1] = seed. Applied in place.
func differentialDecode(data []uint8, seed uint8) uint8 {
	last := seed
	for i := range data {
		last = data[i] ^ last
		data[i] = last
	}
	return last
}

// String renders buffer occupancy for diagnostics.
func (f *Framer) String() string {
	return fmt.Sprintf("Framer{buffered=%d/%d hasSync=%t frameNo=%d totalSyncErr=%d}",
		len(f.buf), f.cap, f.hasSync, f.frameNo, f.totalSyncErr)
}
