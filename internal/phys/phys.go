// Package phys wires the Framer, Decoder, and Assembler into the single
// per-channel entry point the spec's external interfaces describe (§6):
// phys_ch_create/destroy, the SCR getters/setters, recv, and process.
// google/uuid tags each Channel so the blind-detection statistics and
// assembler state -- process-wide in the reference -- are encapsulated
// per instance, letting a driver run several physical channels in one
// process (spec §5).
package phys

import (
	"github.com/google/uuid"

	"github.com/tetrapol-go/physch/internal/assembler"
	"github.com/tetrapol-go/physch/internal/decoder"
	"github.com/tetrapol-go/physch/internal/diag"
	"github.com/tetrapol-go/physch/internal/framer"
	"github.com/tetrapol-go/physch/internal/metrics"
	"github.com/tetrapol-go/physch/internal/telemetry"
)

// Options configures a Channel at creation. Consumer, RCH, SegReset,
// Logger, Metrics, and Store are all optional; a nil value disables the
// corresponding collaborator.
type Options struct {
	Consumer      assembler.TPDUConsumer
	RCH           assembler.RCHDecoder
	SegReset      assembler.SegmentationResetter
	Logger        *diag.Logger
	Metrics       metrics.Recorder
	Store         *telemetry.Store
	BufferFrames  int // 0 selects framer.DefaultBufferFrames
	ScrConfidence int
}

// Channel is one physical channel's full decode pipeline: sync framing,
// blind-SCR frame decoding, and multi-block assembly.
type Channel struct {
	id uuid.UUID

	framer   *framer.Framer
	decoder  *decoder.Decoder
	asm      *assembler.Assembler
	segReset assembler.SegmentationResetter

	log     *diag.Logger
	metrics metrics.Recorder
	store   *telemetry.Store
}

// New creates a Channel (phys_ch_create), recording the session in the
// telemetry store if one is attached.
func New(opts Options) *Channel {
	m := opts.Metrics
	if m == nil {
		m = metrics.NopRecorder{}
	}

	c := &Channel{
		id:       uuid.New(),
		framer:   framer.New(opts.BufferFrames),
		decoder:  decoder.New(opts.ScrConfidence),
		segReset: opts.SegReset,
		log:      opts.Logger,
		metrics:  m,
		store:    opts.Store,
	}
	observer := &observingConsumer{channel: c, next: opts.Consumer}
	c.asm = assembler.New(observer, &observingRCH{channel: c, next: opts.RCH}, opts.SegReset)
	c.asm.SetErrorReporter(observer)
	if c.store != nil {
		_ = c.store.StartSession(c.id.String())
	}
	return c
}

// observingConsumer intercepts multi-block deliveries to record telemetry
// and metrics before forwarding to the driver-supplied consumer, if any.
type observingConsumer struct {
	channel *Channel
	next    assembler.TPDUConsumer
}

func (o *observingConsumer) ProcessTPDU(payload []byte, frameNo int, ok bool) {
	blocks := len(payload) / 8
	o.channel.log.MultiBlockEmitted(frameNo, blocks, ok)
	o.channel.metrics.MultiBlockEmitted(blocks, ok)
	if o.channel.store != nil {
		_ = o.channel.store.RecordMultiBlock(o.channel.id.String(), frameNo, blocks, len(payload), ok)
	}
	if o.next != nil {
		o.next.ProcessTPDU(payload, frameNo, ok)
	}
}

// ProtocolError implements assembler.ErrorReporter, logging the illegal
// (state, fn) transitions the Assembler itself stays agnostic about.
func (o *observingConsumer) ProtocolError(state, fn int) {
	o.channel.log.ProtocolError(state, fn)
}

// observingRCH counts frames diverted to the RCH/PCH decoder before
// forwarding to the driver-supplied one, if any.
type observingRCH struct {
	channel *Channel
	next    assembler.RCHDecoder
}

func (o *observingRCH) DecodeRCH(block assembler.Block) {
	o.channel.metrics.RCHFrame()
	if o.next != nil {
		o.next.DecodeRCH(block)
	}
}

// ID returns the channel's session identifier.
func (c *Channel) ID() uuid.UUID { return c.id }

// Destroy (phys_ch_destroy) releases the channel's telemetry session.
// The Channel itself has no other resources to release; dropping the
// last reference is otherwise sufficient (spec §5: "cancellation is
// accomplished by dropping the PhysCh instance").
func (c *Channel) Destroy() {
	if c.store != nil {
		_ = c.store.EndSession(c.id.String())
	}
}

// SetSCR forces a fixed scrambling constant, or re-enables blind
// detection when passed decoder.DetectSCR.
func (c *Channel) SetSCR(scr int) { c.decoder.SetSCR(scr) }

// GetSCR returns the fixed, locked, or still-scanning SCR.
func (c *Channel) GetSCR() int { return c.decoder.GetSCR() }

// SetSCRConfidence sets the number of passing frames (counted cumulatively,
// ties included) required to lock a blindly-detected SCR.
func (c *Channel) SetSCRConfidence(confidence int) { c.decoder.SetSCRConfidence(confidence) }

// GetSCRConfidence returns the configured confidence threshold.
func (c *Channel) GetSCRConfidence() int { return c.decoder.GetSCRConfidence() }

// Recv appends up to the framer's remaining capacity from data, returning
// the number of bytes actually accepted.
func (c *Channel) Recv(data []byte) int { return c.framer.Recv(data) }

// Process drains as many complete frames as the buffer currently holds,
// decoding and assembling each one, and reports 0 (need more data) or -1
// (sync lost), matching phys_ch_process's two-valued contract.
func (c *Channel) Process() int {
	for {
		fr, ev := c.framer.Next()
		switch ev {
		case framer.NeedMoreData:
			return 0
		case framer.SyncLost:
			c.onSyncLost()
			return -1
		case framer.SyncAcquired:
			c.onSyncAcquired()
		case framer.FrameReady:
			c.onFrame(fr)
		}
	}
}

// Reset zeroes the framer buffer, clears sync state, clears SCR
// statistics, and resets the assembler -- the caller-driven reset
// operation spec §5 requires.
func (c *Channel) Reset() {
	c.framer.Reset()
	c.decoder.ResetStats()
	c.asm.Reset()
}

func (c *Channel) onSyncAcquired() {
	c.asm.Reset()
	c.resetSegmentation()
	c.log.SyncAcquired(c.framer.TotalSyncErr())
	c.metrics.SyncAcquired()
	if c.store != nil {
		_ = c.store.RecordSync(c.id.String(), true, c.framer.TotalSyncErr())
	}
}

func (c *Channel) onSyncLost() {
	c.log.SyncLost(c.framer.TotalSyncErr())
	c.metrics.SyncLost()
	if c.store != nil {
		_ = c.store.RecordSync(c.id.String(), false, c.framer.TotalSyncErr())
	}
}

func (c *Channel) onFrame(fr framer.Frame) {
	wasLocked := c.decoder.Locked()
	df, outcome := c.decoder.Decode(fr)

	switch outcome {
	case decoder.Decoded:
		resolved := c.asm.Consume(df)
		c.framer.ObserveFrameNo(resolved)
		c.metrics.FrameDecoded(c.decoder.GetSCR())
		if !wasLocked && c.decoder.Locked() {
			c.log.ScrLocked(c.decoder.GetSCR(), c.decoder.GetSCRConfidence())
			if c.store != nil {
				_ = c.store.RecordScrLock(c.id.String(), c.decoder.GetSCR(), c.decoder.GetSCRConfidence())
			}
		}
	case decoder.Ambiguous:
		c.asm.Reset()
		c.resetSegmentation()
		c.framer.ObserveFrameNo(fr.FrameNo)
		c.log.DecodeAmbiguous(fr.FrameNo, nil)
		c.metrics.FrameDecodeAmbiguous()
	case decoder.NoCandidate:
		c.asm.Reset()
		c.resetSegmentation()
		c.framer.ObserveFrameNo(fr.FrameNo)
		c.log.DecodeFailed(fr.FrameNo)
		c.metrics.FrameDecodeFailed()
	}
}

func (c *Channel) resetSegmentation() {
	if c.segReset != nil {
		c.segReset.ResetSegmentation()
	}
}
