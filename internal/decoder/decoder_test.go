package decoder

import (
	"testing"

	"github.com/tetrapol-go/physch/internal/channel"
	"github.com/tetrapol-go/physch/internal/crc5"
	"github.com/tetrapol-go/physch/internal/framer"
	"github.com/tetrapol-go/physch/internal/tables"
)

// buildFrame constructs a valid on-air 152-bit frame for the given scr and
// fn by running the decoder's own pipeline in reverse: channel-encode a
// type=DATA, CRC-valid 76-bit logical frame, interleave it forward,
// diff-precode it forward, then scramble it (scramble and descramble are
// the same XOR, so descramble is reused to scramble too).
func buildFrame(scr, fn int) framer.Frame {
	logical := make([]uint8, crc5.PayloadBits)
	logical[0] = FrameTypeData
	logical[1] = uint8(fn & 1)
	logical[2] = uint8((fn >> 1) & 1)
	for i := 3; i < crc5.PayloadBits; i++ {
		logical[i] = uint8((i * 3) % 2)
	}
	codeword := crc5.Encode(logical) // 74 bits
	full := append(codeword, 0, 0)   // pad to LogicalBits=76; the trailing 2 bits are uninspected

	coded1 := channel.Encode(full[:26])
	coded2 := channel.Encode(full[26:76])
	deinterleaved := append(coded1, coded2...) // 152 bits, channel-coded order

	var afterPrecodeInversion [framer.DataLen]uint8
	for j, src := range tables.InterleaveDataUHF {
		afterPrecodeInversion[src] = deinterleaved[j]
	}

	var onAir [framer.DataLen]uint8
	onAir[0] = afterPrecodeInversion[0]
	for j := 1; j < framer.DataLen; j++ {
		onAir[j] = afterPrecodeInversion[j] ^ onAir[j-tables.DiffPrecodeUHF[j]]
	}

	descramble(onAir[:], scr)

	return framer.Frame{FrameNo: 0, Data: onAir}
}

func TestDecodeWithMatchingFixedSCR(t *testing.T) {
	fr := buildFrame(42, 2)
	d := New(5)
	d.SetSCR(42)

	df, outcome := d.Decode(fr)
	if outcome != Decoded {
		t.Fatalf("outcome = %v, want Decoded", outcome)
	}
	if df.Fn() != 2 {
		t.Errorf("Fn() = %d, want 2", df.Fn())
	}
	if df.Data[0] != FrameTypeData {
		t.Errorf("Data[0] = %d, want FrameTypeData", df.Data[0])
	}
}

func TestDecodeWithWrongFixedSCRFails(t *testing.T) {
	fr := buildFrame(42, 0)
	d := New(5)
	d.SetSCR(7)

	_, outcome := d.Decode(fr)
	if outcome != NoCandidate {
		t.Fatalf("outcome = %v, want NoCandidate", outcome)
	}
}

func TestBlindDetectionLocksAfterConfidence(t *testing.T) {
	d := New(3)
	if d.GetSCR() != DetectSCR {
		t.Fatalf("GetSCR() = %d, want DetectSCR before any frame", d.GetSCR())
	}

	for i := 0; i < 3; i++ {
		fr := buildFrame(99, i%4)
		_, outcome := d.Decode(fr)
		if outcome != Decoded {
			t.Fatalf("frame %d: outcome = %v, want Decoded", i, outcome)
		}
	}

	if !d.Locked() {
		t.Fatal("Locked() = false after scr_confidence matching frames")
	}
	if got := d.GetSCR(); got != 99 {
		t.Fatalf("GetSCR() = %d, want 99", got)
	}
}

func TestResetStatsDropsLock(t *testing.T) {
	d := New(1)
	d.Decode(buildFrame(5, 0))
	if !d.Locked() {
		t.Fatal("expected lock after one frame at confidence=1")
	}
	d.ResetStats()
	if d.Locked() {
		t.Fatal("Locked() = true after ResetStats")
	}
}
