package framer

import "testing"

// syncFrame builds one on-air frame: an 8-bit header (don't-care bit then
// the 7-bit sync pattern) followed by a 152-bit body.
func syncFrame(body []uint8) []uint8 {
	frame := make([]uint8, FrameLen)
	frame[0] = 0 // don't-care
	copy(frame[1:HeaderLen], []uint8{1, 0, 1, 0, 0, 1, 1})
	copy(frame[HeaderLen:], body)
	return frame
}

func twoFrames(body1, body2 []uint8) []uint8 {
	return append(syncFrame(body1), syncFrame(body2)...)
}

func TestSyncAcquisitionCleanHeaders(t *testing.T) {
	f := New(1)
	body := make([]uint8, DataLen) // all zeros: differential decode leaves it all zero
	stream := twoFrames(body, body)

	if n := f.Recv(stream); n != len(stream) {
		t.Fatalf("Recv accepted %d, want %d", n, len(stream))
	}

	_, ev := f.Next()
	if ev != SyncAcquired {
		t.Fatalf("first Next() = %v, want SyncAcquired", ev)
	}
	if !f.HasSync() {
		t.Fatal("HasSync() = false after SyncAcquired")
	}

	fr, ev := f.Next()
	if ev != FrameReady {
		t.Fatalf("second Next() = %v, want FrameReady", ev)
	}
	for i, v := range fr.Data {
		if v != 0 {
			t.Fatalf("fr.Data[%d] = %d, want 0 (differential decode of an all-zero body)", i, v)
		}
	}
}

func TestSyncAcquisitionOneHeaderError(t *testing.T) {
	f := New(1)
	body := make([]uint8, DataLen)
	stream := twoFrames(body, body)
	stream[3] ^= 1 // one bit flipped in the first header (err=1 <= MaxFrameSyncErr)

	f.Recv(stream)
	_, ev := f.Next()
	if ev != SyncAcquired {
		t.Fatalf("Next() = %v, want SyncAcquired despite a single header bit error", ev)
	}
}

func TestSyncRejectionTwoHeaderErrors(t *testing.T) {
	f := New(1)
	body := make([]uint8, DataLen)
	// Pad well past two frames so the sliding search has room to fail at
	// every offset rather than happening to find a spurious match.
	stream := append(twoFrames(body, body), make([]uint8, 10)...)
	stream[3] ^= 1   // first header, one error
	stream[161] ^= 1 // second header, one error -- combined err=2 > MaxFrameSyncErr

	f.Recv(stream)
	_, ev := f.Next()
	if ev != NeedMoreData {
		t.Fatalf("Next() = %v, want NeedMoreData after acquisition fails", ev)
	}
	if f.HasSync() {
		t.Fatal("HasSync() = true after a failed acquisition")
	}
	if len(f.buf) >= 2*FrameLen {
		t.Fatalf("buffered = %d, want fewer than two frames left after a failed search", len(f.buf))
	}
}

func TestRecvNeverOverflowsBuffer(t *testing.T) {
	f := New(1) // capacity = DefaultBufferFrames * FrameLen
	cap := f.cap

	accepted := f.Recv(make([]uint8, cap+50))
	if accepted != cap {
		t.Fatalf("Recv accepted %d, want %d (free space only)", accepted, cap)
	}
	if more := f.Recv([]uint8{1, 2, 3}); more != 0 {
		t.Fatalf("Recv on a full buffer accepted %d, want 0", more)
	}
}

func TestSyncLossAfterRepeatedHeaderErrors(t *testing.T) {
	f := New(4)
	body := make([]uint8, DataLen)

	// Acquire sync cleanly first.
	f.Recv(twoFrames(body, body))
	if _, ev := f.Next(); ev != SyncAcquired {
		t.Fatal("expected SyncAcquired")
	}

	// Feed frames with a corrupted header every time; total_sync_err grows
	// as 1, 3, 7, 15, ... until it reaches FrameLen (160) and sync is lost.
	lost := false
	for i := 0; i < 10 && !lost; i++ {
		bad := syncFrame(body)
		bad[3] ^= 1
		bad[4] ^= 1 // two errors this frame, combined with any carried lastSyncErr > 1
		f.Recv(bad)
		for {
			_, ev := f.Next()
			if ev == SyncLost {
				lost = true
				break
			}
			if ev == NeedMoreData {
				break
			}
		}
	}
	if !lost {
		t.Fatal("expected SyncLost after repeated bad headers")
	}
}
