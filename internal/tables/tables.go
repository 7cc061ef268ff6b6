// Package tables holds the constant, process-wide lookup tables used by the
// TETRAPOL downlink physical-channel core: the blind-scrambling m-sequence,
// the UHF data-frame interleave permutation, and the differential-precoding
// distance table. All three come from PAS 0001-2 §6.1–6.3 and are read-only
// once initialized; nothing in this package allocates per frame.
package tables

// Scrambling is the 127-bit m-sequence used to blind-scramble (and, by
// reapplication, descramble) the 152-bit frame payload. It is generated by
// the LFSR recurrence s[k] = s[k-1] XOR s[k-7], seeded with seven ones
// (PAS 0001-2 §6.1.5.1 / §6.2.5.1 / §6.3.4.1):
//
//	s := []uint8{1, 1, 1, 1, 1, 1, 1}
//	for k := 7; k < 127; k++ {
//	    s = append(s, s[k-1]^s[k-7])
//	}
var Scrambling = [127]uint8{
	1, 1, 1, 1, 1, 1, 1, 0, 1, 0, 1, 0, 1, 0, 0, 1,
	1, 0, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 0, 0, 1, 0,
	1, 1, 0, 0, 0, 1, 1, 0, 1, 1, 1, 1, 0, 1, 1, 0,
	1, 0, 1, 1, 0, 1, 1, 0, 0, 1, 0, 0, 1, 0, 0, 0,
	1, 1, 1, 0, 0, 0, 0, 1, 0, 1, 1, 1, 1, 1, 0, 0,
	1, 0, 1, 0, 1, 1, 1, 0, 0, 1, 1, 0, 1, 0, 0, 0,
	1, 0, 0, 1, 1, 1, 1, 0, 0, 0, 1, 0, 1, 0, 0, 0,
	0, 1, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0,
}

// InterleaveVoiceUHF is the 152-entry UHF voice-frame interleave permutation
// (PAS 0001-2 §6.1.4.1). This core never decodes the voice channel (spec
// Non-goals), so nothing outside this package's tests reads the table; it
// documents the sibling channel, and the tests only check that it is a
// permutation of 0..151.
var InterleaveVoiceUHF = [152]int{
	1, 77, 38, 114, 20, 96, 59, 135, 3, 79, 41, 117, 23, 99, 62, 138,
	5, 81, 44, 120, 26, 102, 65, 141, 8, 84, 47, 123, 29, 105, 68, 144,
	11, 87, 50, 126, 32, 108, 71, 147, 14, 90, 53, 129, 35, 111, 74, 150,
	17, 93, 56, 132, 37, 113, 73, 4, 0, 76, 40, 119, 19, 95, 58, 137,
	151, 80, 42, 115, 24, 100, 60, 133, 12, 88, 48, 121, 30, 106, 66, 139,
	18, 91, 51, 124, 28, 104, 67, 146, 10, 89, 52, 131, 34, 110, 70, 149,
	13, 97, 57, 130, 36, 112, 75, 148, 6, 82, 39, 116, 16, 92, 55, 134,
	2, 78, 43, 122, 22, 98, 61, 140, 9, 85, 45, 118, 27, 103, 63, 136,
	15, 83, 46, 125, 25, 101, 64, 143, 7, 86, 49, 128, 31, 107, 69, 142,
	21, 94, 54, 127, 33, 109, 72, 145,
}

// InterleaveDataUHF is the 152-entry UHF data-frame interleave permutation
// (PAS 0001-2 §6.2.4.1). Deinterleaving computes out[j] = in[InterleaveDataUHF[j]].
var InterleaveDataUHF = [152]int{
	1, 77, 38, 114, 20, 96, 59, 135, 3, 79, 41, 117, 23, 99, 62, 138,
	5, 81, 44, 120, 26, 102, 65, 141, 8, 84, 47, 123, 29, 105, 68, 144,
	11, 87, 50, 126, 32, 108, 71, 147, 14, 90, 53, 129, 35, 111, 74, 150,
	17, 93, 56, 132, 37, 112, 76, 148, 2, 88, 40, 115, 19, 97, 58, 133,
	4, 75, 43, 118, 22, 100, 61, 136, 7, 85, 46, 121, 25, 103, 64, 139,
	10, 82, 49, 124, 28, 106, 67, 142, 13, 91, 52, 127, 31, 109, 73, 145,
	16, 94, 55, 130, 34, 113, 70, 151, 0, 80, 39, 116, 21, 95, 57, 134,
	6, 78, 42, 119, 24, 98, 60, 137, 9, 83, 45, 122, 27, 101, 63, 140,
	12, 86, 48, 125, 30, 104, 66, 143, 15, 89, 51, 128, 33, 107, 69, 146,
	18, 92, 54, 131, 36, 110, 72, 149,
}

// DiffPrecodeUHF is the 152-entry differential-precoding distance table
// (PAS 0001-2 §6.1.4.2 / §6.2.4.2): Δ=2 at the listed positions, Δ=1
// elsewhere. Generated by:
//
//	precod := []int{7, 10, 13, 16, 19, 22, 25, 28, 31, 34, 37, 40,
//	    43, 46, 49, 52, 55, 58, 61, 64, 67, 70, 73, 76,
//	    83, 86, 89, 92, 95, 98, 101, 104, 107, 110, 113, 116,
//	    119, 122, 125, 128, 131, 134, 137, 140, 143, 146, 149}
var DiffPrecodeUHF = [152]int{
	1, 1, 1, 1, 1, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1,
	2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2,
	1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1,
	1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1,
	2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 1,
	1, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2,
	1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1,
	1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1,
	2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2, 1, 1, 2,
	1, 1, 2, 1, 1, 2, 1, 1,
}

// FrameSyncPattern is the 7-bit differentially-encoded downlink frame sync
// word located at offsets 1..7 of the 8-bit frame header (offset 0 is
// don't-care).
var FrameSyncPattern = [7]uint8{1, 0, 1, 0, 0, 1, 1}
