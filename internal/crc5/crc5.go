// Package crc5 implements the 5-bit cyclic redundancy check used to
// validate TETRAPOL downlink data frames (PAS 0001-2 §6.2.2), polynomial
// x^5 + x^2 + 1, computed over the first 69 bits of the 74-bit logical
// frame with one unpacked bit (0/1) per byte.
package crc5

// Length is the number of check bits CRC-5 produces.
const Length = 5

// PayloadBits is the number of payload bits the check is computed over.
const PayloadBits = 69

// Compute runs the 5-cell shift register over input and returns the
// resulting check bits. On each input bit:
//
//	inv    := input[i] XOR reg[0]
//	reg    <<= 1 (reg[0]=reg[1], reg[1]=reg[2], reg[2]=reg[3], reg[3]=reg[4])
//	reg[2] ^= inv
//	reg[4]  = inv
func Compute(input []uint8) [Length]uint8 {
	var reg [Length]uint8
	for _, bit := range input {
		inv := bit ^ reg[0]
		reg[0] = reg[1]
		reg[1] = reg[2]
		reg[2] = reg[3] ^ inv
		reg[3] = reg[4]
		reg[4] = inv
	}
	return reg
}

// Check reports whether the 5 bits at input[PayloadBits:PayloadBits+Length]
// match the CRC-5 computed over input[:PayloadBits]. input must have at
// least PayloadBits+Length elements.
func Check(input []uint8) bool {
	if len(input) < PayloadBits+Length {
		return false
	}
	want := Compute(input[:PayloadBits])
	for i := 0; i < Length; i++ {
		if want[i] != input[PayloadBits+i] {
			return false
		}
	}
	return true
}

// Encode appends the CRC-5 of a PayloadBits-bit payload, returning a
// PayloadBits+Length-bit codeword.
func Encode(payload []uint8) []uint8 {
	crc := Compute(payload)
	out := make([]uint8, 0, PayloadBits+Length)
	out = append(out, payload[:PayloadBits]...)
	out = append(out, crc[:]...)
	return out
}
