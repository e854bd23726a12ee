package bit

// IsSet will check if the bit at the specified index is set to 1 or not.
func IsSet(index uint, value uint64) bool {
	return ((value >> index) & 1) == 1
}

// Set will return the passed value with the bit at the specified index set to 1.
func Set(index uint, value uint64) uint64 {
	return value | (1 << index)
}

// Field extracts width bits from value, starting at bit shift.
// Example: Field(0b11010110, 4, 3) -> 0b101 (extracts bits 6, 5, 4)
func Field(value uint64, shift, width uint) uint64 {
	if width >= 64 {
		return value >> shift
	}
	return (value >> shift) & ((1 << width) - 1)
}

// Insert returns value with the width bits starting at shift replaced by field.
// Bits of field above width are discarded.
func Insert(value uint64, shift, width uint, field uint64) uint64 {
	var mask uint64
	if width >= 64 {
		mask = ^uint64(0)
	} else {
		mask = (1 << width) - 1
	}
	return (value &^ (mask << shift)) | ((field & mask) << shift)
}

// Low returns the low 32 bits of a 64 bit value.
func Low(value uint64) uint32 {
	return uint32(value)
}

// High returns the high 32 bits of a 64 bit value.
func High(value uint64) uint32 {
	return uint32(value >> 32)
}

// Combine combines two 32 bit values into a single 64 bit value.
// The high word will be the most significant one.
func Combine(high, low uint32) uint64 {
	return (uint64(high) << 32) | uint64(low)
}
