// Package layout declares the on-wire layout shared by the packer and the
// image reader: header positions and the per-state info byte.
package layout

import "fmt"

// Header positions. All header fields are 4-byte little-endian words.
const (
	DstSizeOffset   = 0
	OwsOffsetOffset = 4
	AlphabetOffset  = 8
	HeaderSize      = 8

	// RemapFlag is OR'ed into the alphabet count when symbols are remapped.
	RemapFlag = 0x80000000
)

// TrType is the transition representation of a state record.
type TrType uint8

const (
	// TrsNone marks a state without outgoing transitions.
	TrsNone TrType = 0x00
	// TrsRange stores <count-1> <from>{n} <to>{n} <dst>{n}.
	TrsRange TrType = 0x01
	// TrsImpl stores a single symbol; the destination is the next record.
	TrsImpl TrType = 0x02
	// TrsPara stores <count-1> <iw>{n} <dst>{n}.
	TrsPara TrType = 0x04
	// TrsIwIA stores <base> <max> <dst>{max-base+1}; 0 marks a hole.
	TrsIwIA TrType = 0x06
)

// String returns a human-readable representation name
func (t TrType) String() string {
	switch t {
	case TrsNone:
		return "none"
	case TrsRange:
		return "range"
	case TrsImpl:
		return "implicit"
	case TrsPara:
		return "parallel"
	case TrsIwIA:
		return "iwia"
	default:
		return fmt.Sprintf("TrType(%#x)", uint8(t))
	}
}

// Valid reports whether t is one of the defined representations.
func (t TrType) Valid() bool {
	switch t {
	case TrsNone, TrsRange, TrsImpl, TrsPara, TrsIwIA:
		return true
	}
	return false
}

// Info is the first byte of every state record.
//
// Bit layout (from low to high):
//   - Bits 0-2: TrType
//   - Bits 3-4: symbol field width - 1
//   - Bits 5-6: output field code (0 none, 1 one byte, 2 two bytes, 3 four bytes)
//   - Bit 7: final flag
type Info uint8

const (
	trTypeMask  = 0x07
	iwSizeShift = 3
	iwSizeMask  = 0x03 << iwSizeShift
	owCodeShift = 5
	owCodeMask  = 0x03 << owCodeShift
	finalFlag   = 0x80
)

// NewInfo packs an info byte. iwSize is ignored for TrsNone; owSize must be
// 0, 1, 2 or 4.
func NewInfo(t TrType, iwSize, owSize int, final bool) Info {
	info := Info(t)
	if t != TrsNone {
		//nolint:gosec // G115: iwSize is 1..4, the shifted value fits in 2 bits
		info |= Info(iwSize-1) << iwSizeShift & iwSizeMask
	}
	info |= Info(owSizeCode(owSize)) << owCodeShift
	if final {
		info |= finalFlag
	}
	return info
}

// TrType returns the transition representation.
func (i Info) TrType() TrType {
	return TrType(i & trTypeMask)
}

// IwSize returns the symbol field width in bytes.
func (i Info) IwSize() int {
	return int(i&iwSizeMask>>iwSizeShift) + 1
}

// OwSize returns the output field width in bytes, 0 if there is no output.
func (i Info) OwSize() int {
	switch (i & owCodeMask) >> owCodeShift {
	case 1:
		return 1
	case 2:
		return 2
	case 3:
		return 4
	default:
		return 0
	}
}

// IsFinal reports whether the final flag is set.
func (i Info) IsFinal() bool {
	return i&finalFlag != 0
}

func owSizeCode(size int) uint8 {
	switch size {
	case 1:
		return 1
	case 2:
		return 2
	case 4:
		return 3
	default:
		return 0
	}
}
