package layout

import "testing"

func TestInfoRoundTrip(t *testing.T) {
	for _, tr := range []TrType{TrsRange, TrsImpl, TrsPara, TrsIwIA} {
		for iwSize := 1; iwSize <= 4; iwSize++ {
			for _, owSize := range []int{0, 1, 2, 4} {
				for _, final := range []bool{false, true} {
					info := NewInfo(tr, iwSize, owSize, final)
					if info.TrType() != tr || info.IwSize() != iwSize ||
						info.OwSize() != owSize || info.IsFinal() != final {
						t.Errorf("NewInfo(%v, %d, %d, %v) = %#08b decodes to %v, %d, %d, %v",
							tr, iwSize, owSize, final, uint8(info),
							info.TrType(), info.IwSize(), info.OwSize(), info.IsFinal())
					}
				}
			}
		}
	}
}

func TestInfoBits(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want uint8
	}{
		{"empty state", NewInfo(TrsNone, 4, 0, false), 0x00},
		{"empty final", NewInfo(TrsNone, 1, 0, true), 0x80},
		{"implicit", NewInfo(TrsImpl, 1, 0, false), 0x02},
		{"parallel wide", NewInfo(TrsPara, 4, 0, false), 0x04 | 0x18},
		{"iwia with short ow", NewInfo(TrsIwIA, 2, 2, false), 0x06 | 0x08 | 0x40},
		{"range with int ow final", NewInfo(TrsRange, 1, 4, true), 0x01 | 0x60 | 0x80},
	}
	for _, tt := range tests {
		if uint8(tt.info) != tt.want {
			t.Errorf("%s: info = %#02x, want %#02x", tt.name, uint8(tt.info), tt.want)
		}
	}
}

func TestTrTypeString(t *testing.T) {
	if TrsIwIA.String() != "iwia" || TrsImpl.String() != "implicit" {
		t.Errorf("unexpected names %q, %q", TrsIwIA, TrsImpl)
	}
	if TrType(0x07).Valid() || TrType(0x03).Valid() {
		t.Error("undefined representations reported as valid")
	}
	if TrType(0x05).String() != "TrType(0x5)" {
		t.Errorf("String() of unknown = %q", TrType(0x05).String())
	}
}
