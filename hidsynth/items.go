// Package hidsynth builds HID report descriptor byte streams for synthesized
// input devices. Items are typed structs that encode themselves; payloads use
// the smallest short-item size that fits, which is what real descriptor
// tables do.
package hidsynth

// Item type field values (HID 1.11 short item prefix).
const (
	typeMain   uint8 = 0
	typeGlobal uint8 = 1
	typeLocal  uint8 = 2
)

// MainFlags are the Input/Output/Feature payload flag bits.
type MainFlags uint8

const (
	FlagConstant MainFlags = 1 << 0 // 0 = data
	FlagVariable MainFlags = 1 << 1 // 0 = array
	FlagRelative MainFlags = 1 << 2 // 0 = absolute
)

// CollectionKind is the Collection item payload byte.
type CollectionKind uint8

const (
	CollectionPhysical    CollectionKind = 0x00
	CollectionApplication CollectionKind = 0x01
	CollectionLogical     CollectionKind = 0x02
)

// Item is one node of a descriptor.
type Item interface {
	appendTo(buf []byte) []byte
}

// Descriptor encodes a sequence of items into descriptor bytes.
func Descriptor(items ...Item) []byte {
	var buf []byte
	for _, it := range items {
		buf = it.appendTo(buf)
	}
	return buf
}

func short(buf []byte, tag, typ uint8, data ...byte) []byte {
	var sizeCode uint8
	switch len(data) {
	case 0:
		sizeCode = 0
	case 1:
		sizeCode = 1
	case 2:
		sizeCode = 2
	default:
		sizeCode = 3
	}
	buf = append(buf, tag<<4|typ<<2|sizeCode)
	return append(buf, data...)
}

func unsigned(v uint32) []byte {
	switch {
	case v <= 0xFF:
		return []byte{byte(v)}
	case v <= 0xFFFF:
		return []byte{byte(v), byte(v >> 8)}
	default:
		return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	}
}

func signed(v int32) []byte {
	switch {
	case v >= -128 && v <= 127:
		return []byte{byte(v)}
	case v >= -32768 && v <= 32767:
		return []byte{byte(v), byte(uint16(v) >> 8)}
	default:
		return []byte{byte(v), byte(uint32(v) >> 8), byte(uint32(v) >> 16), byte(uint32(v) >> 24)}
	}
}

// UsagePage sets the current usage page (Global, tag 0).
type UsagePage uint16

func (u UsagePage) appendTo(buf []byte) []byte {
	return short(buf, 0, typeGlobal, unsigned(uint32(u))...)
}

// LogicalMinimum (Global, tag 1).
type LogicalMinimum int32

func (l LogicalMinimum) appendTo(buf []byte) []byte {
	return short(buf, 1, typeGlobal, signed(int32(l))...)
}

// LogicalMaximum (Global, tag 2).
type LogicalMaximum int32

func (l LogicalMaximum) appendTo(buf []byte) []byte {
	return short(buf, 2, typeGlobal, signed(int32(l))...)
}

// ReportSize sets the field width in bits (Global, tag 7).
type ReportSize uint8

func (r ReportSize) appendTo(buf []byte) []byte {
	return short(buf, 7, typeGlobal, byte(r))
}

// ReportID (Global, tag 8).
type ReportID uint8

func (r ReportID) appendTo(buf []byte) []byte {
	return short(buf, 8, typeGlobal, byte(r))
}

// ReportCount (Global, tag 9).
type ReportCount uint16

func (r ReportCount) appendTo(buf []byte) []byte {
	return short(buf, 9, typeGlobal, unsigned(uint32(r))...)
}

// Push snapshots global state (Global, tag 10).
type Push struct{}

func (Push) appendTo(buf []byte) []byte {
	return short(buf, 10, typeGlobal)
}

// Pop restores global state (Global, tag 11).
type Pop struct{}

func (Pop) appendTo(buf []byte) []byte {
	return short(buf, 11, typeGlobal)
}

// Usage (Local, tag 0).
type Usage uint16

func (u Usage) appendTo(buf []byte) []byte {
	return short(buf, 0, typeLocal, unsigned(uint32(u))...)
}

// UsageMinimum (Local, tag 1).
type UsageMinimum uint16

func (u UsageMinimum) appendTo(buf []byte) []byte {
	return short(buf, 1, typeLocal, unsigned(uint32(u))...)
}

// UsageMaximum (Local, tag 2).
type UsageMaximum uint16

func (u UsageMaximum) appendTo(buf []byte) []byte {
	return short(buf, 2, typeLocal, unsigned(uint32(u))...)
}

// Input (Main, tag 8).
type Input struct{ Flags MainFlags }

func (i Input) appendTo(buf []byte) []byte {
	return short(buf, 8, typeMain, byte(i.Flags))
}

// Output (Main, tag 9).
type Output struct{ Flags MainFlags }

func (o Output) appendTo(buf []byte) []byte {
	return short(buf, 9, typeMain, byte(o.Flags))
}

// Feature (Main, tag 11).
type Feature struct{ Flags MainFlags }

func (f Feature) appendTo(buf []byte) []byte {
	return short(buf, 11, typeMain, byte(f.Flags))
}

// Collection emits a Collection item (Main, tag 10), its children, and the
// matching End Collection (Main, tag 12).
type Collection struct {
	Kind  CollectionKind
	Items []Item
}

func (c Collection) appendTo(buf []byte) []byte {
	buf = short(buf, 10, typeMain, byte(c.Kind))
	for _, it := range c.Items {
		buf = it.appendTo(buf)
	}
	return short(buf, 12, typeMain)
}

// LongItem emits a long item: 0xFE, length, tag, data. Descriptor consumers
// skip these; it exists for transparency testing and vendor blobs.
type LongItem struct {
	Tag  uint8
	Data []byte
}

func (l LongItem) appendTo(buf []byte) []byte {
	buf = append(buf, 0xFE, byte(len(l.Data)), l.Tag)
	return append(buf, l.Data...)
}
