// Package hiddesc interprets USB HID report descriptors (HID 1.11).
//
// It answers two questions about a raw descriptor byte stream: what kind of
// input device each top-level Application collection describes (keyboard,
// mouse, tablet), and exactly how many bytes each Input, Output and Feature
// report occupies per Report ID. Parsing is a pure function of the input
// bytes; no state is shared between calls.
package hiddesc

// ItemType is the 2-bit type field of a short item prefix.
type ItemType uint8

const (
	ItemMain ItemType = iota
	ItemGlobal
	ItemLocal
	ItemReserved
)

// Main item tags.
const (
	TagInput         uint8 = 8
	TagOutput        uint8 = 9
	TagCollection    uint8 = 10
	TagFeature       uint8 = 11
	TagEndCollection uint8 = 12
)

// Global item tags.
const (
	TagUsagePage   uint8 = 0
	TagReportSize  uint8 = 7
	TagReportID    uint8 = 8
	TagReportCount uint8 = 9
	TagPush        uint8 = 10
	TagPop         uint8 = 11
)

// Local item tags.
const (
	TagUsage        uint8 = 0
	TagUsageMinimum uint8 = 1
	TagUsageMaximum uint8 = 2
)

// Application collection type byte.
const CollectionTypeApplication = 0x01

// longItemPrefix marks a long item: [0xFE, size, tag, data...].
const longItemPrefix = 0xFE

// Item is one decoded short item. Long items are recognized by the scanner
// but never materialized.
type Item struct {
	Type ItemType
	// Tag is the 4-bit tag field, namespaced by Type.
	Tag uint8
	// Size is the decoded payload size in bytes: 0, 1, 2 or 4.
	Size uint8
	// Value is the payload read as a little-endian unsigned integer.
	Value uint32
}

// ScanItems decodes a descriptor byte stream into its short items.
//
// Long items are skipped whole (prefix, size byte, tag byte and payload) and
// contribute nothing. Truncated input never produces an error: the scan stops
// at the first item that runs past the end of the buffer and returns whatever
// was fully decoded before it. Callers deliberately feed sliced fixtures, so
// partial results are part of the contract.
func ScanItems(desc []byte) []Item {
	items := make([]Item, 0, len(desc)/2)
	i := 0
	for i < len(desc) {
		prefix := desc[i]
		i++
		if prefix == longItemPrefix {
			if i+2 > len(desc) {
				return items
			}
			skip := int(desc[i])
			i += 2 // size byte + tag byte
			if i+skip > len(desc) {
				return items
			}
			i += skip
			continue
		}
		size := int(prefix & 0x03)
		if size == 3 {
			size = 4
		}
		if i+size > len(desc) {
			return items
		}
		var value uint32
		for b := 0; b < size; b++ {
			value |= uint32(desc[i+b]) << (8 * b)
		}
		i += size
		items = append(items, Item{
			Type:  ItemType(prefix >> 2 & 0x03),
			Tag:   prefix >> 4,
			Size:  uint8(size),
			Value: value,
		})
	}
	return items
}
