package hiddesc

import "sort"

// ReportType selects one of the three report directions.
type ReportType uint8

const (
	ReportInput ReportType = iota
	ReportOutput
	ReportFeature
)

func (t ReportType) String() string {
	switch t {
	case ReportInput:
		return "input"
	case ReportOutput:
		return "output"
	case ReportFeature:
		return "feature"
	default:
		return "invalid"
	}
}

// ReportCounts accumulates bit totals for one Report ID. 64-bit so that
// pathological Report Size × Report Count products cannot overflow.
type ReportCounts struct {
	InputBits   uint64
	OutputBits  uint64
	FeatureBits uint64
}

func (c *ReportCounts) bits(t ReportType) uint64 {
	switch t {
	case ReportInput:
		return c.InputBits
	case ReportOutput:
		return c.OutputBits
	default:
		return c.FeatureBits
	}
}

// ReportSizes holds per-Report-ID bit totals for a descriptor. Accounting is
// flat by Report ID and ignores collection nesting: HID report boundaries are
// defined by Report ID alone.
type ReportSizes struct {
	byID   map[uint8]*ReportCounts
	idUsed bool
}

// MeasureReports accumulates Input/Output/Feature bit totals per Report ID.
//
// It runs in strict mode: a Pop with no matching Push returns
// ErrStackUnderflow, because the output feeds byte-exact size contracts where
// silent drift is unacceptable. Truncated input is still tolerated and
// yields totals for the fully decoded prefix.
func MeasureReports(desc []byte) (*ReportSizes, error) {
	sizes := &ReportSizes{byID: make(map[uint8]*ReportCounts)}
	var state itemState
	for _, it := range ScanItems(desc) {
		if it.Type != ItemMain {
			if err := state.apply(it, true); err != nil {
				return nil, err
			}
			continue
		}
		switch it.Tag {
		case TagInput, TagOutput, TagFeature:
			counts := sizes.byID[state.global.reportID]
			if counts == nil {
				counts = &ReportCounts{}
				sizes.byID[state.global.reportID] = counts
			}
			add := uint64(state.global.reportSize) * uint64(state.global.reportCount)
			switch it.Tag {
			case TagInput:
				counts.InputBits += add
			case TagOutput:
				counts.OutputBits += add
			case TagFeature:
				counts.FeatureBits += add
			}
		}
		state.clearLocals()
	}
	sizes.idUsed = state.reportIDUsed
	return sizes, nil
}

// ReportIDUsed reports whether any Report ID item appeared anywhere in the
// descriptor. When true every non-empty report carries a leading ID byte.
func (s *ReportSizes) ReportIDUsed() bool {
	return s.idUsed
}

// ReportIDs returns the Report IDs that accumulated any bits, ascending.
func (s *ReportSizes) ReportIDs() []uint8 {
	ids := make([]uint8, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Bits returns the accumulated bit total for one report.
func (s *ReportSizes) Bits(t ReportType, id uint8) uint64 {
	counts := s.byID[id]
	if counts == nil {
		return 0
	}
	return counts.bits(t)
}

// Length returns the byte length of one report: zero for an empty report,
// otherwise the bit total rounded up to whole bytes plus the Report ID
// prefix byte when the descriptor uses Report IDs.
func (s *ReportSizes) Length(t ReportType, id uint8) int {
	return reportLength(s.Bits(t, id), s.idUsed)
}

// MaxLength returns the byte length of the largest report of the given type
// across all Report IDs, zero when there are none.
func (s *ReportSizes) MaxLength(t ReportType) int {
	var max uint64
	for _, counts := range s.byID {
		if bits := counts.bits(t); bits > max {
			max = bits
		}
	}
	return reportLength(max, s.idUsed)
}

func reportLength(bits uint64, idUsed bool) int {
	if bits == 0 {
		return 0
	}
	length := int((bits + 7) / 8)
	if idUsed {
		length++
	}
	return length
}
