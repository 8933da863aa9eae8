package hiddesc

import "errors"

// ErrStackUnderflow is returned when a Pop item appears with no matching
// Push. MeasureReports treats it as fatal; Classify ignores it and keeps
// going.
var ErrStackUnderflow = errors.New("hiddesc: pop with empty global state stack")

// globalState holds the global items this interpreter tracks. Push/Pop
// snapshot and restore exactly these four fields.
type globalState struct {
	usagePage   uint32
	reportSize  uint32
	reportCount uint32
	reportID    uint8
}

// localState holds local items. It is reset after every Main item.
type localState struct {
	usages      []uint32
	usageMin    uint32
	usageMax    uint32
	hasUsageMin bool
	hasUsageMax bool
}

// includes reports whether usage u is selected by the current local items:
// listed explicitly, or inside the min..max range when both bounds are set.
// A lone Usage Minimum matches only its exact value; that fallback is
// best-effort for malformed descriptors and intentionally not range-like.
func (l *localState) includes(u uint32) bool {
	for _, usage := range l.usages {
		if usage == u {
			return true
		}
	}
	if l.hasUsageMin && l.hasUsageMax {
		return l.usageMin <= u && u <= l.usageMax
	}
	if l.hasUsageMin {
		return l.usageMin == u
	}
	return false
}

// itemState is the shared global/local tracker. One instance is owned by one
// parse call.
type itemState struct {
	global globalState
	local  localState
	stack  []globalState

	// reportIDUsed becomes true forever once any Report ID item appears.
	reportIDUsed bool
}

// apply dispatches one Global or Local item. Main items are handled by the
// consumer, which must call clearLocals afterwards. In strict mode a Pop on
// an empty stack returns ErrStackUnderflow; in lenient mode it is a no-op.
func (s *itemState) apply(it Item, strict bool) error {
	switch it.Type {
	case ItemGlobal:
		switch it.Tag {
		case TagUsagePage:
			s.global.usagePage = it.Value
		case TagReportSize:
			s.global.reportSize = it.Value
		case TagReportID:
			s.global.reportID = uint8(it.Value)
			s.reportIDUsed = true
		case TagReportCount:
			s.global.reportCount = it.Value
		case TagPush:
			s.stack = append(s.stack, s.global)
		case TagPop:
			if len(s.stack) == 0 {
				if strict {
					return ErrStackUnderflow
				}
				return nil
			}
			s.global = s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
		}
	case ItemLocal:
		switch it.Tag {
		case TagUsage:
			s.local.usages = append(s.local.usages, it.Value)
		case TagUsageMinimum:
			s.local.usageMin = it.Value
			s.local.hasUsageMin = true
		case TagUsageMaximum:
			s.local.usageMax = it.Value
			s.local.hasUsageMax = true
		}
	}
	return nil
}

// clearLocals resets local state. Called after every Main item, including
// Collection and End Collection.
func (s *itemState) clearLocals() {
	s.local = localState{}
}
