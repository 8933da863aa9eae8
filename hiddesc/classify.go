package hiddesc

// Usage pages and usages the classifier cares about.
const (
	UsagePageGenericDesktop = 0x01
	UsagePageDigitizers     = 0x0D

	UsagePointer  = 0x01
	UsageMouse    = 0x02
	UsageKeyboard = 0x06
	UsageX        = 0x30
	UsageY        = 0x31
)

// DeviceClass is the reduced device-kind label for a whole descriptor. The
// first four values match the virtio-input driver's device kind enum.
type DeviceClass uint8

const (
	ClassUnknown DeviceClass = iota
	ClassKeyboard
	ClassMouse
	ClassTablet
	ClassAmbiguous
)

func (c DeviceClass) String() string {
	switch c {
	case ClassKeyboard:
		return "keyboard"
	case ClassMouse:
		return "mouse"
	case ClassTablet:
		return "tablet"
	case ClassAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// collectionKind is decided once, when an Application collection opens.
type collectionKind uint8

const (
	kindUnknown collectionKind = iota
	kindKeyboard
	kindMouseOrPointer
	kindTablet
)

type collectionFrame struct {
	application bool
	usagePage   uint32
	usage       uint32
	kind        collectionKind

	sawXAbs bool
	sawYAbs bool
	sawXRel bool
	sawYRel bool
}

// ClassificationSummary counts finalized Application collections by shape.
//
// An absolute-only Mouse/Pointer collection increments both MouseXYAbsolute
// and TabletCollections: a pointer device that only ever reports absolute
// X/Y is accepted as tablet-like even though it was authored under a Mouse
// usage. Downstream checks depend on that overlap.
type ClassificationSummary struct {
	KeyboardCollections int
	MouseCollections    int
	TabletCollections   int
	MouseXYRelative     int
	MouseXYAbsolute     int
}

// Class reduces the summary to a single label. A Mouse/Pointer collection
// that qualified as neither relative nor absolute-only (buttons-only, single
// axis) makes the whole descriptor unknown, overriding everything else.
func (s ClassificationSummary) Class() DeviceClass {
	if s.MouseCollections > s.MouseXYRelative {
		return ClassUnknown
	}
	hasKeyboard := s.KeyboardCollections > 0
	hasMouse := s.MouseXYRelative > 0
	hasTablet := s.TabletCollections > 0

	n := 0
	for _, has := range []bool{hasKeyboard, hasMouse, hasTablet} {
		if has {
			n++
		}
	}
	switch {
	case n > 1:
		return ClassAmbiguous
	case hasKeyboard:
		return ClassKeyboard
	case hasMouse:
		return ClassMouse
	case hasTablet:
		return ClassTablet
	default:
		return ClassUnknown
	}
}

// Classify walks a descriptor and summarizes its Application collections.
// It runs in lenient mode: truncated input, stack underflow and unbalanced
// collections all degrade to best-effort partial results, never an error.
func Classify(desc []byte) ClassificationSummary {
	var (
		state   itemState
		frames  []collectionFrame
		summary ClassificationSummary
	)
	for _, it := range ScanItems(desc) {
		if it.Type != ItemMain {
			state.apply(it, false)
			continue
		}
		switch it.Tag {
		case TagCollection:
			frames = append(frames, openFrame(&state, it.Value))
		case TagEndCollection:
			if len(frames) > 0 {
				top := frames[len(frames)-1]
				frames = frames[:len(frames)-1]
				summary.finalize(top)
			}
		case TagInput:
			recordAxes(&state, frames, it.Value)
		}
		state.clearLocals()
	}
	// Unterminated collections are finalized as if closed at end of input.
	for i := len(frames) - 1; i >= 0; i-- {
		summary.finalize(frames[i])
	}
	return summary
}

func openFrame(state *itemState, collectionType uint32) collectionFrame {
	frame := collectionFrame{
		application: collectionType == CollectionTypeApplication,
		usagePage:   state.global.usagePage,
	}
	switch {
	case len(state.local.usages) > 0:
		frame.usage = state.local.usages[0]
	case state.local.hasUsageMin:
		frame.usage = state.local.usageMin
	}
	if frame.application {
		switch {
		case frame.usagePage == UsagePageGenericDesktop && frame.usage == UsageKeyboard:
			frame.kind = kindKeyboard
		case frame.usagePage == UsagePageGenericDesktop &&
			(frame.usage == UsagePointer || frame.usage == UsageMouse):
			frame.kind = kindMouseOrPointer
		case frame.usagePage == UsagePageDigitizers:
			frame.kind = kindTablet
		}
	}
	return frame
}

// recordAxes notes X/Y axes declared by a data+variable Input item on the
// nearest enclosing Application frame, but only when that frame is a
// Mouse/Pointer collection. Non-application frames are transparent; the walk
// always stops at the first application frame either way.
func recordAxes(state *itemState, frames []collectionFrame, flags uint32) {
	isData := flags&0x01 == 0
	isVar := flags&0x02 != 0
	isRelative := flags&0x04 != 0
	if !isData || !isVar {
		return
	}
	hasX := state.global.usagePage == UsagePageGenericDesktop && state.local.includes(UsageX)
	hasY := state.global.usagePage == UsagePageGenericDesktop && state.local.includes(UsageY)
	if !hasX && !hasY {
		return
	}
	for i := len(frames) - 1; i >= 0; i-- {
		frame := &frames[i]
		if !frame.application {
			continue
		}
		if frame.kind != kindMouseOrPointer {
			return
		}
		if isRelative {
			frame.sawXRel = frame.sawXRel || hasX
			frame.sawYRel = frame.sawYRel || hasY
		} else {
			frame.sawXAbs = frame.sawXAbs || hasX
			frame.sawYAbs = frame.sawYAbs || hasY
		}
		return
	}
}

func (s *ClassificationSummary) finalize(frame collectionFrame) {
	if !frame.application {
		return
	}
	switch frame.kind {
	case kindKeyboard:
		s.KeyboardCollections++
	case kindTablet:
		s.TabletCollections++
	case kindMouseOrPointer:
		hasRelXY := frame.sawXRel && frame.sawYRel
		absOnly := frame.sawXAbs && frame.sawYAbs && !(frame.sawXRel || frame.sawYRel)
		switch {
		case hasRelXY:
			s.MouseXYRelative++
		case absOnly:
			s.MouseXYAbsolute++
			s.TabletCollections++
		default:
			s.MouseCollections++
		}
	}
}
