package models

// Segment is a customer-recovery revenue tier.
type Segment string

// Canonical segments. Keys match the backend's segment breakdown.
const (
	SegmentLost       Segment = "LOST"
	SegmentPaidRisk   Segment = "PAID_RISK"
	SegmentPaidDue    Segment = "PAID_DUE"
	SegmentThirdFree  Segment = "3RD_FREE"
	SegmentSecondFree Segment = "2ND_FREE"
	SegmentFirstFree  Segment = "1ST_FREE"
)

// SegmentTableVersion identifies the value table below. Bump it whenever a
// value or the priority order changes so clients can detect drift.
const SegmentTableVersion = "2024-1"

var segmentPriority = []Segment{
	SegmentLost,
	SegmentPaidRisk,
	SegmentPaidDue,
	SegmentThirdFree,
	SegmentSecondFree,
	SegmentFirstFree,
}

// SegmentPriority returns the segments highest value first. Ties keep this
// order. Callers get a copy.
func SegmentPriority() []Segment {
	out := make([]Segment, len(segmentPriority))
	copy(out, segmentPriority)
	return out
}

var segmentValues = map[Segment]int64{
	SegmentLost:       2500,
	SegmentPaidRisk:   1800,
	SegmentPaidDue:    1500,
	SegmentThirdFree:  300,
	SegmentSecondFree: 300,
	SegmentFirstFree:  300,
}

// Value returns the estimated revenue of recovering one customer in the
// segment. Unknown segments are worth nothing.
func (s Segment) Value() int64 {
	return segmentValues[s]
}

// Valid reports whether s is one of the canonical segments.
func (s Segment) Valid() bool {
	_, ok := segmentValues[s]
	return ok
}

// ParseSegment returns the canonical segment for key.
func ParseSegment(key string) (Segment, bool) {
	s := Segment(key)
	return s, s.Valid()
}

// SegmentInfo describes one row of the segment table.
type SegmentInfo struct {
	Key      Segment `json:"key"`
	Value    int64   `json:"value"`
	Priority int     `json:"priority"`
}

// SegmentTable returns the table in priority order, priority starting at 1.
func SegmentTable() []SegmentInfo {
	table := make([]SegmentInfo, len(segmentPriority))
	for i, s := range segmentPriority {
		table[i] = SegmentInfo{Key: s, Value: s.Value(), Priority: i + 1}
	}
	return table
}
