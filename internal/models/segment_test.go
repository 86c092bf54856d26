package models

import "testing"

func TestSegmentValues(t *testing.T) {
	tests := []struct {
		segment Segment
		want    int64
	}{
		{SegmentLost, 2500},
		{SegmentPaidRisk, 1800},
		{SegmentPaidDue, 1500},
		{SegmentThirdFree, 300},
		{SegmentSecondFree, 300},
		{SegmentFirstFree, 300},
		{Segment("VIP"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.segment), func(t *testing.T) {
			if got := tt.segment.Value(); got != tt.want {
				t.Errorf("Value() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSegmentPriority_DescendingValue(t *testing.T) {
	priority := SegmentPriority()
	if len(priority) != 6 {
		t.Fatalf("len(SegmentPriority()) = %d, want 6", len(priority))
	}
	for i := 1; i < len(priority); i++ {
		if priority[i].Value() > priority[i-1].Value() {
			t.Errorf("%s (%d) ranked below %s (%d)",
				priority[i-1], priority[i-1].Value(),
				priority[i], priority[i].Value())
		}
	}
}

func TestParseSegment(t *testing.T) {
	tests := []struct {
		key    string
		wantOK bool
	}{
		{"LOST", true},
		{"3RD_FREE", true},
		{"1ST_FREE", true},
		{"lost", false},
		{"", false},
		{"4TH_FREE", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s, ok := ParseSegment(tt.key)
			if ok != tt.wantOK {
				t.Errorf("ParseSegment(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if ok && string(s) != tt.key {
				t.Errorf("ParseSegment(%q) = %q", tt.key, s)
			}
		})
	}
}

func TestSegmentTable(t *testing.T) {
	table := SegmentTable()
	if len(table) != len(segmentPriority) {
		t.Fatalf("len(SegmentTable()) = %d, want %d", len(table), len(segmentPriority))
	}
	if table[0].Key != SegmentLost || table[0].Priority != 1 || table[0].Value != 2500 {
		t.Errorf("first row = %+v", table[0])
	}
	if table[5].Key != SegmentFirstFree || table[5].Priority != 6 {
		t.Errorf("last row = %+v", table[5])
	}
}

func TestSegmentPriority_ReturnsCopy(t *testing.T) {
	got := SegmentPriority()
	got[0], got[5] = got[5], got[0]

	again := SegmentPriority()
	if again[0] != SegmentLost || again[5] != SegmentFirstFree {
		t.Errorf("SegmentPriority() = %v, caller reordering leaked into the table", again)
	}
}
