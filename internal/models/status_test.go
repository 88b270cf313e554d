package models

import "testing"

func TestParseTableKind(t *testing.T) {
	tests := []struct {
		in      string
		want    TableKind
		ok      bool
		isQueue bool
	}{
		{"pending-restaurants", TablePendingRestaurants, true, true},
		{"pending-videos", TablePendingVideos, true, true},
		{"submitted-restaurants", TableSubmittedRestaurants, true, true},
		{"submitted-videos", TableSubmittedVideos, true, true},
		// Count-only kind: parseable (it has a readable total) but not a queue.
		{"active-restaurants", TableActiveRestaurants, true, false},
		{"nonsense", "", false, false},
		{"", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTableKind(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseTableKind(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
			if ok && got.IsQueue() != tt.isQueue {
				t.Errorf("%q.IsQueue() = %v, want %v", got, got.IsQueue(), tt.isQueue)
			}
		})
	}
}
