package models

import "testing"

func TestTaskStatus_Label(t *testing.T) {
	cases := []struct {
		status TaskStatus
		want   string
		valid  bool
	}{
		{StatusNotStarted, "Not started", true},
		{StatusInProgress, "On going", true},
		{StatusDone, "Done", true},
		{TaskStatus("9"), "9", false},
		{TaskStatus(""), "", false},
	}

	for _, tc := range cases {
		if got := tc.status.Label(); got != tc.want {
			t.Errorf("TaskStatus(%q).Label() = %q; want %q", tc.status, got, tc.want)
		}
		if got := tc.status.Valid(); got != tc.valid {
			t.Errorf("TaskStatus(%q).Valid() = %v; want %v", tc.status, got, tc.valid)
		}
	}
}
