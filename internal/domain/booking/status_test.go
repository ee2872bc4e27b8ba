package booking

import "testing"

func TestStatusTransitionTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusPending, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCompleted, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("CanTransitionTo(%s -> %s): got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	t.Parallel()

	if StatusPending.IsTerminal() {
		t.Error("pending should not be terminal")
	}
	if StatusConfirmed.IsTerminal() {
		t.Error("confirmed should not be terminal")
	}
	if !StatusCompleted.IsTerminal() {
		t.Error("completed should be terminal")
	}
	if !StatusCancelled.IsTerminal() {
		t.Error("cancelled should be terminal")
	}
	// Unknown statuses are treated as terminal dead ends.
	if !Status("shipped").IsTerminal() {
		t.Error("unknown status should be terminal")
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"pending", "confirmed", "completed", "cancelled"} {
		got, err := ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q): unexpected error %v", s, err)
		}
		if got.String() != s {
			t.Errorf("ParseStatus(%q): got %q", s, got)
		}
	}

	for _, s := range []string{"", "PENDING", "shipped", "refunded"} {
		if _, err := ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q): expected error", s)
		}
	}
}
