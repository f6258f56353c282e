package review

import "testing"

type paintRecorder struct {
	painted []int
}

func (p *paintRecorder) Paint(filled int) {
	p.painted = append(p.painted, filled)
}

func TestStarRatingHoverPreviewsAndLeaveReverts(t *testing.T) {
	t.Parallel()

	view := &paintRecorder{}
	stars := NewStarRating(view)

	stars.Hover(3)
	stars.Leave()

	if len(view.painted) != 2 || view.painted[0] != 3 || view.painted[1] != 0 {
		t.Fatalf("expected preview then revert to 0, got %v", view.painted)
	}
	if stars.Committed() != 0 {
		t.Fatalf("hover must not commit, got %d", stars.Committed())
	}
}

func TestStarRatingCommitSurvivesLeave(t *testing.T) {
	t.Parallel()

	view := &paintRecorder{}
	stars := NewStarRating(view)

	stars.Hover(5)
	stars.Commit(4)
	stars.Hover(2)
	stars.Leave()

	if stars.Committed() != 4 {
		t.Fatalf("expected committed 4, got %d", stars.Committed())
	}
	last := view.painted[len(view.painted)-1]
	if last != 4 {
		t.Fatalf("expected display reverted to committed value, got %d", last)
	}
}

func TestStarRatingClampsValues(t *testing.T) {
	t.Parallel()

	view := &paintRecorder{}
	stars := NewStarRating(view)

	stars.Commit(9)
	if stars.Committed() != 5 {
		t.Fatalf("expected clamp to 5, got %d", stars.Committed())
	}

	stars.Commit(-2)
	if stars.Committed() != 0 {
		t.Fatalf("expected clamp to 0, got %d", stars.Committed())
	}
}

func TestCounterClassification(t *testing.T) {
	t.Parallel()

	if got := ClassifyCounter(10, 500); got != CounterOK {
		t.Fatalf("expected ok, got %s", got)
	}
	if got := ClassifyCounter(451, 500); got != CounterNear {
		t.Fatalf("expected near above 90%%, got %s", got)
	}
	if got := ClassifyCounter(501, 500); got != CounterOver {
		t.Fatalf("expected over, got %s", got)
	}
	if got := CounterLabel(42, 500); got != "42/500" {
		t.Fatalf("unexpected label %q", got)
	}
}
