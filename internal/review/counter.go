package review

import "fmt"

// CounterLevel classifies how close a comment is to its length limit.
type CounterLevel string

const (
	CounterOK   CounterLevel = "ok"
	CounterNear CounterLevel = "near"
	CounterOver CounterLevel = "over"
)

// CounterLabel renders the "12/500" style progress text for a comment field.
func CounterLabel(length, limit int) string {
	return fmt.Sprintf("%d/%d", length, limit)
}

// ClassifyCounter reports the warning level for the current comment length.
// The near level kicks in above 90% of the limit.
func ClassifyCounter(length, limit int) CounterLevel {
	switch {
	case length > limit:
		return CounterOver
	case length*10 > limit*9:
		return CounterNear
	default:
		return CounterOK
	}
}
