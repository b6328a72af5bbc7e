package entity

import "time"

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r TimeRange) Valid() bool {
	return r.End.After(r.Start)
}

// Overlaps reports whether r and o share any instant. Ranges that only
// touch at an endpoint do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}
