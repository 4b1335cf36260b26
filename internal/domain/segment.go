package domain

import "fmt"

// Segment names a date-based audience rule.
type Segment string

const (
	SegmentInHouse        Segment = "in_house"
	SegmentFutureArrivals Segment = "future_arrivals"
	SegmentDeparted       Segment = "departed"
)

// ParseSegment validates a segment name. An empty name selects in_house.
func ParseSegment(s string) (Segment, error) {
	switch Segment(s) {
	case "":
		return SegmentInHouse, nil
	case SegmentInHouse, SegmentFutureArrivals, SegmentDeparted:
		return Segment(s), nil
	default:
		return "", fmt.Errorf("unknown segment %q", s)
	}
}

// Matches applies the segment's date rule to a stay. check_out is exclusive
// for in_house.
func (s Segment) Matches(checkIn, checkOut, asOf Date) bool {
	switch s {
	case SegmentInHouse:
		return !checkIn.After(asOf) && asOf.Before(checkOut)
	case SegmentFutureArrivals:
		return !checkIn.Before(asOf)
	case SegmentDeparted:
		return checkOut.Before(asOf)
	default:
		return false
	}
}

// Audience is a resolved, sorted, de-duplicated email list for a segment.
type Audience struct {
	Segment Segment  `json:"segment"`
	AsOf    Date     `json:"as_of"`
	Count   int      `json:"count"`
	Emails  []string `json:"emails"`
}
