package notification

import (
	"cmp"
	"fmt"
	"slices"
)

const (
	StrategyLatest = "latest"
	StrategySeen   = "seen"
)

// Strategy decides which fetched records are new. Implementations are not safe
// for concurrent use; the Poller serializes calls.
type Strategy interface {
	// Prime records the baseline without reporting anything.
	Prime(records []Record)
	// Diff returns the records to notify about and advances the baseline.
	Diff(records []Record) []Record
	Reset()
}

func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "", StrategyLatest:
		return &LatestStrategy{}, nil
	case StrategySeen:
		return NewSeenSetStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown notification strategy %q", name)
	}
}

// LatestStrategy compares only the newest record with the last known sequence.
// Several bookings created within one interval surface as a single notification
// referencing the newest of them.
type LatestStrategy struct {
	lastKnown int64
}

func (s *LatestStrategy) Prime(records []Record) {
	if newest, ok := newestOf(records); ok {
		s.lastKnown = newest.Sequence
	}
}

func (s *LatestStrategy) Diff(records []Record) []Record {
	newest, ok := newestOf(records)
	if !ok || newest.Sequence <= s.lastKnown {
		return nil
	}

	s.lastKnown = newest.Sequence

	return []Record{newest}
}

func (s *LatestStrategy) Reset() {
	s.lastKnown = 0
}

// SeenSetStrategy reports every record of the fetched window it has not seen yet,
// oldest first. Records below the previous window are treated as seen, so a
// deletion shifting an old booking into the window does not raise an alert.
type SeenSetStrategy struct {
	seen  map[int64]struct{}
	floor int64
}

func NewSeenSetStrategy() *SeenSetStrategy {
	return &SeenSetStrategy{seen: make(map[int64]struct{})}
}

func (s *SeenSetStrategy) Prime(records []Record) {
	s.remember(records)
}

func (s *SeenSetStrategy) Diff(records []Record) []Record {
	var fresh []Record

	for _, record := range records {
		if record.Sequence < s.floor {
			continue
		}

		if _, ok := s.seen[record.Sequence]; !ok {
			fresh = append(fresh, record)
		}
	}

	s.remember(records)

	slices.SortFunc(fresh, bySequence)

	return fresh
}

func (s *SeenSetStrategy) Reset() {
	s.seen = make(map[int64]struct{})
	s.floor = 0
}

// remember replaces the seen set with the current window.
func (s *SeenSetStrategy) remember(records []Record) {
	if len(records) == 0 {
		return
	}

	s.seen = make(map[int64]struct{}, len(records))
	s.floor = records[0].Sequence

	for _, record := range records {
		s.seen[record.Sequence] = struct{}{}
		s.floor = min(s.floor, record.Sequence)
	}
}

func newestOf(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}

	return slices.MaxFunc(records, bySequence), true
}

func bySequence(a, b Record) int {
	return cmp.Compare(a.Sequence, b.Sequence)
}
