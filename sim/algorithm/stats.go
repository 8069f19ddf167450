package algorithm

import "strconv"

// stats counts what an algorithm did over a run.
type stats struct {
	restored     int
	partial      int
	protected    int
	reverted     int
	unrestorable int
}

func (s *stats) report() map[string]string {
	return map[string]string{
		"restored":     strconv.Itoa(s.restored),
		"partial":      strconv.Itoa(s.partial),
		"protected":    strconv.Itoa(s.protected),
		"reverted":     strconv.Itoa(s.reverted),
		"unrestorable": strconv.Itoa(s.unrestorable),
	}
}
