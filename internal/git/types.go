package git

import "time"

// Commit is a single entry of the version-control history.
type Commit struct {
	Hash      string
	Subject   string
	Body      string
	Timestamp time.Time
}

// History is the ordered list of commits between a reference (exclusive) and
// HEAD (inclusive), newest first. Total is the size of the whole range, even
// when Commits was truncated by a limit.
type History struct {
	Reference string
	Head      string
	Commits   []Commit
	Total     int
}

// IsEmpty reports whether no commits exist in the range.
func (h History) IsEmpty() bool {
	return h.Total == 0
}
