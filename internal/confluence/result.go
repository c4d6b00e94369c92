package confluence

import "fmt"

// ResultKind tags the outcome of a create.
type ResultKind int

const (
	// KindCreated means a new page was created; ID is the new page id.
	KindCreated ResultKind = iota
	// KindSkipped means a page with the title already existed; ID is its id.
	KindSkipped
	// KindSimulated means dry-run mode; ID is synthetic.
	KindSimulated
	// KindFailed means the page does not exist; Err says why.
	KindFailed
)

func (k ResultKind) String() string {
	switch k {
	case KindCreated:
		return "created"
	case KindSkipped:
		return "skipped"
	case KindSimulated:
		return "simulated"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PageResult is the outcome of CreatePage.
type PageResult struct {
	Kind  ResultKind
	Title string
	ID    string
	Err   error
}

// Usable reports whether ID can serve as a parent for further pages.
// Simulated ids are usable so dry runs traverse the full tree.
func (r PageResult) Usable() bool {
	return r.Kind != KindFailed && r.ID != ""
}

func (r PageResult) String() string {
	if r.Kind == KindFailed {
		return fmt.Sprintf("%s %q: %v", r.Kind, r.Title, r.Err)
	}
	return fmt.Sprintf("%s %q (id=%s)", r.Kind, r.Title, r.ID)
}

// DeleteKind tags the outcome of a delete.
type DeleteKind int

const (
	DeleteDeleted DeleteKind = iota
	DeleteNotFound
	DeleteSimulated
	DeleteFailed
)

func (k DeleteKind) String() string {
	switch k {
	case DeleteDeleted:
		return "deleted"
	case DeleteNotFound:
		return "not_found"
	case DeleteSimulated:
		return "simulated"
	case DeleteFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DeleteResult is the outcome of DeletePage.
type DeleteResult struct {
	Kind  DeleteKind
	Title string
	ID    string
	Err   error
}

// OK reports whether the page is gone (or would be, in a dry run).
func (r DeleteResult) OK() bool {
	return r.Kind == DeleteDeleted || r.Kind == DeleteSimulated
}

// Stats aggregates outcomes for one run.
type Stats struct {
	Created  int `json:"created"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Deleted  int `json:"deleted"`
	NotFound int `json:"not_found"`
}

// Record adds a create outcome. Simulated creates count as created so a dry
// run reports what a real run would.
func (s *Stats) Record(r PageResult) {
	switch r.Kind {
	case KindCreated, KindSimulated:
		s.Created++
	case KindSkipped:
		s.Skipped++
	case KindFailed:
		s.Failed++
	}
}

// RecordDelete adds a delete outcome. A simulated delete counts nothing.
func (s *Stats) RecordDelete(r DeleteResult) {
	switch r.Kind {
	case DeleteDeleted:
		s.Deleted++
	case DeleteNotFound:
		s.NotFound++
	case DeleteFailed:
		s.Failed++
	}
}

// RecordFailure counts a failure that never reached the API, such as an
// unreadable file.
func (s *Stats) RecordFailure() {
	s.Failed++
}

// Merge adds other into s.
func (s *Stats) Merge(other Stats) {
	s.Created += other.Created
	s.Skipped += other.Skipped
	s.Failed += other.Failed
	s.Deleted += other.Deleted
	s.NotFound += other.NotFound
}
