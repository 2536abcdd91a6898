package progress

import "time"

// SectionCompletion marks one section finished by one user. Completions
// are idempotent: re-completing a section keeps the original timestamp.
type SectionCompletion struct {
	ID          string
	AccountID   string
	SectionID   string
	CompletedAt time.Time
}

// SummaryCounts is the precomputed per-user progress aggregate consumed
// by the monthly summary. It is produced by a single store call and
// opaque to the aggregation code.
type SummaryCounts struct {
	CompletedSections int
	TotalSections     int
	PassedQuizzes     int
	TotalQuizzes      int
}
