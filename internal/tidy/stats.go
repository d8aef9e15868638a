package tidy

// RunStats tracks aggregate counters and byte totals across one run.
// Stats are transient: they exist for the summary and are not retained.
type RunStats struct {
	Processed int
	Skipped   int
	Failed    int

	// Byte totals are only populated by the archive optimizer.
	TotalInputBytes  int64
	TotalOutputBytes int64
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}
