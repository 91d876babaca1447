package sync

// Result is the per-article outcome of one persistence run.
type Result struct {
	ID       string `json:"id"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Created  bool   `json:"created"`
	Updated  bool   `json:"updated"`
	Attempts int    `json:"attempts"`
}

// ItemError pairs a failed article with its last error, in a shape
// suitable for surfacing directly to a caller.
type ItemError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Summary aggregates the outcomes of one persistence run. A batch always
// produces a summary, even under partial failure: callers get a success
// tally plus per-item errors, never an all-or-nothing failure.
type Summary struct {
	Total   int         `json:"total"`
	Success int         `json:"success"`
	Failed  int         `json:"failed"`
	Details []Result    `json:"details"`
	Errors  []ItemError `json:"errors"`
}

// Summarize rolls individual results up into a summary.
func Summarize(results []Result) Summary {
	summary := Summary{
		Total:   len(results),
		Details: results,
		Errors:  []ItemError{},
	}

	for _, r := range results {
		if r.OK {
			summary.Success++
			continue
		}
		summary.Failed++
		summary.Errors = append(summary.Errors, ItemError{ID: r.ID, Error: r.Error})
	}

	return summary
}
