package reconcile

// Outcome is what happened to one slot during a pass.
type Outcome string

// Slot outcomes.
const (
	// OutcomeMatched means a remote record supplied the value.
	OutcomeMatched Outcome = "matched"

	// OutcomeNoConnection means the connector exists remotely but no record
	// passed the connection policy; the sentinel was written.
	OutcomeNoConnection Outcome = "no_connection"

	// OutcomeUnmatched means no remote record matched; the value is unchanged.
	OutcomeUnmatched Outcome = "unmatched"

	// OutcomeSkipped means the slot was not visited (empty group or abort).
	OutcomeSkipped Outcome = "skipped"
)

// SlotResult is the outcome for one slot.
type SlotResult struct {
	Key       string  `json:"key"`
	Connector string  `json:"connector,omitempty"`
	Outcome   Outcome `json:"outcome"`
	Value     string  `json:"value"`
}

// Report lists slot outcomes in document order.
type Report struct {
	Results []SlotResult `json:"results"`

	// Aborted is set when an empty target group stopped the pass early.
	Aborted bool `json:"aborted,omitempty"`
}

// Count returns how many slots ended with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}
