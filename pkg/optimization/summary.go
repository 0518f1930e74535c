// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single goal search.
type Summary struct {
	Scenario        string   `json:"scenario"`
	Field           string   `json:"field"`
	TargetYear      int      `json:"targetYear"`
	Original        float64  `json:"original"`
	Value           float64  `json:"value"`
	FreedomYear     *int     `json:"freedomYear"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	OriginalDisplay string   `json:"originalDisplay,omitempty"`
	ValueDisplay    string   `json:"valueDisplay,omitempty"`
}
