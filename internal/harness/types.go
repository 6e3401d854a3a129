package harness

// Result is the outcome of a scenario run.
type Result struct {
	// Pass indicates overall success.
	Pass bool `json:"pass"`

	// Output is the printed query. Empty when the scenario expects an error.
	Output string `json:"output,omitempty"`

	// Hash is the content hash of the decoded query.
	Hash string `json:"hash,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
