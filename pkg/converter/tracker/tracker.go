// Package tracker accumulates the outcome of every enum and file handled
// during one conversion run.
//
// A Tracker is created per run and passed to the parser, the converter and
// the writer. It is never shared between runs, so repeated or concurrent runs
// in one process cannot contaminate each other's results.
package tracker

import "sync"

// GenerationReport is the five-category record of a run's outcomes.
// Each list keeps insertion order.
type GenerationReport struct {
	GeneratedFiles        []string `json:"generatedFiles"`
	GenerationFailedFiles []string `json:"generationFailedFiles"`
	InvalidEnums          []string `json:"invalidEnums"`
	UnsupportedEnums      []string `json:"unsupportedEnums"`
	ExperimentalEnums     []string `json:"experimentalEnums"`
}

// IsEmpty reports whether no outcome of any category was recorded.
func (r GenerationReport) IsEmpty() bool {
	return r.Total() == 0
}

// Total returns the number of recorded entries across all categories.
func (r GenerationReport) Total() int {
	return len(r.GeneratedFiles) + len(r.GenerationFailedFiles) + len(r.InvalidEnums) +
		len(r.UnsupportedEnums) + len(r.ExperimentalEnums)
}

// Tracker is an append-only, concurrency-safe accumulator of outcomes.
// Entries are never removed or reclassified.
type Tracker struct {
	mu     sync.Mutex
	report GenerationReport
}

// New creates an empty Tracker for a single run.
func New() *Tracker {
	return &Tracker{
		report: GenerationReport{
			GeneratedFiles:        []string{},
			GenerationFailedFiles: []string{},
			InvalidEnums:          []string{},
			UnsupportedEnums:      []string{},
			ExperimentalEnums:     []string{},
		},
	}
}

// AddGeneratedFile records a file that was written successfully.
func (t *Tracker) AddGeneratedFile(name string) {
	t.append(&t.report.GeneratedFiles, name)
}

// AddGenerationFailedFile records a file whose write failed.
func (t *Tracker) AddGenerationFailedFile(name string) {
	t.append(&t.report.GenerationFailedFiles, name)
}

// AddInvalidEnum records an enum whose body could not be parsed.
func (t *Tracker) AddInvalidEnum(name string) {
	t.append(&t.report.InvalidEnums, name)
}

// AddUnsupportedEnum records an enum whose shape the target cannot express
// while experimental generation is off.
func (t *Tracker) AddUnsupportedEnum(name string) {
	t.append(&t.report.UnsupportedEnums, name)
}

// AddExperimentalEnum records an enum emitted through the experimental fallback.
func (t *Tracker) AddExperimentalEnum(name string) {
	t.append(&t.report.ExperimentalEnums, name)
}

func (t *Tracker) append(list *[]string, name string) {
	t.mu.Lock()
	*list = append(*list, name)
	t.mu.Unlock()
}

// Report returns a snapshot of the recorded outcomes. The returned slices are
// copies; later appends do not show through.
func (t *Tracker) Report() GenerationReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return GenerationReport{
		GeneratedFiles:        clone(t.report.GeneratedFiles),
		GenerationFailedFiles: clone(t.report.GenerationFailedFiles),
		InvalidEnums:          clone(t.report.InvalidEnums),
		UnsupportedEnums:      clone(t.report.UnsupportedEnums),
		ExperimentalEnums:     clone(t.report.ExperimentalEnums),
	}
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
