package verify

import "fmt"

// Kind classifies a verification finding.
type Kind string

const (
	KindMissingGroup   Kind = "missing group"
	KindMissingDataset Kind = "missing dataset"
	KindMissingRule    Kind = "missing rule"
	KindRuleMismatch   Kind = "rule mismatch"

	// Stale findings describe persisted state that derivation no longer
	// produces. They are reported but do not fail the audit.
	KindStaleDataset Kind = "stale dataset"
	KindStaleRule    Kind = "stale rule"
)

// Finding is one divergence between the persisted rules and what derivation
// produces today.
type Finding struct {
	Kind    Kind
	Group   string
	Dataset string
	Field   string
	Detail  string
}

// Informational reports whether the finding describes leftover state rather
// than a divergence.
func (f Finding) Informational() bool {
	return f.Kind == KindStaleDataset || f.Kind == KindStaleRule
}

func (f Finding) String() string {
	loc := f.Group
	if f.Dataset != "" {
		loc += "/" + f.Dataset
	}
	if f.Field != "" {
		loc += "." + f.Field
	}

	s := fmt.Sprintf("%s: %s", f.Kind, loc)
	if f.Detail != "" {
		s += " (" + f.Detail + ")"
	}
	return s
}

// Report collects the findings of one audit run.
type Report struct {
	Documents int
	Findings  []Finding
}

func (r *Report) Add(f Finding) {
	r.Findings = append(r.Findings, f)
}

// OK reports whether the audit found no divergence. Informational findings
// do not count against it.
func (r *Report) OK() bool {
	for _, f := range r.Findings {
		if !f.Informational() {
			return false
		}
	}
	return true
}

// Problems returns the findings that represent real divergence.
func (r *Report) Problems() []Finding {
	var problems []Finding
	for _, f := range r.Findings {
		if !f.Informational() {
			problems = append(problems, f)
		}
	}
	return problems
}
