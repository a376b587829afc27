package rules

import (
	"path/filepath"
	"slices"
	"strings"
)

// Category decides whether a source document belongs to a restricted domain
// category. Restricted documents get the policyId injection and lose
// cross-schema reference properties during derivation.
type Category interface {
	// Restricted classifies one whole document by its source identifier
	// (typically the file path). The classification is per-document, not
	// per-schema.
	Restricted(source string) bool
}

// InsuranceCategory classifies the OPIN insurance documents: any file whose
// base name starts with "insurance", plus two legacy files that predate that
// naming convention.
type InsuranceCategory struct{}

var insuranceSpecialFiles = []string{"person.yaml", "resources_v2.yaml"}

func (InsuranceCategory) Restricted(source string) bool {
	base := strings.ToLower(filepath.Base(source))

	if strings.HasPrefix(base, "insurance") {
		return true
	}

	return slices.Contains(insuranceSpecialFiles, base)
}
