// Package resolve derives canonical, stable entity identifiers. Companies use
// their registry number as-is; persons get a deterministic composite of the
// normalized name and birth date, which is the sole deduplication mechanism:
// two facts with the same normalized tuple resolve to the same entity no
// matter which record produced them. Near-duplicate spellings are
// deliberately not merged — there is no fuzzy matching, and adding it
// silently would change identity semantics.
package resolve

import (
	"strings"

	"github.com/prepify/orgraph/internal/model"
)

const personPrefix = "RC"

// PersonID derives the canonical id for a natural person. Name parts are
// trimmed, internal whitespace collapsed, and case-folded, so "NOVAK"/"Novak"
// and stray double spaces produce the same id.
func PersonID(p model.Person) string {
	parts := []string{
		personPrefix,
		normalizeName(p.Surname),
		normalizeName(p.GivenName),
		strings.ReplaceAll(strings.TrimSpace(p.BirthDate), " ", "_"),
	}
	return strings.Join(parts, "_")
}

// CompanyID is the registry number as given, with surrounding whitespace
// dropped.
func CompanyID(registryNumber string) string {
	return strings.TrimSpace(registryNumber)
}

// IsPersonID reports whether an entity id was derived for a natural person.
func IsPersonID(id string) bool {
	return strings.HasPrefix(id, personPrefix+"_")
}

func normalizeName(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), "_"))
}
