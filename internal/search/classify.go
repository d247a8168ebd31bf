package search

import (
	"strings"

	"github.com/prasmadji/maganghub-seeker/internal/maganghub"
)

// IsGovernment reports whether the posting belongs to a named government or
// sub-government agency. Absent agency objects classify as non-government,
// never as an error.
func IsGovernment(vacancy *maganghub.Vacancy) bool {
	return strings.TrimSpace(vacancy.GovernmentAgency.Name) != "" ||
		strings.TrimSpace(vacancy.SubGovernmentAgency.Name) != ""
}
