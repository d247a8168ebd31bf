package search

import (
	"strings"

	"github.com/prasmadji/maganghub-seeker/internal/maganghub"
)

// FieldMatches reports whether any query token is a substring of the folded
// field text. An empty token set means the filter is not applied and always
// passes, so callers can supply every filter and only the meaningful ones
// constrain the result.
func FieldMatches(text string, tokens TokenSet) bool {
	if tokens.Empty() {
		return true
	}

	folded := Fold(text)
	for token := range tokens {
		if strings.Contains(folded, token) {
			return true
		}
	}
	return false
}

// matchesKabupaten applies the location rule: a token matches against the
// prefix-stripped district name or against the province name. District or
// province, OR semantics.
func matchesKabupaten(vacancy *maganghub.Vacancy, tokens TokenSet) bool {
	if tokens.Empty() {
		return true
	}

	district := CleanKabupaten(vacancy.Perusahaan.NamaKabupaten)
	province := Fold(vacancy.Perusahaan.NamaProvinsi)

	for token := range tokens {
		if strings.Contains(district, token) || strings.Contains(province, token) {
			return true
		}
	}
	return false
}

// matchesProgramStudi flattens all program-of-study titles on the record and
// matches each token against each title.
func matchesProgramStudi(vacancy *maganghub.Vacancy, tokens TokenSet) bool {
	if tokens.Empty() {
		return true
	}

	for _, title := range vacancy.ProgramStudiTitles() {
		if FieldMatches(title, tokens) {
			return true
		}
	}
	return false
}

// deepSearchText joins the deep-searchable fields of a record into one folded
// blob: position title and description, company name, program-of-study
// titles, and education levels. Tokens never contain whitespace, so a match
// cannot span the newline joints.
func deepSearchText(vacancy *maganghub.Vacancy) string {
	parts := make([]string, 0, 8)
	if vacancy.Posisi != "" {
		parts = append(parts, vacancy.Posisi)
	}
	if vacancy.DeskripsiPosisi != "" {
		parts = append(parts, vacancy.DeskripsiPosisi)
	}
	if vacancy.Perusahaan.NamaPerusahaan != "" {
		parts = append(parts, vacancy.Perusahaan.NamaPerusahaan)
	}
	parts = append(parts, vacancy.ProgramStudiTitles()...)
	parts = append(parts, vacancy.JenjangValues()...)

	return Fold(strings.Join(parts, "\n"))
}

// matchesDeep evaluates the free-text deep search. In OR mode any token
// found anywhere in the searchable text matches; in AND mode every token
// must be found, each independently satisfiable by any field.
func matchesDeep(vacancy *maganghub.Vacancy, tokens TokenSet, mode DeepMode) bool {
	if tokens.Empty() {
		return true
	}

	text := deepSearchText(vacancy)
	for token := range tokens {
		found := strings.Contains(text, token)
		if mode == DeepAnd && !found {
			return false
		}
		if mode == DeepOr && found {
			return true
		}
	}

	return mode == DeepAnd
}
