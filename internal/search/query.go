package search

import "fmt"

// GovMode selects which government classification a query accepts. The wire
// values match the CLI contract: 0 = non-government only, 1 = government
// only, 2 = both.
type GovMode int

const (
	GovNonGovernmentOnly GovMode = iota
	GovGovernmentOnly
	GovBoth
)

// DeepMode selects how deep-search tokens combine across the searchable
// fields.
type DeepMode int

const (
	DeepOr DeepMode = iota
	DeepAnd
)

// SortDirection is applied to the acceptance probability of the results.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

// Params is the caller-facing query specification: raw filter strings as
// collected from flags or config, tokenized and validated by NewQuery.
type Params struct {
	NamaKabupaten   string
	ProgramStudi    string
	Posisi          string
	DeskripsiPosisi string
	// Gov is "0", "1" or "2"; empty means both.
	Gov  string
	Deep string
	// DeepMode is "and" or "or"; empty means or.
	DeepMode string
	// Accept is "asc" or "desc"; empty means unsorted.
	Accept string
	// Limit caps the number of matches collected; zero means unlimited.
	Limit int
}

// Query is an immutable structured filter specification consumed read-only
// by the engine. Construct it with NewQuery, which fails fast on
// unrecognized mode values.
type Query struct {
	KabupatenTokens    TokenSet
	ProgramStudiTokens TokenSet
	PosisiTokens       TokenSet
	DeskripsiTokens    TokenSet
	GovMode            GovMode
	DeepTokens         TokenSet
	DeepMode           DeepMode
	Sort               SortDirection
	Limit              int
}

// NewQuery tokenizes the parameters and validates the mode values. An
// unrecognized gov/deep/sort mode is a caller contract violation and fails
// here, before any record is visited.
func NewQuery(p Params) (*Query, error) {
	govMode, err := ParseGovMode(p.Gov)
	if err != nil {
		return nil, err
	}

	deepMode, err := ParseDeepMode(p.DeepMode)
	if err != nil {
		return nil, err
	}

	sortDirection, err := ParseSortDirection(p.Accept)
	if err != nil {
		return nil, err
	}

	limit := p.Limit
	if limit < 0 {
		limit = 0
	}

	return &Query{
		KabupatenTokens:    Tokenize(p.NamaKabupaten),
		ProgramStudiTokens: Tokenize(p.ProgramStudi),
		PosisiTokens:       Tokenize(p.Posisi),
		DeskripsiTokens:    Tokenize(p.DeskripsiPosisi),
		GovMode:            govMode,
		DeepTokens:         Tokenize(p.Deep),
		DeepMode:           deepMode,
		Sort:               sortDirection,
		Limit:              limit,
	}, nil
}

// HasStructuredFilters reports whether any per-field filter or a narrowed
// government mode is in effect.
func (q *Query) HasStructuredFilters() bool {
	return !q.KabupatenTokens.Empty() ||
		!q.ProgramStudiTokens.Empty() ||
		!q.PosisiTokens.Empty() ||
		!q.DeskripsiTokens.Empty() ||
		q.GovMode != GovBoth
}

// HasDeepSearch reports whether a free-text deep search is in effect.
func (q *Query) HasDeepSearch() bool {
	return !q.DeepTokens.Empty()
}

// ParseGovMode parses the CLI government mode value. Empty means both.
func ParseGovMode(value string) (GovMode, error) {
	switch value {
	case "", "2":
		return GovBoth, nil
	case "1":
		return GovGovernmentOnly, nil
	case "0":
		return GovNonGovernmentOnly, nil
	default:
		return GovBoth, fmt.Errorf("invalid government mode %q: must be 0, 1 or 2", value)
	}
}

// ParseDeepMode parses the CLI deep-search mode value. Empty means or.
func ParseDeepMode(value string) (DeepMode, error) {
	switch value {
	case "", "or":
		return DeepOr, nil
	case "and":
		return DeepAnd, nil
	default:
		return DeepOr, fmt.Errorf("invalid deep-search mode %q: must be and or or", value)
	}
}

// ParseSortDirection parses the CLI acceptance sort value. Empty means
// unsorted.
func ParseSortDirection(value string) (SortDirection, error) {
	switch value {
	case "":
		return SortNone, nil
	case "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	default:
		return SortNone, fmt.Errorf("invalid sort direction %q: must be asc or desc", value)
	}
}
