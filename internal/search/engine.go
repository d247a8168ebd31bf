package search

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/prasmadji/maganghub-seeker/internal/maganghub"
)

// Engine runs queries against an already-loaded set of vacancies. It holds
// no state across searches: every call is a pure function of its inputs.
type Engine struct {
	logger *zap.Logger
}

// Result pairs a matched vacancy with its freshly computed acceptance
// fields. The vacancy itself is the shared read-only input record.
type Result struct {
	Vacancy  *maganghub.Vacancy
	Estimate Estimate
}

// step is one named per-record predicate of the pipeline. Steps are
// evaluated in order and short-circuit on the first failure.
type step struct {
	name    string
	matches func(*maganghub.Vacancy) bool
}

func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Search evaluates the query against every record in input order. Structured
// filters AND together (OR within each filter's tokens); a deep search ANDs
// with them when both are present. Matches keep their input order unless the
// query requests an acceptance sort.
func (e *Engine) Search(vacancies *maganghub.Vacancies, query *Query) ([]*Result, error) {
	if query == nil {
		return nil, fmt.Errorf("query is required")
	}

	steps := buildSteps(query)
	dropped := make([]int, len(steps))

	results := make([]*Result, 0)
	processed := 0
	for _, vacancy := range vacancies.Items {
		if vacancy == nil {
			e.logger.Warn("skipping empty record")
			continue
		}
		processed++

		passed := true
		for i, s := range steps {
			if !s.matches(vacancy) {
				dropped[i]++
				passed = false
				break
			}
		}
		if !passed {
			continue
		}

		estimate := EstimateAcceptance(vacancy)
		if !estimate.AcceptanceProbDefined {
			e.logger.Debug("acceptance fields undefined",
				zap.String("vacancy_id", vacancy.ID()),
				zap.String("posisi", vacancy.Posisi),
			)
		}

		// Undefined acceptance does not exclude a record; it only loses
		// its place in acceptance-based ordering.
		results = append(results, &Result{Vacancy: vacancy, Estimate: estimate})

		if query.Limit > 0 && len(results) >= query.Limit {
			break
		}
	}

	reaching := processed
	for i, s := range steps {
		e.logger.Info("filter step",
			zap.String("name", s.name),
			zap.Int("initial", reaching),
			zap.Int("dropped", dropped[i]),
			zap.Int("left", reaching-dropped[i]),
		)
		reaching -= dropped[i]
	}

	sortResults(results, query.Sort)

	return results, nil
}

// buildSteps assembles the active pipeline for a query. Inactive filters
// (empty token sets, gov mode both) are left out entirely.
func buildSteps(query *Query) []step {
	steps := make([]step, 0, 6)

	if query.GovMode != GovBoth {
		wantGovernment := query.GovMode == GovGovernmentOnly
		steps = append(steps, step{
			name: "government",
			matches: func(v *maganghub.Vacancy) bool {
				return IsGovernment(v) == wantGovernment
			},
		})
	}

	if !query.KabupatenTokens.Empty() {
		steps = append(steps, step{
			name: "nama_kabupaten",
			matches: func(v *maganghub.Vacancy) bool {
				return matchesKabupaten(v, query.KabupatenTokens)
			},
		})
	}

	if !query.ProgramStudiTokens.Empty() {
		steps = append(steps, step{
			name: "program_studi",
			matches: func(v *maganghub.Vacancy) bool {
				return matchesProgramStudi(v, query.ProgramStudiTokens)
			},
		})
	}

	if !query.PosisiTokens.Empty() {
		steps = append(steps, step{
			name: "posisi",
			matches: func(v *maganghub.Vacancy) bool {
				return FieldMatches(v.Posisi, query.PosisiTokens)
			},
		})
	}

	if !query.DeskripsiTokens.Empty() {
		steps = append(steps, step{
			name: "deskripsi_posisi",
			matches: func(v *maganghub.Vacancy) bool {
				return FieldMatches(v.DeskripsiPosisi, query.DeskripsiTokens)
			},
		})
	}

	if query.HasDeepSearch() {
		steps = append(steps, step{
			name: "deep",
			matches: func(v *maganghub.Vacancy) bool {
				return matchesDeep(v, query.DeepTokens, query.DeepMode)
			},
		})
	}

	return steps
}

// sortResults orders results by acceptance probability. The sort is stable:
// ties keep their input order, and records with an undefined probability go
// after all defined ones regardless of direction.
func sortResults(results []*Result, direction SortDirection) {
	if direction == SortNone {
		return
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Estimate, results[j].Estimate
		if a.AcceptanceProbDefined != b.AcceptanceProbDefined {
			return a.AcceptanceProbDefined
		}
		if !a.AcceptanceProbDefined {
			return false
		}
		if direction == SortAsc {
			return a.AcceptanceProb < b.AcceptanceProb
		}
		return a.AcceptanceProb > b.AcceptanceProb
	})
}
