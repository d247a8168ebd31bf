package search

import (
	"testing"

	"go.uber.org/zap"

	"github.com/prasmadji/maganghub-seeker/internal/maganghub"
)

func testVacancy(id, posisi string) *maganghub.Vacancy {
	return &maganghub.Vacancy{IDPosisi: id, Posisi: posisi}
}

func mustQuery(t *testing.T, params Params) *Query {
	t.Helper()
	query, err := NewQuery(params)
	if err != nil {
		t.Fatalf("new query: %v", err)
	}
	return query
}

func resultIDs(results []*Result) []string {
	ids := make([]string, 0, len(results))
	for _, result := range results {
		ids = append(ids, result.Vacancy.ID())
	}
	return ids
}

func TestSearchEmptyQueryIsIdentity(t *testing.T) {
	vacancies := &maganghub.Vacancies{Items: []*maganghub.Vacancy{
		testVacancy("1", "A"),
		testVacancy("2", "B"),
		testVacancy("3", "C"),
	}}

	results, err := New(zap.NewNop()).Search(vacancies, mustQuery(t, Params{}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	ids := resultIDs(results)
	if len(ids) != 3 || ids[0] != "1" || ids[1] != "2" || ids[2] != "3" {
		t.Fatalf("expected full input set in order, got %v", ids)
	}
}

func TestSearchCombinesStructuredFiltersWithAnd(t *testing.T) {
	both := testVacancy("both", "Marketing Staff")
	both.ProgramStudi = `[{"title": "Manajemen Pemasaran"}]`

	posisiOnly := testVacancy("posisi-only", "Marketing Intern")
	posisiOnly.ProgramStudi = `[{"title": "Teknik Sipil"}]`

	programOnly := testVacancy("program-only", "Finance Staff")
	programOnly.ProgramStudi = `[{"title": "Akuntansi"}]`

	vacancies := &maganghub.Vacancies{Items: []*maganghub.Vacancy{both, posisiOnly, programOnly}}

	results, err := New(zap.NewNop()).Search(vacancies, mustQuery(t, Params{
		Posisi:       "marketing",
		ProgramStudi: "manajemen akuntansi",
	}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	ids := resultIDs(results)
	if len(ids) != 1 || ids[0] != "both" {
		t.Fatalf("expected only the record satisfying both filters, got %v", ids)
	}
}

func TestSearchGovernmentMode(t *testing.T) {
	gov := testVacancy("gov", "Admin")
	gov.SubGovernmentAgency.Name = "Dinas Pendidikan"

	private := testVacancy("private", "Admin")

	vacancies := &maganghub.Vacancies{Items: []*maganghub.Vacancy{gov, private}}
	engine := New(zap.NewNop())

	results, err := engine.Search(vacancies, mustQuery(t, Params{Gov: "1"}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if ids := resultIDs(results); len(ids) != 1 || ids[0] != "gov" {
		t.Fatalf("gov mode 1: expected only government posting, got %v", ids)
	}

	results, err = engine.Search(vacancies, mustQuery(t, Params{Gov: "0"}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if ids := resultIDs(results); len(ids) != 1 || ids[0] != "private" {
		t.Fatalf("gov mode 0: expected only non-government posting, got %v", ids)
	}

	results, err = engine.Search(vacancies, mustQuery(t, Params{Gov: "2"}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("gov mode 2: expected both postings, got %v", resultIDs(results))
	}
}

func TestSearchDeepAndStructuredCombine(t *testing.T) {
	match := testVacancy("match", "Data Intern")
	match.DeskripsiPosisi = "Analisis data dengan Python"
	match.Perusahaan.NamaKabupaten = "KAB. SLEMAN"

	wrongLocation := testVacancy("wrong-location", "Data Intern")
	wrongLocation.DeskripsiPosisi = "Analisis data dengan Python"
	wrongLocation.Perusahaan.NamaKabupaten = "KOTA SURABAYA"

	noKeyword := testVacancy("no-keyword", "Data Intern")
	noKeyword.Perusahaan.NamaKabupaten = "KAB. SLEMAN"

	vacancies := &maganghub.Vacancies{Items: []*maganghub.Vacancy{match, wrongLocation, noKeyword}}

	results, err := New(zap.NewNop()).Search(vacancies, mustQuery(t, Params{
		NamaKabupaten: "sleman",
		Deep:          "python",
	}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	ids := resultIDs(results)
	if len(ids) != 1 || ids[0] != "match" {
		t.Fatalf("expected deep search to AND with structured filters, got %v", ids)
	}
}

func TestSearchSortPlacesUndefinedLast(t *testing.T) {
	mk := func(id string, quota, registered any) *maganghub.Vacancy {
		v := testVacancy(id, "P")
		v.JumlahKuota = quota
		v.JumlahTerdaftar = registered
		return v
	}

	vacancies := &maganghub.Vacancies{Items: []*maganghub.Vacancy{
		mk("half", float64(2), float64(3)),       // 0.5
		mk("broken", "banyak", float64(1)),       // undefined
		mk("full", float64(5), float64(0)),       // 1.0
		mk("tie-a", float64(1), float64(3)),      // 0.25
		mk("missing", nil, float64(1)),           // undefined
		mk("tie-b", float64(25), float64(99)),    // 0.25
		mk("longshot", float64(1), float64(999)), // 0.001
	}}

	results, err := New(zap.NewNop()).Search(vacancies, mustQuery(t, Params{Accept: "desc"}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	ids := resultIDs(results)
	want := []string{"full", "half", "tie-a", "tie-b", "longshot", "broken", "missing"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d results, got %v", len(want), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("desc order mismatch at %d: got %v, want %v", i, ids, want)
		}
	}

	results, err = New(zap.NewNop()).Search(vacancies, mustQuery(t, Params{Accept: "asc"}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	ids = resultIDs(results)
	want = []string{"longshot", "tie-a", "tie-b", "half", "full", "broken", "missing"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("asc order mismatch at %d: got %v, want %v", i, ids, want)
		}
	}
}

func TestSearchKeepsRecordsWithUndefinedAcceptance(t *testing.T) {
	broken := testVacancy("broken", "Marketing Staff")
	broken.JumlahKuota = "unknown"

	vacancies := &maganghub.Vacancies{Items: []*maganghub.Vacancy{broken}}

	results, err := New(zap.NewNop()).Search(vacancies, mustQuery(t, Params{Posisi: "marketing"}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("undefined acceptance must not exclude a record, got %d results", len(results))
	}
	if results[0].Estimate.AcceptanceProbDefined {
		t.Fatalf("expected undefined acceptance for malformed quota")
	}
}

func TestSearchLimit(t *testing.T) {
	vacancies := &maganghub.Vacancies{Items: []*maganghub.Vacancy{
		testVacancy("1", "A"),
		testVacancy("2", "B"),
		testVacancy("3", "C"),
	}}

	results, err := New(zap.NewNop()).Search(vacancies, mustQuery(t, Params{Limit: 2}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if ids := resultIDs(results); len(ids) != 2 || ids[0] != "1" || ids[1] != "2" {
		t.Fatalf("expected first two records, got %v", ids)
	}
}

func TestSearchSkipsNilRecords(t *testing.T) {
	vacancies := &maganghub.Vacancies{Items: []*maganghub.Vacancy{
		testVacancy("1", "A"),
		nil,
		testVacancy("2", "B"),
	}}

	results, err := New(nil).Search(vacancies, mustQuery(t, Params{}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected nil record to be skipped, got %d results", len(results))
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	if _, err := New(zap.NewNop()).Search(&maganghub.Vacancies{}, nil); err == nil {
		t.Fatalf("expected error for nil query")
	}
}
