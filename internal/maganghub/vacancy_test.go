package maganghub

import "testing"

func TestDecodeVacancyPreservesRaw(t *testing.T) {
	item := map[string]any{
		"id_posisi":        float64(42),
		"posisi":           "Marketing Staff",
		"deskripsi_posisi": "Membantu tim pemasaran",
		"jumlah_kuota":     float64(5),
		"jumlah_terdaftar": "12",
		"perusahaan": map[string]any{
			"nama_perusahaan": "PT Maju",
			"nama_kabupaten":  "KAB. SLEMAN",
			"nama_provinsi":   "DI YOGYAKARTA",
		},
		"unknown_field": "kept",
	}

	vacancy, err := DecodeVacancy(item)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if vacancy.ID() != "42" {
		t.Fatalf("expected id 42, got %q", vacancy.ID())
	}
	if vacancy.Perusahaan.NamaKabupaten != "KAB. SLEMAN" {
		t.Fatalf("unexpected kabupaten: %q", vacancy.Perusahaan.NamaKabupaten)
	}
	if vacancy.Raw["unknown_field"] != "kept" {
		t.Fatalf("expected raw to preserve unknown fields")
	}

	quota, ok := vacancy.Quota()
	if !ok || quota != 5 {
		t.Fatalf("expected quota 5, got %d (ok=%v)", quota, ok)
	}
	registered, ok := vacancy.Registered()
	if !ok || registered != 12 {
		t.Fatalf("expected registered 12 from string field, got %d (ok=%v)", registered, ok)
	}
}

func TestProgramStudiTitles(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"nil", nil, nil},
		{"plain string", "Manajemen", []string{"Manajemen"}},
		{
			"json encoded objects",
			`[{"title": "Manajemen Pemasaran"}, {"title": "Akuntansi"}]`,
			[]string{"Manajemen Pemasaran", "Akuntansi"},
		},
		{
			"list of objects",
			[]any{map[string]any{"title": "Teknik Informatika"}, map[string]any{"kode": "x"}},
			[]string{"Teknik Informatika"},
		},
		{"list of strings", []any{"Hukum", "Psikologi"}, []string{"Hukum", "Psikologi"}},
		{"json encoded string stays single title", `"Manajemen"`, []string{`"Manajemen"`}},
		{"empty string", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vacancy := &Vacancy{ProgramStudi: tt.value}
			got := vacancy.ProgramStudiTitles()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestJenjangValues(t *testing.T) {
	vacancy := &Vacancy{Jenjang: `["S1", "D3"]`}
	got := vacancy.JenjangValues()
	if len(got) != 2 || got[0] != "S1" || got[1] != "D3" {
		t.Fatalf("unexpected jenjang values: %v", got)
	}

	vacancy = &Vacancy{Jenjang: "SMK"}
	got = vacancy.JenjangValues()
	if len(got) != 1 || got[0] != "SMK" {
		t.Fatalf("unexpected jenjang values: %v", got)
	}
}

func TestCoerceCountRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"missing", nil},
		{"negative", float64(-1)},
		{"fractional", 2.5},
		{"word", "banyak"},
		{"object", map[string]any{"n": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := coerceCount(tt.value); ok {
				t.Fatalf("expected %v to be rejected", tt.value)
			}
		})
	}
}

func TestReportByCompanyIncludesAIResults(t *testing.T) {
	withAI := &Vacancy{
		Posisi: "Data Analyst Intern",
		AI: &AIAssessment{
			Fit:     true,
			Score:   0.91,
			Reason:  "Matches program of study",
			Message: "Halo",
		},
	}
	withAI.Perusahaan.NamaPerusahaan = "PT Maju"
	withAI.JumlahKuota = float64(3)

	withError := &Vacancy{
		Posisi: "Marketing Intern",
		AI:     &AIAssessment{Error: "quota exceeded"},
	}
	withError.Perusahaan.NamaPerusahaan = "PT Mundur"

	report := (&Vacancies{Items: []*Vacancy{withAI, withError}}).ReportByCompany()

	entries := report["PT Maju"]
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry for PT Maju, got %d", len(entries))
	}
	entry := entries[0]
	if entry["ai_fit"] != "true" {
		t.Fatalf("expected ai_fit true, got %q", entry["ai_fit"])
	}
	if entry["ai_score"] != "0.91" {
		t.Fatalf("expected ai_score 0.91, got %q", entry["ai_score"])
	}
	if entry["kuota"] != "3" {
		t.Fatalf("expected kuota 3, got %q", entry["kuota"])
	}

	entries = report["PT Mundur"]
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry for PT Mundur, got %d", len(entries))
	}
	entry = entries[0]
	if entry["ai_error"] != "quota exceeded" {
		t.Fatalf("unexpected ai_error: %q", entry["ai_error"])
	}
	if _, ok := entry["ai_fit"]; ok {
		t.Fatalf("did not expect ai_fit for error case")
	}
	if _, ok := entry["kuota"]; ok {
		t.Fatalf("did not expect kuota for missing counter")
	}
}
