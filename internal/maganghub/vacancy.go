package maganghub

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Vacancy is a single internship posting. The API has no fixed schema
// guarantee for several fields, so numeric counters and the string-or-list
// fields are kept loosely typed and coerced at the point of use. Raw always
// holds the unmodified source mapping.
type Vacancy struct {
	IDPosisi        any    `json:"id_posisi,omitempty"`
	Posisi          string `json:"posisi,omitempty"`
	DeskripsiPosisi string `json:"deskripsi_posisi,omitempty"`
	SyaratKhusus    string `json:"syarat_khusus,omitempty"`
	// ProgramStudi may be a JSON-encoded string, a list of titles, or a list
	// of objects carrying a title.
	ProgramStudi any `json:"program_studi,omitempty"`
	// Jenjang may be a plain string or a (possibly JSON-encoded) list.
	Jenjang         any `json:"jenjang,omitempty"`
	JumlahKuota     any `json:"jumlah_kuota,omitempty"`
	JumlahTerdaftar any `json:"jumlah_terdaftar,omitempty"`
	Perusahaan      struct {
		NamaPerusahaan      string `json:"nama_perusahaan,omitempty"`
		NamaKabupaten       string `json:"nama_kabupaten,omitempty"`
		NamaProvinsi        string `json:"nama_provinsi,omitempty"`
		Alamat              string `json:"alamat,omitempty"`
		DeskripsiPerusahaan string `json:"deskripsi_perusahaan,omitempty"`
	} `json:"perusahaan,omitempty"`
	GovernmentAgency struct {
		Name string `json:"government_agency_name,omitempty"`
	} `json:"government_agency,omitempty"`
	SubGovernmentAgency struct {
		Name string `json:"sub_government_agency_name,omitempty"`
	} `json:"sub_government_agency,omitempty"`

	Raw map[string]any `json:"-"`

	AI *AIAssessment `json:"ai,omitempty"`
}

// AIAssessment carries the optional Gemini fit evaluation attached to a vacancy.
type AIAssessment struct {
	Fit     bool    `json:"fit"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason,omitempty"`
	Message string  `json:"message,omitempty"`
	Raw     string  `json:"raw,omitempty"`
	Error   string  `json:"error,omitempty"`
}

type Vacancies struct {
	Items []*Vacancy
}

// DecodeVacancy converts a raw API item into a Vacancy, preserving the
// original mapping under Raw.
func DecodeVacancy(item map[string]any) (*Vacancy, error) {
	var vacancy Vacancy

	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &vacancy,
		TagName:  "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(item); err != nil {
		return nil, err
	}

	vacancy.Raw = item
	return &vacancy, nil
}

// ID returns the posting identifier as a string regardless of the JSON type
// the API used for it.
func (va *Vacancy) ID() string {
	return valueAsString(va.IDPosisi)
}

// ProgramStudiTitles flattens the program_studi field into a list of titles.
// The field may be a JSON-encoded string, a list of strings, or a list of
// objects with a title key. Anything unparseable is treated as a single
// title rather than an error.
func (va *Vacancy) ProgramStudiTitles() []string {
	return parseTitles(va.ProgramStudi)
}

// JenjangValues flattens the jenjang field into a list of education levels.
func (va *Vacancy) JenjangValues() []string {
	return parseStringList(va.Jenjang)
}

// Quota returns jumlah_kuota as a non-negative integer. The second return is
// false when the field is missing, malformed, or negative.
func (va *Vacancy) Quota() (int, bool) {
	return coerceCount(va.JumlahKuota)
}

// Registered returns jumlah_terdaftar as a non-negative integer. The second
// return is false when the field is missing, malformed, or negative.
func (va *Vacancy) Registered() (int, bool) {
	return coerceCount(va.JumlahTerdaftar)
}

func parseTitles(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch entry := item.(type) {
			case map[string]any:
				if title := valueAsString(entry["title"]); title != "" {
					out = append(out, title)
				}
			case string:
				if entry != "" {
					out = append(out, entry)
				}
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			if _, again := parsed.(string); !again {
				return parseTitles(parsed)
			}
		}
		// not JSON; treat as a single-title string
		return []string{v}
	default:
		return nil
	}
}

func parseStringList(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := valueAsString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		var parsed []any
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			return parseStringList(parsed)
		}
		return []string{v}
	default:
		if s := valueAsString(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

func coerceCount(value any) (int, bool) {
	var n int
	switch v := value.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		n = int(v)
		if float64(n) != v {
			return 0, false
		}
	case json.Number:
		parsed, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, false
		}
		n = parsed
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}

	if n < 0 {
		return 0, false
	}
	return n, true
}

func valueAsString(v any) string {
	if v == nil {
		return ""
	}

	switch typed := v.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprintf("%v", typed)
	}
}

func (v *Vacancies) Len() int {
	return len(v.Items)
}

func (v *Vacancies) FindByID(id string) *Vacancy {
	for _, vacancy := range v.Items {
		if vacancy.ID() == id {
			return vacancy
		}
	}
	return nil
}

func (v *Vacancies) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "vacancies_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByCompany groups vacancies by company for a quick JSON report.
func (v *Vacancies) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, vacancy := range v.Items {
		key := vacancy.Perusahaan.NamaPerusahaan
		if key == "" {
			key = "(unknown company)"
		}

		entry := map[string]string{
			"posisi":    vacancy.Posisi,
			"kabupaten": vacancy.Perusahaan.NamaKabupaten,
			"provinsi":  vacancy.Perusahaan.NamaProvinsi,
		}
		if quota, ok := vacancy.Quota(); ok {
			entry["kuota"] = strconv.Itoa(quota)
		}
		if registered, ok := vacancy.Registered(); ok {
			entry["terdaftar"] = strconv.Itoa(registered)
		}
		if vacancy.AI != nil {
			if vacancy.AI.Error != "" {
				entry["ai_error"] = vacancy.AI.Error
			} else {
				entry["ai_fit"] = strconv.FormatBool(vacancy.AI.Fit)
				entry["ai_score"] = strconv.FormatFloat(vacancy.AI.Score, 'g', -1, 64)
				entry["ai_reason"] = vacancy.AI.Reason
				entry["ai_message"] = vacancy.AI.Message
			}
		}

		report[key] = append(report[key], entry)
	}
	return report
}
