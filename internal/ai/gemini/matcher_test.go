package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/prasmadji/maganghub-seeker/internal/ai"
	"github.com/prasmadji/maganghub-seeker/internal/maganghub"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func testProfile() *ai.Profile {
	return &ai.Profile{
		Name:         "Budi",
		Jenjang:      "S1",
		ProgramStudi: "Teknik Informatika",
		Summary:      "Backend development with Go and Python",
	}
}

func testVacancy() *maganghub.Vacancy {
	vacancy, _ := maganghub.DecodeVacancy(map[string]any{
		"id_posisi": "7",
		"posisi":    "Backend Intern",
	})
	return vacancy
}

func TestEvaluateParsesResponse(t *testing.T) {
	generator := &fakeGenerator{
		response: `{"fit": true, "score": 0.8, "reason": "program matches", "message": "Halo"}`,
	}
	matcher := NewMatcher(generator, 0, 0, zap.NewNop())

	assessment, err := matcher.Evaluate(context.Background(), testProfile(), testVacancy())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if !assessment.Fit || assessment.Score != 0.8 {
		t.Fatalf("unexpected assessment: %+v", assessment)
	}
	if assessment.Reason != "program matches" {
		t.Fatalf("unexpected reason: %q", assessment.Reason)
	}
	if assessment.Raw == "" {
		t.Fatalf("expected raw response to be kept")
	}

	if len(generator.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(generator.prompts))
	}
	prompt := generator.prompts[0]
	if !strings.Contains(prompt, "Teknik Informatika") {
		t.Fatalf("expected profile in prompt")
	}
	if !strings.Contains(prompt, "Backend Intern") {
		t.Fatalf("expected vacancy in prompt")
	}
}

func TestEvaluateAppliesScoreThreshold(t *testing.T) {
	generator := &fakeGenerator{
		response: `{"fit": true, "score": 0.4, "reason": "weak match"}`,
	}
	matcher := NewMatcher(generator, 0.7, 0, zap.NewNop())

	assessment, err := matcher.Evaluate(context.Background(), testProfile(), testVacancy())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if assessment.Fit {
		t.Fatalf("expected fit to be forced false below threshold")
	}
	if assessment.Score != 0.4 {
		t.Fatalf("score must stay untouched, got %v", assessment.Score)
	}
}

func TestEvaluateHandlesCodeFencedJSON(t *testing.T) {
	generator := &fakeGenerator{
		response: "```json\n{\"fit\": false, \"score\": \"0.2\", \"reason\": \"different field\"}\n```",
	}
	matcher := NewMatcher(generator, 0, 0, zap.NewNop())

	assessment, err := matcher.Evaluate(context.Background(), testProfile(), testVacancy())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if assessment.Fit {
		t.Fatalf("expected fit false")
	}
	if assessment.Score != 0.2 {
		t.Fatalf("expected score coerced from string, got %v", assessment.Score)
	}
}

func TestEvaluatePropagatesGeneratorError(t *testing.T) {
	generator := &fakeGenerator{err: errors.New("quota exceeded")}
	matcher := NewMatcher(generator, 0, 0, zap.NewNop())

	if _, err := matcher.Evaluate(context.Background(), testProfile(), testVacancy()); err == nil {
		t.Fatalf("expected generator error to propagate")
	}
}

func TestEvaluateRejectsUnparseableResponse(t *testing.T) {
	generator := &fakeGenerator{response: "I think it fits!"}
	matcher := NewMatcher(generator, 0, 0, zap.NewNop())

	if _, err := matcher.Evaluate(context.Background(), testProfile(), testVacancy()); err == nil {
		t.Fatalf("expected parse error for non-JSON response")
	}
}

func TestEvaluateRequiresInputs(t *testing.T) {
	matcher := NewMatcher(&fakeGenerator{}, 0, 0, zap.NewNop())

	if _, err := matcher.Evaluate(context.Background(), nil, testVacancy()); err == nil {
		t.Fatalf("expected error for missing profile")
	}
	if _, err := matcher.Evaluate(context.Background(), testProfile(), nil); err == nil {
		t.Fatalf("expected error for missing vacancy")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"fit": true}`, `{"fit": true}`},
		{"fenced", "```json\n{\"fit\": true}\n```", `{"fit": true}`},
		{"fence without language", "```\n{\"fit\": true}\n```", `{"fit": true}`},
		{"backticks", "`{\"fit\": true}`", `{"fit": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Fatalf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
