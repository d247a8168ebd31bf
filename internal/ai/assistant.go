package ai

import (
	"context"

	"github.com/prasmadji/maganghub-seeker/internal/maganghub"
)

// Profile describes the applicant whose fit is evaluated against vacancies.
type Profile struct {
	Name         string
	Jenjang      string
	ProgramStudi string
	Summary      string
}

type FitAssessment struct {
	Fit     bool
	Score   float64
	Reason  string
	Message string
	Raw     string
}

type Matcher interface {
	Evaluate(ctx context.Context, profile *Profile, vacancy *maganghub.Vacancy) (*FitAssessment, error)
}
