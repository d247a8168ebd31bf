package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/prasmadji/maganghub-seeker/internal/ai"
	"github.com/prasmadji/maganghub-seeker/internal/ai/gemini"
	"github.com/prasmadji/maganghub-seeker/internal/logger"
	"github.com/prasmadji/maganghub-seeker/internal/maganghub"
	"github.com/prasmadji/maganghub-seeker/internal/search"
	"github.com/prasmadji/maganghub-seeker/internal/secrets"
)

const (
	PromptExit            = "Exit"
	PromptReportByCompany = "Report by company"
	PromptExportResults   = "Export annotated results to file"
	PromptDumpVacancies   = "Dump vacancies to file"

	// AllDirs selects every province subdirectory of the data directory.
	AllDirs = "all"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptExit, PromptReportByCompany, PromptExportResults, PromptDumpVacancies},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search previously fetched vacancies with structured filters and deep search",
	Run: func(cmd *cobra.Command, _ []string) {
		runSearch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("dir", "", "directory with page files, or 'all' for every subdirectory of the data dir")
	searchCmd.Flags().String("kabupaten", "", "filter by district or province names (space-separated tokens, OR)")
	searchCmd.Flags().String("program-studi", "", "filter by program-of-study titles (space-separated tokens, OR)")
	searchCmd.Flags().String("posisi", "", "filter by position title (space-separated tokens, OR)")
	searchCmd.Flags().String("deskripsi", "", "filter by words in the position description (space-separated tokens, OR)")
	searchCmd.Flags().String("gov", "2", "government postings: 1 = government only, 0 = non-government only, 2 = both")
	searchCmd.Flags().String("deep", "", "deep-search string across position, description, company, programs and jenjang")
	searchCmd.Flags().String("mode", "or", "deep-search mode: 'and' (all tokens) or 'or' (any token)")
	searchCmd.Flags().String("accept", "", "sort by acceptance probability: 'asc' or 'desc'")
	searchCmd.Flags().Int("limit", 0, "maximum number of results (0 = unlimited)")
	searchCmd.Flags().String("out", "", "write annotated results to this JSON file")
	searchCmd.Flags().BoolP("auto-approve", "y", false, "print the results table and exit without prompting")
}

// runSearch is the main command for the cli.
func runSearch(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the maganghub-seeker", zap.String("version", version))

	params := search.Params{
		NamaKabupaten:   flagString(cmd, "kabupaten"),
		ProgramStudi:    flagString(cmd, "program-studi"),
		Posisi:          flagString(cmd, "posisi"),
		DeskripsiPosisi: flagString(cmd, "deskripsi"),
		Gov:             flagString(cmd, "gov"),
		Deep:            flagString(cmd, "deep"),
		DeepMode:        flagString(cmd, "mode"),
		Accept:          flagString(cmd, "accept"),
		Limit:           flagInt(cmd, "limit"),
	}

	query, err := search.NewQuery(params)
	if err != nil {
		logger.Fatal("building the query", zap.Error(err))
	}

	if !query.HasStructuredFilters() && !query.HasDeepSearch() {
		logger.Fatal("either --deep or at least one structured filter (--kabupaten/--program-studi/--posisi/--deskripsi/--gov) must be provided")
	}

	vacancies, err := loadVacancies(logger, config, flagString(cmd, "dir"))
	if err != nil {
		logger.Fatal("loading vacancies", zap.Error(err))
	}

	logger.Info("loaded vacancies", zap.Int("count", vacancies.Len()))

	if vacancies.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no vacancies loaded"))
		return
	}

	results, err := search.New(logger).Search(vacancies, query)
	if err != nil {
		logger.Fatal("searching", zap.Error(err))
	}

	if config.AI != nil && config.AI.Enabled {
		results, err = evaluateResults(ctx, config, logger, results)
		if err != nil {
			logger.Fatal("evaluating results with AI", zap.Error(err))
		}
	}

	if len(results) == 0 {
		logger.Info("exiting", zap.String("reason", "no vacancies matched the query"))
		return
	}

	renderTable(results)
	fmt.Printf("\nTotal matches: %d\n", len(results))

	if out := flagString(cmd, "out"); out != "" {
		if err := search.NewDocument(results).WriteFile(out); err != nil {
			logger.Fatal("writing results", zap.Error(err))
		}
		logger.Info("saved results", zap.String("path", out))
	}

	if auto, _ := cmd.Flags().GetBool("auto-approve"); auto {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, results []*search.Result) error {
	matched := matchedVacancies(results)

	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(matched.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("vacancies count", matched.Len()))
		return nil
	case PromptExportResults:
		pathPrompt := promptui.Prompt{Label: "Output file", Default: "results.json"}
		path, err := pathPrompt.Run()
		if err != nil {
			return err
		}
		if err := search.NewDocument(results).WriteFile(path); err != nil {
			return fmt.Errorf("export results to file: %w", err)
		}
		logger.Info("saved results", zap.String("path", path))
		return nil
	case PromptDumpVacancies:
		filename, err := matched.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// loadVacancies reads the dataset from disk. The special dir value "all"
// walks every subdirectory of the configured data dir, so multi-province
// fetches can be searched as one concatenated sequence.
func loadVacancies(logger *zap.Logger, config *Config, dir string) (*maganghub.Vacancies, error) {
	if dir == "" {
		dir = config.DataDir
	}

	if dir == AllDirs {
		return maganghub.LoadAll(logger, config.DataDir)
	}

	return maganghub.LoadDir(logger, dir)
}

func renderTable(results []*search.Result) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"posisi", "perusahaan", "kabupaten", "kuota", "terdaftar", "accept%"})

	for _, result := range results {
		vacancy := result.Vacancy

		quota := "-"
		if n, ok := vacancy.Quota(); ok {
			quota = fmt.Sprintf("%d", n)
		}
		registered := "-"
		if n, ok := vacancy.Registered(); ok {
			registered = fmt.Sprintf("%d", n)
		}
		accept := "-"
		if result.Estimate.AcceptanceProbDefined {
			accept = fmt.Sprintf("%.2f%%", result.Estimate.AcceptanceProb*100)
		}

		table.Append([]string{
			orDash(vacancy.Posisi),
			orDash(vacancy.Perusahaan.NamaPerusahaan),
			orDash(vacancy.Perusahaan.NamaKabupaten),
			quota,
			registered,
			accept,
		})
	}

	table.Render()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func matchedVacancies(results []*search.Result) *maganghub.Vacancies {
	matched := &maganghub.Vacancies{Items: make([]*maganghub.Vacancy, 0, len(results))}
	for _, result := range results {
		matched.Items = append(matched.Items, result.Vacancy)
	}
	return matched
}

// evaluateResults runs the optional Gemini fit pass over the matched
// vacancies. Rejected vacancies are dropped; evaluation failures keep the
// vacancy and record the error on it.
func evaluateResults(ctx context.Context, config *Config, log *zap.Logger, results []*search.Result) ([]*search.Result, error) {
	matcher, err := newAIMatcher(ctx, config.AI, log)
	if err != nil {
		return nil, fmt.Errorf("building ai matcher: %w", err)
	}

	profile := profileFromConfig(config.Profile)
	if profile == nil {
		return nil, fmt.Errorf("an applicant profile is required under the profile section when ai is enabled")
	}

	initial := len(results)
	approved := make([]*search.Result, 0, initial)
	for _, result := range results {
		vacancy := result.Vacancy

		assessment, err := matcher.Evaluate(ctx, profile, vacancy)
		if err != nil {
			log.Warn("AI evaluation failed",
				zap.String("vacancy_id", vacancy.ID()),
				zap.Error(err),
			)
			vacancy.AI = &maganghub.AIAssessment{Error: err.Error()}
			approved = append(approved, result)
			continue
		}

		if !assessment.Fit {
			log.Info("vacancy rejected by AI provider",
				zap.String("vacancy_id", vacancy.ID()),
				zap.Float64("ai_score", assessment.Score),
				zap.String("reason", assessment.Reason),
			)
			continue
		}

		log.Info("vacancy approved by AI",
			zap.String("vacancy_id", vacancy.ID()),
			zap.Float64("ai_score", assessment.Score),
		)

		vacancy.AI = &maganghub.AIAssessment{
			Fit:     assessment.Fit,
			Score:   assessment.Score,
			Reason:  assessment.Reason,
			Message: assessment.Message,
			Raw:     assessment.Raw,
		}
		approved = append(approved, result)
	}

	if initial != len(approved) {
		log.Info("AI filtering completed",
			zap.Int("initial_vacancies", initial),
			zap.Int("approved_vacancies", len(approved)),
		)
	}

	return approved, nil
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Matcher, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithFields(log, logger.CommonFields("gemini", cfg.Gemini.Model)...)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	matcherLogger := logger.WithFields(log, append(
		logger.CommonFields("gemini", generator.Model()),
		zap.Float64("minimum_fit_score", minScore),
	)...)

	return gemini.NewMatcher(generator, minScore, cfg.Gemini.MaxLogLength, matcherLogger), nil
}

func profileFromConfig(cfg *ProfileConfig) *ai.Profile {
	if cfg == nil {
		return nil
	}

	profile := &ai.Profile{
		Name:         strings.TrimSpace(cfg.Name),
		Jenjang:      strings.TrimSpace(cfg.Jenjang),
		ProgramStudi: strings.TrimSpace(cfg.ProgramStudi),
		Summary:      strings.TrimSpace(cfg.Summary),
	}

	if profile.Jenjang == "" && profile.ProgramStudi == "" && profile.Summary == "" {
		return nil
	}

	return profile
}

func flagString(cmd *cobra.Command, name string) string {
	value, _ := cmd.Flags().GetString(name)
	return value
}
