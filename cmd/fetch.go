package cmd

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/prasmadji/maganghub-seeker/internal/logger"
	"github.com/prasmadji/maganghub-seeker/internal/maganghub"
	"github.com/prasmadji/maganghub-seeker/internal/secrets"
	"github.com/prasmadji/maganghub-seeker/internal/utils"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch active vacancies from MagangHub and save them as page files",
	Run: func(cmd *cobra.Command, _ []string) {
		fetch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().String("dir", "", "directory for page files (default is <data-dir>, optionally <data-dir>/prov_<province>)")
	fetchCmd.Flags().Int("province", 0, "kode_provinsi to restrict the fetch to one province")
	fetchCmd.Flags().Int("start-page", 1, "page to start fetching from")
	fetchCmd.Flags().Int("page-size", 0, "items per page (default is the API maximum)")
	fetchCmd.Flags().Int("max-pages", 0, "stop after saving this many pages (0 = until the data runs out)")
	fetchCmd.Flags().Duration("delay", 0, "delay between page requests")
	fetchCmd.Flags().Bool("merge", false, "merge saved pages into all.json after fetching")
}

func fetch(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	province := flagInt(cmd, "province")
	pageSize := flagInt(cmd, "page-size")
	maxPages := flagInt(cmd, "max-pages")
	startPage := flagInt(cmd, "start-page")
	delay, _ := cmd.Flags().GetDuration("delay")

	if config.Fetch != nil {
		if province == 0 {
			province = config.Fetch.KodeProvinsi
		}
		if pageSize == 0 {
			pageSize = config.Fetch.PageSize
		}
		if maxPages == 0 {
			maxPages = config.Fetch.MaxPages
		}
		if delay == 0 && config.Fetch.Delay != "" {
			parsed, err := time.ParseDuration(config.Fetch.Delay)
			if err != nil {
				logger.Fatal("parsing fetch delay from config", zap.Error(err))
			}
			delay = parsed
		}
	}

	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = config.DataDir
	}

	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal("loading maganghub token", zap.Error(err))
	}

	client := maganghub.New(ctx, logger, token)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	logger.Info("starting the fetch",
		zap.String("dir", dir),
		zap.Int("province", province),
		zap.Int("start_page", startPage),
	)

	page := startPage
	saved := 0
	for {
		if maxPages > 0 && saved >= maxPages {
			logger.Info("reached max pages, stopping", zap.Int("max_pages", maxPages))
			break
		}

		result, err := client.FetchPage(maganghub.FetchParams{
			Page:         page,
			Limit:        pageSize,
			KodeProvinsi: province,
		})
		if err != nil {
			logger.Fatal("fetching page", zap.Int("page", page), zap.Error(err))
		}

		path, err := maganghub.SavePage(dir, result)
		if err != nil {
			logger.Fatal("saving page", zap.Int("page", page), zap.Error(err))
		}
		saved++

		logger.Info("saved page",
			zap.Int("page", page),
			zap.Int("items", len(result.Items)),
			zap.String("path", path),
		)

		if len(result.Items) == 0 {
			logger.Info("no data found on page, stopping", zap.Int("page", page))
			break
		}

		page++
		if delay > 0 {
			if err := utils.WaitFor(ctx, delay); err != nil {
				logger.Fatal("waiting between pages", zap.Error(err))
			}
		}
	}

	logger.Info("fetch finished", zap.Int("pages_saved", saved))

	if merge, _ := cmd.Flags().GetBool("merge"); merge {
		if _, err := maganghub.MergeDir(logger, dir); err != nil {
			logger.Fatal("merging page files", zap.Error(err))
		}
	}
}

func resolveToken(config *Config) (string, error) {
	tokenFile := strings.TrimSpace(config.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("token-file"))
	}

	// The public listing endpoints work without a token.
	if tokenFile == "" {
		return "", nil
	}

	return secrets.Load(secrets.Source{
		Name: "maganghub token",
		File: tokenFile,
	})
}

func flagInt(cmd *cobra.Command, name string) int {
	value, _ := cmd.Flags().GetInt(name)
	return value
}
