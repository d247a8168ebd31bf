package maganghub

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MergedFileName is the single-dataset file produced by MergeDir. Page
// loaders skip it so merged and per-page data can live in the same directory.
const MergedFileName = "all.json"

// SavePage writes a fetched page to dir/<page>.json, stamping the payload
// with the scrape time. Returns the written path.
func SavePage(dir string, page *Page) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	body := make(map[string]any, len(page.Body)+1)
	for k, v := range page.Body {
		body[k] = v
	}
	body["_scraped_at"] = time.Now().UTC().Format(time.RFC3339)

	path := filepath.Join(dir, fmt.Sprintf("%d.json", page.Number))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(body); err != nil {
		return "", err
	}

	return path, nil
}

// ListPageFiles returns the page files of a directory in numeric page order.
// Only files with a numeric stem count; all.json and anything else is ignored.
func ListPageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type pageFile struct {
		page int
		path string
	}

	var files []pageFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || name == MergedFileName {
			continue
		}
		page, err := strconv.Atoi(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		files = append(files, pageFile{page: page, path: filepath.Join(dir, name)})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].page < files[j].page })

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.path)
	}
	return paths, nil
}

// LoadDir reads every page file of a directory and decodes its vacancies.
// Unreadable files and undecodable items are logged and skipped; the rest of
// the dataset still loads.
func LoadDir(logger *zap.Logger, dir string) (*Vacancies, error) {
	items, err := rawItems(logger, dir)
	if err != nil {
		return nil, err
	}

	vacancies := &Vacancies{}
	for _, item := range items {
		vacancy, err := DecodeVacancy(item)
		if err != nil {
			logger.Warn("skipping undecodable vacancy", zap.String("dir", dir), zap.Error(err))
			continue
		}
		vacancies.Items = append(vacancies.Items, vacancy)
	}

	return vacancies, nil
}

// LoadAll loads every subdirectory of baseDir in name order and concatenates
// the results, preserving per-directory page order.
func LoadAll(logger *zap.Logger, baseDir string) (*Vacancies, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(baseDir, entry.Name()))
		}
	}
	sort.Strings(dirs)

	all := &Vacancies{}
	for _, dir := range dirs {
		loaded, err := LoadDir(logger, dir)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", dir, err)
		}
		all.Items = append(all.Items, loaded.Items...)
	}

	return all, nil
}

// MergeDir combines all page files of a directory into dir/all.json with a
// single data list, returning the written path.
func MergeDir(logger *zap.Logger, dir string) (string, error) {
	items, err := rawItems(logger, dir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, MergedFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"data": items}); err != nil {
		return "", err
	}

	logger.Info("merged page files",
		zap.String("path", path),
		zap.Int("items", len(items)),
	)

	return path, nil
}

func rawItems(logger *zap.Logger, dir string) ([]map[string]any, error) {
	paths, err := ListPageFiles(dir)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable page file", zap.String("path", path), zap.Error(err))
			continue
		}

		var payload any
		if err := json.Unmarshal(data, &payload); err != nil {
			logger.Warn("skipping page file with invalid json", zap.String("path", path), zap.Error(err))
			continue
		}

		switch body := payload.(type) {
		case map[string]any:
			items = append(items, extractItems(body)...)
		case []any:
			for _, entry := range body {
				if item, ok := entry.(map[string]any); ok {
					items = append(items, item)
				}
			}
		}
	}

	return items, nil
}
