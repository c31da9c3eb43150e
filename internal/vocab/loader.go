package vocab

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"lexicards/internal/domain"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// Result describes the outcome of a load. On failure Entries holds the
// built-in sample list, Fallback is set and Err keeps the cause.
type Result struct {
	Entries  []domain.VocabEntry
	Source   string
	Fallback bool
	Status   string
	Err      error
}

// Loader fetches word lists from local files or HTTP URLs
type Loader struct {
	client *http.Client
	logger *zap.Logger
}

// NewLoader creates a loader with a default HTTP client
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// NewLoaderWithClient creates a loader with a custom HTTP client
func NewLoaderWithClient(client *http.Client, logger *zap.Logger) *Loader {
	return &Loader{
		client: client,
		logger: logger,
	}
}

// Load reads the word list at source. It never fails: any error is
// reported in the result and the fallback list is used instead.
func (l *Loader) Load(ctx context.Context, source string) Result {
	entries, err := l.read(ctx, source)
	if err != nil {
		l.logger.Warn("Failed to load vocabulary, using fallback list",
			zap.String("source", source),
			zap.Error(err))
		return Result{
			Entries:  Fallback(),
			Source:   source,
			Fallback: true,
			Status:   "Could not load word list, showing sample words",
			Err:      err,
		}
	}

	l.logger.Info("Vocabulary loaded",
		zap.String("source", source),
		zap.Int("words", len(entries)))
	return Result{
		Entries: entries,
		Source:  source,
		Status:  fmt.Sprintf("Loaded %d words", len(entries)),
	}
}

func (l *Loader) read(ctx context.Context, source string) ([]domain.VocabEntry, error) {
	if source == "" {
		return nil, fmt.Errorf("no vocabulary source configured")
	}

	if isURL(source) {
		return l.fetch(ctx, source)
	}

	switch strings.ToLower(path.Ext(source)) {
	case ".csv", ".xlsx", ".xlsm":
		return LoadSpreadsheet(source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return Parse(data)
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]domain.VocabEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch word list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("word list request returned status %d", resp.StatusCode)
	}

	u, _ := url.Parse(rawURL)
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".csv":
		return ParseCSV(resp.Body)
	case ".xlsx", ".xlsm":
		return ParseExcel(resp.Body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return Parse(data)
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fallback returns the built-in sample list used when loading fails
func Fallback() []domain.VocabEntry {
	return []domain.VocabEntry{
		{Word: "Venom", Meaning: "poison, toxin", Synonym: "toxin", Antonym: "antidote"},
		{Word: "Thickset", Meaning: "stout or stocky", Synonym: "sturdy", Antonym: "slender"},
		{Word: "Abridge", Meaning: "shorten while preserving meaning", Synonym: "condense", Antonym: "expand"},
	}
}
