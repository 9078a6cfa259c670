package cli

import (
	"context"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/services"
)

// mockSearchService implements driving.SearchService for command tests.
type mockSearchService struct {
	SearchFunc func(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.ScoredChunk, error)
	lastQuery  string
	lastOpts   domain.SearchOptions
}

func (m *mockSearchService) Search(
	ctx context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.ScoredChunk, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, opts)
	}
	return testScoredChunks(), nil
}

// mockAnswerService implements driving.AnswerService for command tests.
type mockAnswerService struct {
	AnswerFunc func(ctx context.Context, question string, opts domain.SearchOptions) (domain.Answer, error)
}

func (m *mockAnswerService) Answer(
	ctx context.Context,
	question string,
	opts domain.SearchOptions,
) (domain.Answer, error) {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question, opts)
	}
	return domain.Answer{
		Text:    "Use the AS200 stepper for sub-micron features.",
		Sources: testSourceRecords(),
	}, nil
}

// mockCorpusService implements driving.CorpusService for command tests.
type mockCorpusService struct {
	LoadCSVFunc      func(ctx context.Context, path string) (int, error)
	EmbedMissingFunc func(ctx context.Context) (int, error)
	StatsFunc        func(ctx context.Context) (domain.CorpusStats, error)
}

func (m *mockCorpusService) LoadCSV(ctx context.Context, path string) (int, error) {
	if m.LoadCSVFunc != nil {
		return m.LoadCSVFunc(ctx, path)
	}
	return 42, nil
}

func (m *mockCorpusService) EmbedMissing(ctx context.Context) (int, error) {
	if m.EmbedMissingFunc != nil {
		return m.EmbedMissingFunc(ctx)
	}
	return 7, nil
}

func (m *mockCorpusService) Stats(ctx context.Context) (domain.CorpusStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return domain.CorpusStats{
		TotalChunks:    100,
		EmbeddedChunks: 80,
		ByContentType: map[domain.ContentType]int{
			domain.ContentTypeText:  60,
			domain.ContentTypeTable: 40,
		},
	}, nil
}

// mockSettingsService implements driving.SettingsService for command tests.
type mockSettingsService struct {
	GetFunc  func() (*domain.AppSettings, error)
	SaveFunc func(settings *domain.AppSettings) error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetFunc != nil {
		return m.GetFunc()
	}
	settings := domain.DefaultAppSettings()
	return &settings, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(settings)
	}
	return nil
}

func testScoredChunks() []domain.ScoredChunk {
	return []domain.ScoredChunk{
		{
			Chunk: domain.Chunk{
				URL:         "https://wiki.nanotech.ucsb.edu/wiki/Photolithography",
				Title:       "Photolithography",
				ChunkNumber: 0,
				ContentType: domain.ContentTypeText,
				Content:     "Spin coat the wafer with AZ4110 photoresist.",
			},
			Score:         0.91,
			SemanticScore: 0.88,
			KeywordScore:  0.95,
		},
		{
			Chunk: domain.Chunk{
				URL:         "https://wiki.nanotech.ucsb.edu/wiki/Wet_Benches",
				Title:       "Wet Benches",
				ChunkNumber: 1,
				ContentType: domain.ContentTypeTable,
				Content:     "Bench 1 | Solvent | 24h access",
			},
			Score:         0.74,
			SemanticScore: 0.74,
			KeywordScore:  0.0,
		},
	}
}

func testSourceRecords() []domain.SourceRecord {
	return []domain.SourceRecord{
		{
			URL:         "https://wiki.nanotech.ucsb.edu/wiki/Stepper_1",
			Title:       "Stepper 1",
			ChunkNumber: 0,
			ContentType: domain.ContentTypeText,
			Score:       0.9,
		},
	}
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldSearch := searchService
	oldAnswer := answerService
	oldCorpus := corpusService
	oldSettings := settingsService
	oldFormatter := formatter

	searchService = &mockSearchService{}
	answerService = &mockAnswerService{}
	corpusService = &mockCorpusService{}
	settingsService = &mockSettingsService{}
	formatter = services.NewFormatter()

	return func() {
		searchService = oldSearch
		answerService = oldAnswer
		corpusService = oldCorpus
		settingsService = oldSettings
		formatter = oldFormatter
	}
}
