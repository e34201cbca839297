package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sembox/mailseek/ai/mock"
	"github.com/sembox/mailseek/classify"
	"github.com/sembox/mailseek/core"
)

// featureTerms drives the test embedder: one dimension per term, counted by
// substring occurrence. Texts sharing vocabulary get high inner products,
// which makes ranking assertions deterministic.
var featureTerms = []string{
	"python", "java", "募集", "案件", "エンジニア", "経験", "プロジェクト", "開発",
}

func featureVector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(featureTerms)+1)
	for i, term := range featureTerms {
		v[i] = float32(strings.Count(lower, term))
	}
	// Keep every vector nonzero so normalization is well defined.
	v[len(featureTerms)] = 0.1
	return v
}

func newFeatureEmbedder() *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, text string) ([]float32, error) {
		return featureVector(text), nil
	}
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = featureVector(text)
		}
		return vectors, nil
	}
	return embedder
}

func testCorpus() []core.Document {
	date := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	return []core.Document{
		{
			Uid:      "p1",
			Subject:  "【急募】Python開発者募集",
			Sender:   "recruit@alpha.example",
			Date:     date,
			BodyText: "Pythonの開発案件です。3年以上の経験が必要です。東京勤務。",
			Folder:   "INBOX",
		},
		{
			Uid:         "p2",
			Subject:     "Javaエンジニア募集の案件",
			Sender:      "sales@beta.example",
			Date:        date.AddDate(0, 1, 0),
			BodyText:    "Java SpringBootプロジェクト。経験者歓迎。募集条件は3年以上。",
			Folder:      "INBOX",
			Attachments: []string{"要項.pdf"},
		},
		{
			Uid:      "h1",
			Subject:  "【人材紹介】優秀なJavaエンジニアのご紹介",
			Sender:   "hr@gamma.example",
			Date:     date.AddDate(0, 2, 0),
			BodyText: "弊社エンジニアをご紹介します。Java経験5年。単価60万。稼働可能。",
			Folder:   "Candidates",
		},
		{
			Uid:      "m1",
			Subject:  "会議の議事録",
			Sender:   "office@alpha.example",
			Date:     date.AddDate(0, 3, 0),
			BodyText: "来週の定例会議は水曜日です。",
			Folder:   "INBOX",
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	provider := mock.NewMockProviderWithEmbedder(newFeatureEmbedder())
	eng, err := NewEngine(provider,
		WithPoolSize(2),
		WithRetryPolicy(1, time.Millisecond),
	)
	require.NoError(t, err)
	t.Cleanup(eng.Release)
	return eng
}

func newBuiltEngine(t *testing.T) *Engine {
	t.Helper()

	eng := newTestEngine(t)
	require.NoError(t, eng.Build(context.Background(), testCorpus()))
	require.False(t, eng.Degraded())
	return eng
}

func TestBuildAndSearch(t *testing.T) {
	eng := newBuiltEngine(t)

	results, err := eng.Search(context.Background(), "Python 開発", 10, nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "p1", results[0].DocumentId)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	// Building nothing is a valid no-op: empty stats, empty searches.
	require.NoError(t, eng.Build(ctx, nil))
	assert.Equal(t, 0, eng.DocumentCount())
	assert.Equal(t, 0, eng.Statistics().DocumentCount)

	results, err := eng.Search(ctx, "python", 10, nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, _, err = eng.IntelligentSearch(ctx, "python", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	// An empty rebuild clears a previously populated engine.
	require.NoError(t, eng.Build(ctx, testCorpus()))
	require.NoError(t, eng.Build(ctx, []core.Document{}))
	assert.Equal(t, 0, eng.DocumentCount())
}

func TestBuildSkipsMalformedDocuments(t *testing.T) {
	eng := newTestEngine(t)

	docs := append(testCorpus(),
		core.Document{},              // no uid, no content
		core.Document{Uid: "empty"},  // no subject or body
		core.Document{BodyText: "x"}, // no uid
	)
	require.NoError(t, eng.Build(context.Background(), docs))

	stats := eng.Statistics()
	assert.Equal(t, len(testCorpus()), stats.DocumentCount)
	assert.Equal(t, len(testCorpus()), stats.IndexSize)

	results, err := eng.KeywordSearch("python", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "p1", results[0].DocumentId)
}

func TestBuildIsIdempotent(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.Build(ctx, testCorpus()))
	first := eng.Statistics()

	require.NoError(t, eng.Build(ctx, testCorpus()))
	second := eng.Statistics()

	assert.Equal(t, first.DocumentCount, second.DocumentCount)
	assert.Equal(t, first.IndexSize, second.IndexSize)
}

func TestSearchRejectsInvalidQuery(t *testing.T) {
	eng := newBuiltEngine(t)

	_, err := eng.Search(context.Background(), "", 10, nil)
	assert.ErrorIs(t, err, core.ErrInvalidQuery)

	_, err = eng.KeywordSearch("!!!", 10)
	assert.ErrorIs(t, err, core.ErrInvalidQuery)
}

func TestDegradedBuildFallsBackToLexical(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, errors.New("backend down")
	}
	embedder.EmbedTextsFunc = func(_ context.Context, _ []string) ([][]float32, error) {
		return nil, errors.New("backend down")
	}

	provider := mock.NewMockProviderWithEmbedder(embedder)
	eng, err := NewEngine(provider, WithRetryPolicy(1, time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(eng.Release)

	// Metadata-only build succeeds.
	require.NoError(t, eng.Build(context.Background(), testCorpus()))
	assert.True(t, eng.Degraded())
	assert.Equal(t, len(testCorpus()), eng.DocumentCount())

	// Degraded Search serves the raw query through the lexical path, so the
	// output is identical to KeywordSearch.
	semantic, err := eng.Search(context.Background(), "python", 10, nil)
	require.NoError(t, err)
	lexical, err := eng.KeywordSearch("python", 10)
	require.NoError(t, err)
	assert.Equal(t, lexical, semantic)
	require.NotEmpty(t, semantic)
	assert.Equal(t, "p1", semantic[0].DocumentId)
}

func TestQueryEmbeddingFailureNotSurfaced(t *testing.T) {
	// Backend healthy during build, dead afterwards: callers still get
	// results (or an empty list), never the embedding error.
	embedder := mock.NewMockEmbedder()
	probed := false
	embedder.EmbedTextFunc = func(_ context.Context, text string) ([]float32, error) {
		if !probed {
			probed = true
			return featureVector(text), nil
		}
		return nil, errors.New("backend flaked")
	}
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = featureVector(text)
		}
		return vectors, nil
	}

	provider := mock.NewMockProviderWithEmbedder(embedder)
	eng, err := NewEngine(provider, WithRetryPolicy(1, time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(eng.Release)

	ctx := context.Background()
	require.NoError(t, eng.Build(ctx, testCorpus()))
	require.False(t, eng.Degraded())

	// Search falls back to lexical scoring.
	semantic, err := eng.Search(ctx, "python", 10, nil)
	require.NoError(t, err)
	lexical, err := eng.KeywordSearch("python", 10)
	require.NoError(t, err)
	assert.Equal(t, lexical, semantic)

	// The bidirectional fan-out completes with every sub-search failing.
	results, cl, err := eng.IntelligentSearch(ctx, "3年経験のJavaエンジニア", 10)
	require.NoError(t, err)
	require.NotNil(t, cl)
	assert.Empty(t, results)
}

func TestKeywordSearchFieldWeights(t *testing.T) {
	eng := newTestEngine(t)
	date := time.Now().UTC()
	require.NoError(t, eng.Build(context.Background(), []core.Document{
		{Uid: "subj", Subject: "python job", Date: date, BodyText: "nothing here"},
		{Uid: "body", Subject: "offer", Date: date, BodyText: "python inside the body"},
		{Uid: "none", Subject: "unrelated", Date: date, BodyText: "no match at all"},
	}))

	results, err := eng.KeywordSearch("python", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Subject hits outweigh body hits.
	assert.Equal(t, "subj", results[0].DocumentId)
	assert.Equal(t, "body", results[1].DocumentId)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchFilters(t *testing.T) {
	eng := newBuiltEngine(t)
	ctx := context.Background()

	t.Run("folder", func(t *testing.T) {
		results, err := eng.Search(ctx, "Java エンジニア", 10, &Filters{Folder: "Candidates"})
		require.NoError(t, err)
		for _, r := range results {
			assert.Equal(t, "Candidates", r.Folder)
		}
	})

	t.Run("has attachment", func(t *testing.T) {
		results, err := eng.Search(ctx, "Java エンジニア", 10, &Filters{HasAttachment: true})
		require.NoError(t, err)
		require.NotEmpty(t, results)
		for _, r := range results {
			assert.NotEmpty(t, r.Attachments)
		}
	})

	t.Run("sender substring", func(t *testing.T) {
		results, err := eng.Search(ctx, "Python 開発", 10, &Filters{Sender: "ALPHA"})
		require.NoError(t, err)
		require.NotEmpty(t, results)
		for _, r := range results {
			assert.Contains(t, strings.ToLower(r.Sender), "alpha")
		}
	})

	t.Run("date range excludes everything", func(t *testing.T) {
		results, err := eng.Search(ctx, "Python 開発", 10, &Filters{
			EndDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestIntelligentSearchPersonToProject(t *testing.T) {
	eng := newBuiltEngine(t)

	results, cl, err := eng.IntelligentSearch(context.Background(), "3年経験のJavaエンジニア", 10)
	require.NoError(t, err)
	require.NotNil(t, cl)

	assert.Equal(t, classify.InputTypePerson, cl.InputType)
	assert.Equal(t, classify.DirectionPersonToProject, cl.Direction)
	assert.Contains(t, cl.Skills, "java")

	require.NotEmpty(t, results)
	ids := resultIds(results)
	assert.Contains(t, ids, "p2")
	// The staffing-pitch mail is excluded by its subject.
	assert.NotContains(t, ids, "h1")

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestIntelligentSearchProjectToPerson(t *testing.T) {
	eng := newBuiltEngine(t)

	results, cl, err := eng.IntelligentSearch(context.Background(), "Python開発者募集、3年以上", 10)
	require.NoError(t, err)

	assert.Equal(t, classify.InputTypeProject, cl.InputType)
	assert.Equal(t, classify.DirectionProjectToPerson, cl.Direction)
	assert.Contains(t, cl.Skills, "python")
	assert.Equal(t, 3, cl.ExperienceYears)

	assert.NotContains(t, resultIds(results), "h1")
}

func TestIntelligentSearchGeneralQuery(t *testing.T) {
	eng := newBuiltEngine(t)

	results, cl, err := eng.IntelligentSearch(context.Background(), "定例 日程", 10)
	require.NoError(t, err)

	assert.Equal(t, classify.QueryTypeGeneral, cl.QueryType)
	require.NotEmpty(t, results)
	// General searches skip the direction filter, so the staffing mail may
	// appear; the meeting mail must.
	assert.Contains(t, resultIds(results), "m1")
}

func TestIntelligentSearchDegraded(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, errors.New("backend down")
	}
	embedder.EmbedTextsFunc = func(_ context.Context, _ []string) ([][]float32, error) {
		return nil, errors.New("backend down")
	}

	provider := mock.NewMockProviderWithEmbedder(embedder)
	eng, err := NewEngine(provider, WithRetryPolicy(1, time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(eng.Release)
	require.NoError(t, eng.Build(context.Background(), testCorpus()))

	results, cl, err := eng.IntelligentSearch(context.Background(), "python", 10)
	require.NoError(t, err)
	assert.Equal(t, classify.QueryTypeKeywordFallback, cl.QueryType)

	lexical, err := eng.KeywordSearch("python", 10)
	require.NoError(t, err)
	assert.Equal(t, lexical, results)
}

type recordingMonitor struct {
	started  bool
	classed  *classify.Classification
	subCount int
	merged   int
	finished bool
}

func (m *recordingMonitor) Start(string) { m.started = true }
func (m *recordingMonitor) AfterClassification(cl *classify.Classification) {
	m.classed = cl
}
func (m *recordingMonitor) AfterSubSearch(string, []core.SearchResult) { m.subCount++ }
func (m *recordingMonitor) AfterMerge(n int)                           { m.merged = n }
func (m *recordingMonitor) AfterDirectionFilter(int, int)              {}
func (m *recordingMonitor) Finish([]core.SearchResult)                 { m.finished = true }

func TestIntelligentSearchMonitorHooks(t *testing.T) {
	eng := newBuiltEngine(t)

	monitor := &recordingMonitor{}
	_, _, err := eng.IntelligentSearchWithMonitor(context.Background(), "3年経験のJavaエンジニア", 10, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	require.NotNil(t, monitor.classed)
	assert.Equal(t, classify.InputTypePerson, monitor.classed.InputType)
	assert.Greater(t, monitor.subCount, 0)
	assert.True(t, monitor.finished)
}

func TestStatistics(t *testing.T) {
	eng := newBuiltEngine(t)

	stats := eng.Statistics()
	assert.True(t, stats.Initialized)
	assert.False(t, stats.Degraded)
	assert.Equal(t, 4, stats.DocumentCount)
	assert.Equal(t, 4, stats.IndexSize)
	assert.Equal(t, 3, stats.FolderDistribution["INBOX"])
	assert.Equal(t, 1, stats.FolderDistribution["Candidates"])

	// Every sender appears once, so ties break alphabetically.
	require.Len(t, stats.TopSenders, 4)
	assert.Equal(t, "hr@gamma.example", stats.TopSenders[0].Sender)
	assert.Equal(t, 1, stats.TopSenders[0].Count)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	eng := newBuiltEngine(t)
	path := t.TempDir() + "/index.snap"
	require.NoError(t, eng.Save(path))

	restored := newTestEngine(t)
	require.NoError(t, restored.Load(path))
	assert.False(t, restored.Degraded())
	assert.Equal(t, eng.DocumentCount(), restored.DocumentCount())

	ctx := context.Background()
	want, err := eng.Search(ctx, "Python 開発", 10, nil)
	require.NoError(t, err)
	got, err := restored.Search(ctx, "Python 開発", 10, nil)
	require.NoError(t, err)

	assert.Equal(t, resultIds(want), resultIds(got))
}

func TestSaveDegradedIsMetadataOnly(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, errors.New("backend down")
	}

	provider := mock.NewMockProviderWithEmbedder(embedder)
	eng, err := NewEngine(provider, WithRetryPolicy(1, time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(eng.Release)
	require.NoError(t, eng.Build(context.Background(), testCorpus()))

	path := t.TempDir() + "/lexical.snap"
	require.NoError(t, eng.Save(path))

	restored := newTestEngine(t)
	require.NoError(t, restored.Load(path))
	assert.True(t, restored.Degraded())
	assert.Equal(t, len(testCorpus()), restored.DocumentCount())

	results, err := restored.KeywordSearch("python", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestIndexBuilderMatchesOneShotBuild(t *testing.T) {
	ctx := context.Background()

	oneShot := newBuiltEngine(t)

	incremental := newTestEngine(t)
	builder, err := incremental.NewIndexBuilder(testCorpus())
	require.NoError(t, err)
	require.NoError(t, builder.Run(ctx))
	assert.False(t, incremental.Degraded())

	want, err := oneShot.Search(ctx, "Python 開発", 10, nil)
	require.NoError(t, err)
	got, err := incremental.Search(ctx, "Python 開発", 10, nil)
	require.NoError(t, err)
	assert.Equal(t, resultIds(want), resultIds(got))
}

func TestIndexBuilderStepAndResume(t *testing.T) {
	ctx := context.Background()

	eng := newTestEngine(t)
	builder, err := eng.NewIndexBuilder(testCorpus(), WithBatchSize(2))
	require.NoError(t, err)

	cursor, err := builder.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cursor.Processed)
	assert.False(t, cursor.Done())

	cursor, err = builder.Step(ctx)
	require.NoError(t, err)
	assert.True(t, cursor.Done())

	_, err = builder.Step(ctx)
	assert.ErrorIs(t, err, ErrBuildExhausted)

	// Resuming a fresh builder from the checkpoint reproduces the state.
	fresh, err := eng.NewIndexBuilder(testCorpus(), WithBatchSize(2))
	require.NoError(t, err)
	require.NoError(t, fresh.Resume(cursor, builder.Vectors()))
	require.NoError(t, fresh.Commit())
	assert.False(t, eng.Degraded())
}

func resultIds(results []core.SearchResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.DocumentId
	}
	return ids
}
