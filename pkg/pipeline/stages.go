package pipeline

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"paper-digest-be/internal/constant"
	"paper-digest-be/internal/entity"
	"paper-digest-be/pkg/arxiv"
	"paper-digest-be/pkg/llm"
	"paper-digest-be/pkg/parser"
	"paper-digest-be/pkg/synthesizer"

	"github.com/google/uuid"
)

// PaperSource resolves paper metadata and PDF bytes from arXiv or an
// arbitrary URL.
type PaperSource interface {
	FetchMetadata(ctx context.Context, arxivId string) (*arxiv.Metadata, error)
	DownloadPDF(ctx context.Context, arxivId string, destDir string) (string, error)
	DownloadPDFFromURL(ctx context.Context, url string, destDir string, filename string) (string, error)
}

// ChunkIndexer stores chunk embeddings and retrieves grounded context.
type ChunkIndexer interface {
	IndexText(ctx context.Context, jobId uuid.UUID, arxivId string, text string) ([]string, []string, error)
	Retrieve(ctx context.Context, jobId uuid.UUID, query string, topK int) ([]string, error)
}

// StageSet owns the collaborators shared by all stages and produces the
// ordered stage list the engine executes.
type StageSet struct {
	Source      PaperSource
	Indexer     ChunkIndexer
	LLM         llm.LLMProvider
	Synthesizer *synthesizer.Synthesizer
	DownloadDir string
	TopK        int

	// ExtractText is swappable for tests; defaults to the PDF extractor.
	ExtractText func(path string) (string, error)
}

func NewStageSet(source PaperSource, indexer ChunkIndexer, provider llm.LLMProvider, synth *synthesizer.Synthesizer, downloadDir string) *StageSet {
	return &StageSet{
		Source:      source,
		Indexer:     indexer,
		LLM:         provider,
		Synthesizer: synth,
		DownloadDir: downloadDir,
		TopK:        5,
		ExtractText: parser.ExtractText,
	}
}

// Stages returns the fixed processing order. Each run walks this list front
// to back and stops at the first failure.
func (s *StageSet) Stages() []Stage {
	return []Stage{
		{Name: "ingestion", Status: entity.StatusIngesting, Run: s.runIngestion},
		{Name: "parsing", Status: entity.StatusParsing, Run: s.runParsing},
		{Name: "indexing", Status: entity.StatusIndexing, Run: s.runIndexing},
		{Name: "summarizing", Status: entity.StatusSummarizing, Run: s.runSummarizing},
		{Name: "novelty_analysis", Status: entity.StatusNovelty, Run: s.runNovelty},
		{Name: "humanizing", Status: entity.StatusHumanizing, Run: s.runHumanizing},
		{Name: "synthesizing", Status: entity.StatusSynthesizing, Run: s.runSynthesizing},
	}
}

// runIngestion resolves the job's input to a local PDF plus metadata. A PDF
// URL that points at arxiv.org is promoted to an arXiv id so the richer
// metadata path applies.
func (s *StageSet) runIngestion(ctx context.Context, job *entity.PaperJob) error {
	if job.ArxivId == "" && job.PdfUrl != "" {
		if id, ok := arxiv.ExtractId(job.PdfUrl); ok {
			job.ArxivId = id
		}
	}

	switch {
	case job.ArxivId != "":
		meta, err := s.Source.FetchMetadata(ctx, job.ArxivId)
		if err != nil {
			return fmt.Errorf("fetch metadata: %w", err)
		}
		job.Metadata = &entity.PaperMetadata{
			Title:         meta.Title,
			Authors:       meta.Authors,
			Abstract:      meta.Abstract,
			Categories:    meta.Categories,
			PublishedDate: meta.PublishedDate,
			SourceId:      meta.SourceId,
		}

		path, err := s.Source.DownloadPDF(ctx, job.ArxivId, s.DownloadDir)
		if err != nil {
			return fmt.Errorf("download pdf: %w", err)
		}
		job.LocalPath = path

	case job.PdfUrl != "":
		filename := job.Id.String() + ".pdf"
		path, err := s.Source.DownloadPDFFromURL(ctx, job.PdfUrl, s.DownloadDir, filename)
		if err != nil {
			return fmt.Errorf("download pdf: %w", err)
		}
		job.LocalPath = path
		job.Metadata = &entity.PaperMetadata{
			Title:    job.PdfUrl,
			SourceId: job.PdfUrl,
		}

	case job.FilePath != "":
		if _, err := os.Stat(job.FilePath); err != nil {
			return fmt.Errorf("uploaded file missing: %w", err)
		}
		job.LocalPath = job.FilePath
		job.Metadata = &entity.PaperMetadata{
			Title:    strings.TrimSuffix(strings.TrimSuffix(job.FilePath[strings.LastIndex(job.FilePath, "/")+1:], ".pdf"), ".PDF"),
			SourceId: job.FilePath,
		}

	default:
		return fmt.Errorf("job carries no arxiv id, pdf url or file path")
	}

	return nil
}

func (s *StageSet) runParsing(ctx context.Context, job *entity.PaperJob) error {
	text, err := s.ExtractText(job.LocalPath)
	if err != nil {
		return err
	}
	job.RawText = text
	return nil
}

func (s *StageSet) runIndexing(ctx context.Context, job *entity.PaperJob) error {
	chunks, ids, err := s.Indexer.IndexText(ctx, job.Id, job.ArxivId, job.RawText)
	if err != nil {
		return err
	}
	job.Chunks = chunks
	job.ChunkIds = ids

	query := job.UserQuery
	if query == "" && job.Metadata != nil {
		query = job.Metadata.Title + " " + job.Metadata.Abstract
	}
	if query == "" {
		query = "main contribution of this paper"
	}

	docs, err := s.Indexer.Retrieve(ctx, job.Id, query, s.TopK)
	if err != nil {
		return fmt.Errorf("retrieve context: %w", err)
	}
	job.RetrievedContext = docs
	return nil
}

func (s *StageSet) runSummarizing(ctx context.Context, job *entity.PaperJob) error {
	title, abstract := jobTitleAbstract(job)

	contextDocs := job.RetrievedContext
	if len(contextDocs) > 3 {
		contextDocs = contextDocs[:3]
	}

	summaryPrompt := fmt.Sprintf(constant.TechnicalSummaryPromptTemplate,
		title, abstract, strings.Join(contextDocs, "\n"))
	summary, err := s.LLM.Generate(ctx, summaryPrompt)
	if err != nil {
		return fmt.Errorf("technical summary: %w", err)
	}
	job.TechnicalSummary = summary
	job.TokensUsed += llm.EstimateTokens(summaryPrompt + summary)

	analysisPrompt := fmt.Sprintf(constant.ContextualAnalysisPromptTemplate, title, summary)
	analysis, err := s.LLM.Generate(ctx, analysisPrompt)
	if err != nil {
		return fmt.Errorf("contextual analysis: %w", err)
	}
	job.ContextualAnalysis = analysis
	job.TokensUsed += llm.EstimateTokens(analysisPrompt + analysis)

	return nil
}

var noveltyScorePattern = regexp.MustCompile(`Overall Novelty Score:\s*(\d+\.?\d*)`)

// noveltyKeywords back up the score when the model ignores the requested
// format.
var noveltyKeywords = []string{"novel", "new", "first", "breakthrough", "unprecedented", "innovative"}

func (s *StageSet) runNovelty(ctx context.Context, job *entity.PaperJob) error {
	title, _ := jobTitleAbstract(job)

	prompt := fmt.Sprintf(constant.NoveltyPromptTemplate,
		title, job.TechnicalSummary, job.ContextualAnalysis)
	analysis, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("novelty analysis: %w", err)
	}

	job.NoveltyAnalysis = analysis
	job.NoveltyScore = parseNoveltyScore(analysis, job.TechnicalSummary)
	job.TokensUsed += llm.EstimateTokens(prompt + analysis)

	return nil
}

// parseNoveltyScore extracts the declared score, falling back to keyword
// density over the technical summary and finally to a neutral 0.5.
func parseNoveltyScore(analysis string, technicalSummary string) float64 {
	if m := noveltyScorePattern.FindStringSubmatch(analysis); m != nil {
		score, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return clampScore(score)
		}
	}

	lower := strings.ToLower(technicalSummary)
	hits := 0
	for _, word := range noveltyKeywords {
		if strings.Contains(lower, word) {
			hits++
		}
	}
	if hits > 0 {
		return clampScore(float64(hits) / 10.0)
	}

	return 0.5
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func (s *StageSet) runHumanizing(ctx context.Context, job *entity.PaperJob) error {
	title, _ := jobTitleAbstract(job)

	userQuery := job.UserQuery
	if userQuery == "" {
		userQuery = "general explanation"
	}

	prompt := fmt.Sprintf(constant.AccessibleSummaryPromptTemplate,
		title, job.TechnicalSummary, job.NoveltyScore, userQuery)
	summary, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("accessible summary: %w", err)
	}

	job.AccessibleSummary = summary
	job.TokensUsed += llm.EstimateTokens(prompt + summary)
	return nil
}

func (s *StageSet) runSynthesizing(ctx context.Context, job *entity.PaperJob) error {
	title, _ := jobTitleAbstract(job)

	prompt := fmt.Sprintf(constant.SynthesisPromptTemplate,
		title, job.TechnicalSummary, job.ContextualAnalysis,
		job.NoveltyAnalysis, job.AccessibleSummary, title)
	content, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("synthesis: %w", err)
	}
	job.TokensUsed += llm.EstimateTokens(prompt + content)

	out := s.Synthesizer.Split(content)
	job.Digest = out.Digest
	if job.Digest == "" {
		// Unstructured output still makes a usable digest.
		job.Digest = strings.TrimSpace(content)
	}
	job.PostThread = out.PostThread
	job.LongPost = out.LongPost

	return nil
}

func jobTitleAbstract(job *entity.PaperJob) (string, string) {
	if job.Metadata == nil {
		return "", ""
	}
	return job.Metadata.Title, job.Metadata.Abstract
}
