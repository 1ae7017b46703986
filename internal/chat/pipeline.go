// Package chat answers questions about scheduled flights by retrieving leg
// descriptions and passing them to a text generation model.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dharmasatrya/fleetdesk/internal/dates"
	"github.com/dharmasatrya/fleetdesk/internal/models"
)

const promptTemplate = `You are a flight assistant. Today is {today}.

Use the following flight information to answer the user's question accurately.

Context:
{context}

Question:
{question}
`

// LegSource supplies the current leg snapshot.
type LegSource interface {
	Records(ctx context.Context) ([]models.Record, error)
}

type PipelineConfig struct {
	TopK       int
	ContextPDF string
	Retry      RetryPolicy
	Location   *time.Location
}

type Pipeline struct {
	source    LegSource
	index     *Index
	generator Generator
	cfg       PipelineConfig
	logger    *zap.Logger
	now       func() time.Time

	pdfOnce sync.Once
	pdfText string
}

func NewPipeline(source LegSource, index *Index, generator Generator, cfg PipelineConfig, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		source:    source,
		index:     index,
		generator: generator,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Answer responds to question using the current legs as context. Every failure
// past input validation is reported as a DownstreamFailure.
func (p *Pipeline) Answer(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", models.NewMissingFields([]string{"message"})
	}

	records, err := p.source.Records(ctx)
	if err != nil {
		return "", models.NewDownstream("failed to load flights", err)
	}

	if err := p.index.Rebuild(ctx, models.Listing{Records: records}.Legs()); err != nil {
		return "", models.NewDownstream("failed to index flights", err)
	}

	docs, err := p.index.Search(ctx, question, p.cfg.TopK)
	if err != nil {
		return "", models.NewDownstream("failed to retrieve flights", err)
	}

	prompt := p.Prompt(question, docs)

	var answer string
	err = p.cfg.Retry.call(ctx, p.logger, DownstreamGenerate, func(ctx context.Context) error {
		out, err := p.generator.Generate(ctx, prompt)
		answer = out
		return err
	})
	if err != nil {
		return "", models.NewDownstream("failed to generate answer", err)
	}
	return strings.TrimSpace(answer), nil
}

// Prompt fills the assistant template with today's date and the retrieved documents.
func (p *Pipeline) Prompt(question string, docs []string) string {
	context := strings.Join(docs, "\n\n")
	if extra := p.pdfContext(); extra != "" {
		if context != "" {
			context += "\n\n"
		}
		context += extra
	}

	r := strings.NewReplacer(
		"{today}", dates.Today(p.now(), p.cfg.Location),
		"{context}", context,
		"{question}", question,
	)
	return r.Replace(promptTemplate)
}

func (p *Pipeline) pdfContext() string {
	if p.cfg.ContextPDF == "" {
		return ""
	}
	p.pdfOnce.Do(func() {
		text, err := ExtractPDF(p.cfg.ContextPDF)
		if err != nil {
			p.logger.Warn("failed to read context pdf", zap.String("path", p.cfg.ContextPDF), zap.Error(err))
			return
		}
		p.pdfText = text
	})
	return p.pdfText
}
