package chat

import (
	"context"

	"github.com/jackryan100123/nyaya-sahayak/internal/classifier"
	"github.com/jackryan100123/nyaya-sahayak/internal/composer"
	"github.com/jackryan100123/nyaya-sahayak/internal/language"
	"github.com/jackryan100123/nyaya-sahayak/internal/models"
	"github.com/jackryan100123/nyaya-sahayak/internal/search"
	"go.uber.org/zap"
)

// apologyText is the last-resort reply when both the primary path and the
// general-response retry have failed.
const apologyText = "I apologize, but I encountered an error while processing your query. Please try rephrasing your question or try again later."

// Router decides, per query, between the legal pipeline and the general
// response. It is the single failure-recovery point above the components'
// own fail-open behavior: any error from the primary path is retried once
// against the general path, and only then does the fixed apology appear.
type Router struct {
	extractor classifier.Extractor
	searcher  *search.Searcher
	composer  *composer.Composer
	logger    *zap.Logger
}

func NewRouter(extractor classifier.Extractor, searcher *search.Searcher, comp *composer.Composer, logger *zap.Logger) *Router {
	return &Router{
		extractor: extractor,
		searcher:  searcher,
		composer:  comp,
		logger:    logger,
	}
}

// QueryInput is one routed user query with its conversation context.
type QueryInput struct {
	Query    string
	History  []models.Message
	Document *models.ProcessedDocument
}

// Route always produces a reply; it never returns an error to the caller.
func (r *Router) Route(ctx context.Context, in QueryInput) string {
	out, err := r.process(ctx, in)
	if err == nil {
		return out
	}

	r.logger.Error("query processing failed, retrying with general response", zap.Error(err))
	out, err = r.composer.ComposeGeneral(ctx, in.Query, in.History)
	if err != nil {
		r.logger.Error("general response fallback failed", zap.Error(err))
		return apologyText
	}
	return out
}

func (r *Router) process(ctx context.Context, in QueryInput) (string, error) {
	lang := language.Detect(in.Query)
	analysis := r.extractor.Extract(ctx, in.Query)

	if analysis.Category == models.CategoryLegal || analysis.Category == models.CategoryMixed {
		keywords := analysis.Keywords
		if in.Document != nil {
			keywords = unionKeywords(keywords, in.Document.Metadata.Keywords)
		}
		if len(keywords) > 0 {
			matches := r.searcher.Search(keywords, analysis.LawType)
			if len(matches) > 0 {
				return r.composer.ComposeLegal(ctx, composer.LegalInput{
					Query:    in.Query,
					Sections: matches,
					Keywords: keywords,
					History:  in.History,
					Analysis: analysis,
					Document: in.Document,
					Language: lang,
				}), nil
			}
		}
	}

	return r.composer.ComposeGeneral(ctx, in.Query, in.History)
}

// unionKeywords merges the extracted keywords with the active document's
// declared keywords, preserving order and dropping duplicates.
func unionKeywords(extracted, fromDocument []string) []string {
	seen := make(map[string]bool, len(extracted)+len(fromDocument))
	var out []string
	for _, lists := range [][]string{extracted, fromDocument} {
		for _, kw := range lists {
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			out = append(out, kw)
		}
	}
	return out
}
