package classifier

import (
	"context"

	"github.com/jackryan100123/nyaya-sahayak/internal/models"
)

// Extractor classifies a user query and pulls out the legal keywords that
// drive the section search.
type Extractor interface {
	Extract(ctx context.Context, query string) models.QueryAnalysis
}

// NeutralAnalysis is the fail-open result: no keywords, general category.
// It guarantees the pipeline always has a defined next step even when the
// remote classifier is unreachable or replies with garbage.
func NeutralAnalysis() models.QueryAnalysis {
	return models.QueryAnalysis{Keywords: []string{}, Category: models.CategoryGeneral}
}
