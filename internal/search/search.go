package search

import (
	"sort"
	"strings"

	"github.com/jackryan100123/nyaya-sahayak/internal/corpus"
	"github.com/jackryan100123/nyaya-sahayak/internal/models"
	"go.uber.org/zap"
)

// importanceVocab marks contexts in which a keyword hit carries extra
// weight: operative statutory language rather than a passing mention.
var importanceVocab = []string{
	"punishment", "shall be", "defined", "means", "imprisonment", "fine", "penalty",
}

// punishmentTerms drive the punishment match type: a penalty-oriented
// keyword landing in penalty-oriented section text.
var punishmentTerms = []string{
	"punishment", "penalty", "sentence", "imprisonment", "fine", "years", "death",
}

// Searcher scans the statute corpus and ranks sections against a keyword
// list. The scoring constants are carried over from the original heuristic
// unchanged; they are empirical, not principled.
type Searcher struct {
	corpus *corpus.Corpus
	logger *zap.Logger
}

func New(c *corpus.Corpus, logger *zap.Logger) *Searcher {
	return &Searcher{corpus: c, logger: logger}
}

// Search scores every section against the keywords and returns the ranked
// matches. Sections with no signal at all are dropped, not ranked last.
// A non-empty requestedLawType pins sections of that code to the top of
// the ordering.
func (s *Searcher) Search(keywords []string, requestedLawType models.CodeType) []models.ScoredSection {
	lowerKeywords := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowerKeywords = append(lowerKeywords, kw)
		}
	}
	if len(lowerKeywords) == 0 {
		return nil
	}

	var results []models.ScoredSection
	for _, sec := range s.corpus.Sections() {
		if scored, ok := scoreSection(sec, lowerKeywords, requestedLawType); ok {
			results = append(results, scored)
		}
	}

	sortScored(results, requestedLawType)

	s.logger.Debug("section search finished",
		zap.Strings("keywords", lowerKeywords),
		zap.String("requested_law_type", string(requestedLawType)),
		zap.Int("matches", len(results)))

	return results
}

func scoreSection(sec models.LawSection, keywords []string, requested models.CodeType) (models.ScoredSection, bool) {
	score := 0
	hasMatch := false
	titleMatches := 0
	exactMatches := 0
	sectionNumberMatch := false

	titleLower := strings.ToLower(sec.Title)
	paragraphs := make([]string, len(sec.Content))
	for i, p := range sec.Content {
		paragraphs[i] = strings.ToLower(p)
	}
	contentLower := strings.Join(paragraphs, " ")

	// 1. Title matches carry the highest weight.
	for _, kw := range keywords {
		if !strings.Contains(titleLower, kw) {
			continue
		}
		hasMatch = true
		titleMatches++
		if titleLower == kw || strings.Contains(titleLower, "of "+kw) || strings.Contains(titleLower, kw+" of") {
			score += 30
			exactMatches++
		} else {
			score += 20
		}
		if strings.HasPrefix(titleLower, kw) || strings.HasSuffix(titleLower, kw) {
			score += 10
		}
	}

	// 2. Content matches, scanned per paragraph.
	for _, para := range paragraphs {
		for _, kw := range keywords {
			if !strings.Contains(para, kw) {
				continue
			}
			hasMatch = true
			score += 8

			occurrences := strings.Count(para, kw)
			if occurrences > 1 {
				bonus := occurrences * 3
				if bonus > 15 {
					bonus = 15
				}
				score += bonus
			}

			for _, important := range importanceVocab {
				if strings.Contains(para, important) {
					score += 12
					break
				}
			}
		}
	}

	// 3. Exact section-number references dominate everything but an
	// explicit law-type request.
	numberLower := strings.ToLower(sec.SectionNumber)
	for _, kw := range keywords {
		if numberLower == kw || "section "+numberLower == kw || strings.Contains(kw, numberLower) {
			score += 50
			hasMatch = true
			sectionNumberMatch = true
		}
	}

	// 4. Multi-keyword bonus, quadratic in the number of distinct
	// keywords that matched anywhere.
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(titleLower, kw) || strings.Contains(contentLower, kw) {
			matched = append(matched, kw)
		}
	}
	if len(matched) > 1 {
		score += len(matched) * len(matched) * 5
	}

	// 5. Chapter relevance.
	chapterLower := strings.ToLower(sec.ChapterTitle + " " + sec.ChapterName)
	for _, kw := range keywords {
		if strings.Contains(chapterLower, kw) {
			score += 5
			hasMatch = true
		}
	}

	// 6. Semantic expansion of known legal concepts.
	semantic := semanticMatches(keywords, titleLower+" "+contentLower)
	score += semantic * 3
	if semantic > 0 {
		hasMatch = true
	}

	// 7. Law-type preference: a flat current-law nudge by default, or a
	// dominating override when the caller asked for a specific code.
	if requested == "" {
		if sec.IsCurrentLaw {
			score += 5
		}
	} else if sec.CodeType == requested {
		score += 100
	}

	if !hasMatch {
		return models.ScoredSection{}, false
	}

	confidence, matchType := classifyMatch(score, keywords, contentLower, titleMatches, exactMatches, sectionNumberMatch)

	return models.ScoredSection{
		Section:         sec,
		RelevanceScore:  score,
		ConfidenceLevel: confidence,
		MatchType:       matchType,
		MatchedKeywords: matched,
	}, true
}

// classifyMatch buckets the raw score into the three confidence tiers and
// derives the dominant match type. Exact and section-number hits force
// high confidence regardless of the numeric score.
func classifyMatch(score int, keywords []string, contentLower string, titleMatches, exactMatches int, sectionNumberMatch bool) (models.ConfidenceLevel, models.MatchType) {
	confidence := models.ConfidenceLow
	if score >= 60 {
		confidence = models.ConfidenceHigh
	} else if score >= 30 {
		confidence = models.ConfidenceMedium
	}

	switch {
	case sectionNumberMatch || exactMatches > 0:
		return models.ConfidenceHigh, models.MatchExact
	case isPunishmentMatch(keywords, contentLower):
		return models.ConfidenceHigh, models.MatchPunishment
	case titleMatches > 0:
		if confidence == models.ConfidenceLow {
			confidence = models.ConfidenceMedium
		}
		return confidence, models.MatchTitle
	default:
		return confidence, models.MatchContent
	}
}

func isPunishmentMatch(keywords []string, contentLower string) bool {
	keywordIsPunishment := false
	for _, kw := range keywords {
		for _, term := range punishmentTerms {
			if kw == term {
				keywordIsPunishment = true
			}
		}
	}
	if !keywordIsPunishment {
		return false
	}
	for _, term := range punishmentTerms {
		if strings.Contains(contentLower, term) {
			return true
		}
	}
	return false
}

// sortScored orders results: explicitly requested code first, then by
// descending score, except that scores within 5 points of each other are
// treated as ties and broken by law recency.
func sortScored(results []models.ScoredSection, requested models.CodeType) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]

		if requested != "" {
			aReq := a.Section.CodeType == requested
			bReq := b.Section.CodeType == requested
			if aReq != bReq {
				return aReq
			}
		}

		diff := a.RelevanceScore - b.RelevanceScore
		if diff > 5 || diff < -5 {
			return diff > 0
		}
		if a.Section.IsCurrentLaw != b.Section.IsCurrentLaw {
			return a.Section.IsCurrentLaw
		}
		return diff > 0
	})
}
