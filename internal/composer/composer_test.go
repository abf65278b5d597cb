package composer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackryan100123/nyaya-sahayak/internal/language"
	"github.com/jackryan100123/nyaya-sahayak/internal/llm"
	"github.com/jackryan100123/nyaya-sahayak/internal/models"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func composerWithReply(t *testing.T, status int, content string) *Composer {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	// A zero token budget disables the tiktoken trim loop, which needs
	// encoding data not present in the test environment.
	return New(llm.NewClient("test-key", srv.URL, zap.NewNop()), "test-model", 15, 0, zap.NewNop())
}

func testSections() []models.ScoredSection {
	return []models.ScoredSection{
		{
			Section: models.LawSection{
				SectionNumber: "103",
				Title:         "Punishment for murder",
				Content:       []string{"Whoever commits murder shall be punished with death or imprisonment for life, and shall also be liable to fine."},
				ChapterTitle:  "Chapter VI",
				ChapterName:   "Of Offences Affecting the Human Body",
				CodeType:      models.CodeBNS,
				IsCurrentLaw:  true,
			},
			RelevanceScore:  128,
			ConfidenceLevel: models.ConfidenceHigh,
			MatchType:       models.MatchExact,
			MatchedKeywords: []string{"murder"},
		},
		{
			Section: models.LawSection{
				SectionNumber: "101",
				Title:         "Murder",
				Content:       []string{"Except in the cases hereinafter excepted, culpable homicide is murder."},
				ChapterTitle:  "Chapter VI",
				CodeType:      models.CodeBNS,
				IsCurrentLaw:  true,
			},
			RelevanceScore:  85,
			ConfidenceLevel: models.ConfidenceHigh,
			MatchType:       models.MatchExact,
			MatchedKeywords: []string{"murder"},
		},
		{
			Section: models.LawSection{
				SectionNumber: "302",
				Title:         "Punishment for murder",
				Content:       []string{"Whoever commits murder shall be punished with death, or imprisonment for life, and shall also be liable to fine."},
				ChapterTitle:  "Chapter XVI",
				CodeType:      models.CodeIPC,
				IsCurrentLaw:  false,
			},
			RelevanceScore:  42,
			ConfidenceLevel: models.ConfidenceMedium,
			MatchType:       models.MatchTitle,
			MatchedKeywords: []string{"murder"},
		},
	}
}

func TestComposeLegalAppendsFooterToModelAnswer(t *testing.T) {
	c := composerWithReply(t, http.StatusOK, "MODEL ANSWER")

	out := c.ComposeLegal(context.Background(), LegalInput{
		Query:    "punishment for murder",
		Sections: testSections(),
		Keywords: []string{"murder"},
		Language: language.English,
	})

	assert.Contains(t, out, "MODEL ANSWER")
	assert.Contains(t, out, "Legal Analysis")
	assert.Contains(t, out, "Found 3 matching sections")
	assert.Contains(t, out, "2 current-law sections and 1 superseded-law sections")
	assert.Contains(t, out, "2 high-confidence matches")
}

func TestComposeLegalFallsBackOnRemoteFailure(t *testing.T) {
	c := composerWithReply(t, http.StatusInternalServerError, "")

	out := c.ComposeLegal(context.Background(), LegalInput{
		Query:    "punishment for murder",
		Sections: testSections(),
		Keywords: []string{"murder"},
		Language: language.English,
	})

	assert.Contains(t, out, "Legal Search Results")
	assert.Contains(t, out, "Current Law (BNS/BNSS/BSA)")
	assert.Contains(t, out, "Previous Law (IPC/CrPC/IEA)")
	assert.Contains(t, out, "BNS Section 103")
	assert.Contains(t, out, "IPC Section 302")
	assert.Contains(t, out, "Punishment for murder")
	// The footer is appended on the fallback path too.
	assert.Contains(t, out, "Legal Analysis")
}

func TestComposeLegalWithoutCredentialUsesFallback(t *testing.T) {
	c := New(llm.NewClient("", "http://localhost:1", zap.NewNop()), "test-model", 15, 0, zap.NewNop())

	out := c.ComposeLegal(context.Background(), LegalInput{
		Query:    "theft",
		Sections: testSections()[:1],
		Language: language.English,
	})
	assert.Contains(t, out, "Legal Search Results")
	assert.Contains(t, out, "BNS Section 103")
}

func TestFormatSectionsFallbackEmpty(t *testing.T) {
	out := FormatSectionsFallback(nil, language.English)
	assert.Equal(t, "No matching sections were found in the statute database.", out)
}

func TestFormatSectionsFallbackTruncatesContent(t *testing.T) {
	long := strings.Repeat("x", 450)
	sections := []models.ScoredSection{{
		Section: models.LawSection{
			SectionNumber: "1",
			Title:         "Long provision",
			Content:       []string{long},
			CodeType:      models.CodeBNS,
			IsCurrentLaw:  true,
		},
		ConfidenceLevel: models.ConfidenceLow,
	}}

	out := FormatSectionsFallback(sections, language.English)
	assert.Contains(t, out, strings.Repeat("x", 300)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 301))
}

func TestFormatSectionsFallbackCapsListedSections(t *testing.T) {
	var sections []models.ScoredSection
	for i := 0; i < 12; i++ {
		sections = append(sections, testSections()[0])
	}

	out := FormatSectionsFallback(sections, language.English)
	assert.Contains(t, out, "Found 12 total sections")
	assert.Contains(t, out, "Showing top 10 most relevant")
}

func TestFormatSectionsFallbackLocalizedHeadings(t *testing.T) {
	out := FormatSectionsFallback(testSections(), language.Hindi)
	assert.Contains(t, out, "कानूनी खोज परिणाम")
	assert.Contains(t, out, "शीर्षक")

	out = FormatSectionsFallback(testSections(), language.Punjabi)
	assert.Contains(t, out, "ਕਾਨੂੰਨੀ ਖੋਜ ਨਤੀਜੇ")

	// Unknown languages fall back to the English headings.
	out = FormatSectionsFallback(testSections(), language.Language("fr"))
	assert.Contains(t, out, "Legal Search Results")
}

func TestComposeGeneral(t *testing.T) {
	c := composerWithReply(t, http.StatusOK, "General knowledge answer.")

	out, err := c.ComposeGeneral(context.Background(), "how do I renew my passport?", []models.Message{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi, how can I help?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "General knowledge answer.", out)
	assert.NotContains(t, out, "Legal Analysis", "general answers carry no legal footer")
}

func TestComposeGeneralPropagatesError(t *testing.T) {
	c := composerWithReply(t, http.StatusInternalServerError, "")
	_, err := c.ComposeGeneral(context.Background(), "hello", nil)
	assert.Error(t, err)
}

func TestAnalysisFooterConfidenceBranches(t *testing.T) {
	withHigh := analysisFooter(testSections(), 3, language.English)
	assert.Contains(t, withHigh, "2 high-confidence matches")
	assert.Contains(t, withHigh, "1 medium-confidence matches")
	assert.Contains(t, withHigh, "Both current and superseded provisions analyzed.")

	mediumOnly := analysisFooter(testSections()[2:], 1, language.English)
	assert.Contains(t, mediumOnly, "1 medium-confidence matches found")
	assert.Contains(t, mediumOnly, "superseded-law provisions only")

	lowOnly := analysisFooter([]models.ScoredSection{{
		Section:         models.LawSection{CodeType: models.CodeBNS, IsCurrentLaw: true},
		ConfidenceLevel: models.ConfidenceLow,
	}}, 1, language.English)
	assert.Contains(t, lowOnly, "Showing top 1 most relevant sections")
	assert.Contains(t, lowOnly, "current-law provisions only")
}
