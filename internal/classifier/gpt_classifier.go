package classifier

import (
	"context"
	"strings"

	"github.com/jackryan100123/nyaya-sahayak/internal/llm"
	"github.com/jackryan100123/nyaya-sahayak/internal/models"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const extractionPrompt = `You are a tool that extracts only direct keywords or section numbers present in the user input that are related to Indian law.

Extract keywords for:
- BNS (Bharatiya Nyaya Sanhita), BNSS (Bharatiya Nagarik Suraksha Sanhita), BSA (Bharatiya Sakshya Adhiniyam) and the superseded IPC, CrPC, IEA
- Legal terms like: murder, theft, assault, rape, kidnapping, cheating, defamation, etc.
- Legal procedures: FIR, arrest, warrant, bail, detention, remand, etc.
- Section numbers: "Section 101", "BNS 103", "IPC 302", etc.
- Legal concepts: punishment, penalty, imprisonment, fine, etc.

Classify the query:
- "category": "legal" if the query is only about law, "general" if it has no legal content (casual chat, greetings, general questions), "mixed" if both
- "lawType": the specific code if the user names one (BNS, BNSS, BSA, IPC, CrPC, IEA), omit otherwise
- "intent": one of "definition", "procedure", "comparison", "explanation" if clear, omit otherwise

Output a JSON object like:
{ "keywords": ["sedition", "Section 101", "murder"], "category": "legal", "lawType": "BNS", "intent": "definition" }
and nothing else.

If the user query has NO legal keywords or sections, return:
{ "keywords": [], "category": "general" }

Never add anything not explicitly in the user's input. No guessing, no interpretation.`

type extractionReply struct {
	Keywords []string `json:"keywords"`
	Category string   `json:"category"`
	LawType  string   `json:"lawType"`
	Intent   string   `json:"intent"`
}

// GPTExtractor delegates query classification to a remote model with a
// fixed instruction prompt demanding strict JSON. It never returns an
// error: every failure collapses into the neutral analysis.
type GPTExtractor struct {
	client      *llm.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

func NewGPTExtractor(client *llm.Client, model string, logger *zap.Logger) *GPTExtractor {
	return &GPTExtractor{
		client:    client,
		model:     model,
		maxTokens: 60,
		logger:    logger,
	}
}

func (e *GPTExtractor) Extract(ctx context.Context, query string) models.QueryAnalysis {
	reply, err := e.client.Complete(ctx, llm.Request{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		e.logger.Warn("keyword extraction failed, falling back to general", zap.Error(err))
		return NeutralAnalysis()
	}

	var parsed extractionReply
	if err := llm.DecodeJSON(reply, &parsed); err != nil {
		e.logger.Warn("keyword extraction reply not parseable",
			zap.Error(err),
			zap.String("reply", reply))
		return NeutralAnalysis()
	}
	if parsed.Keywords == nil {
		e.logger.Warn("keyword extraction reply missing keywords field",
			zap.String("reply", reply))
		return NeutralAnalysis()
	}

	analysis := models.QueryAnalysis{
		Keywords: parsed.Keywords,
		Category: parseCategory(parsed.Category),
	}
	if lawType, ok := models.ParseCodeType(parsed.LawType); ok {
		analysis.LawType = lawType
	}
	analysis.Intent = parseIntent(parsed.Intent)

	return analysis
}

func parseCategory(s string) models.Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legal":
		return models.CategoryLegal
	case "mixed":
		return models.CategoryMixed
	default:
		return models.CategoryGeneral
	}
}

func parseIntent(s string) models.Intent {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "definition":
		return models.IntentDefinition
	case "procedure":
		return models.IntentProcedure
	case "comparison":
		return models.IntentComparison
	case "explanation":
		return models.IntentExplanation
	default:
		return ""
	}
}
