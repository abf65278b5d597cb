package composer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/jackryan100123/nyaya-sahayak/internal/language"
	"github.com/jackryan100123/nyaya-sahayak/internal/llm"
	"github.com/jackryan100123/nyaya-sahayak/internal/models"
	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	legalMaxTokens   = 1500
	generalMaxTokens = 1200

	// minContextSections is the floor below which the token-budget trim
	// stops cutting; the remote model needs at least a few sections to
	// cite.
	minContextSections = 3

	// historyWindow bounds how much conversation history the general
	// path folds into the prompt.
	historyWindow = 10
)

// Composer turns ranked sections and conversation context into the final
// response text. Remote failures never escape the legal path: they land in
// the deterministic local formatter.
type Composer struct {
	client          *llm.Client
	model           string
	maxSections     int
	maxPromptTokens int
	logger          *zap.Logger

	encoderOnce sync.Once
	encoder     *tiktoken.Tiktoken
}

func New(client *llm.Client, model string, maxSections, maxPromptTokens int, logger *zap.Logger) *Composer {
	if maxSections <= 0 {
		maxSections = 15
	}
	return &Composer{
		client:          client,
		model:           model,
		maxSections:     maxSections,
		maxPromptTokens: maxPromptTokens,
		logger:          logger,
	}
}

// LegalInput carries everything the legal path needs. Sections must
// already be ranked by the searcher.
type LegalInput struct {
	Query    string
	Sections []models.ScoredSection
	Keywords []string
	History  []models.Message
	Analysis models.QueryAnalysis
	Document *models.ProcessedDocument
	Language language.Language
}

// sectionContext is the shape of one ranked section inside the prompt.
type sectionContext struct {
	RelevanceRank   int                    `json:"relevance_rank"`
	RelevanceScore  int                    `json:"relevance_score"`
	ConfidenceLevel models.ConfidenceLevel `json:"confidence_level"`
	MatchType       models.MatchType       `json:"match_type"`
	LawType         models.CodeType        `json:"law_type"`
	LawName         string                 `json:"law_name"`
	Chapter         string                 `json:"chapter"`
	SectionNumber   string                 `json:"section_number"`
	SectionTitle    string                 `json:"section_title"`
	Content         string                 `json:"content"`
	KeywordMatches  []string               `json:"keyword_matches"`
}

// ComposeLegal builds the legal prompt from at most the top sections,
// calls the model once, and appends the locally generated analysis footer.
// On any remote failure it returns the deterministic section listing
// instead, which reads only in-memory data and cannot itself fail.
func (c *Composer) ComposeLegal(ctx context.Context, in LegalInput) string {
	top := in.Sections
	if len(top) > c.maxSections {
		top = top[:c.maxSections]
	}

	system, user := c.buildLegalPrompt(in, top)
	for c.maxPromptTokens > 0 && len(top) > minContextSections {
		tokens := c.countTokens(system + user)
		if tokens < 0 || tokens <= c.maxPromptTokens {
			break
		}
		top = top[:len(top)-1]
		system, user = c.buildLegalPrompt(in, top)
	}

	if n := c.countTokens(system + user); n >= 0 {
		c.logger.Debug("legal prompt built",
			zap.Int("sections", len(top)),
			zap.Int("prompt_tokens", n))
	}

	footer := analysisFooter(in.Sections, len(top), in.Language)

	reply, err := c.client.Complete(ctx, llm.Request{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   legalMaxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		c.logger.Warn("legal composition failed, using deterministic fallback", zap.Error(err))
		return FormatSectionsFallback(in.Sections, in.Language) + "\n\n" + footer
	}

	return reply + "\n\n" + footer
}

func (c *Composer) buildLegalPrompt(in LegalInput, top []models.ScoredSection) (system, user string) {
	current := 0
	superseded := 0
	for _, s := range top {
		if s.Section.IsCurrentLaw {
			current++
		} else {
			superseded++
		}
	}

	h := headingsFor(in.Language)

	var sb strings.Builder
	sb.WriteString(`You are a legal assistant helping police and civic users understand Indian law: the Bharatiya Nyaya Sanhita (BNS), Bharatiya Nagarik Suraksha Sanhita (BNSS) and Bharatiya Sakshya Adhiniyam (BSA), together with the superseded Indian Penal Code (IPC), Code of Criminal Procedure (CrPC) and Indian Evidence Act (IEA).

CRITICAL INSTRUCTIONS:
`)
	fmt.Fprintf(&sb, "1. You have access to %d total matching sections from both current and superseded laws\n", len(in.Sections))
	fmt.Fprintf(&sb, "2. Current-law sections found: %d | Superseded-law sections found: %d\n", current, superseded)
	sb.WriteString("3. BNS, BNSS and BSA are the NEW laws (2023) that replace IPC, CrPC and IEA respectively\n")
	sb.WriteString("4. Always prioritize current-law sections as they apply now, but show the superseded law for comparison\n")
	sb.WriteString("5. Sections are ranked by relevance score and confidence level (high/medium/low)\n")
	sb.WriteString("6. Focus on HIGH confidence and TOP-RANKED sections that directly answer the question\n")
	if in.Analysis.LawType != "" {
		fmt.Fprintf(&sb, "7. The user explicitly asked about the %s; answer from that code first\n", in.Analysis.LawType.FullName())
	}
	if in.Analysis.Intent != "" {
		fmt.Fprintf(&sb, "The user's intent is: %s.\n", in.Analysis.Intent)
	}
	fmt.Fprintf(&sb, "The user writes in %s. Respond entirely in %s.\n", in.Language.DisplayName(), in.Language.DisplayName())

	sb.WriteString("\nRESPONSE STRUCTURE:\n")
	fmt.Fprintf(&sb, "🎯 **%s:** [Direct answer prioritizing current law but mentioning superseded-law changes]\n\n", h.Answer)
	fmt.Fprintf(&sb, "📖 **%s:** [Focus on BNS/BNSS/BSA sections - these are what apply now]\n\n", h.CurrentLaw)
	fmt.Fprintf(&sb, "⚖️ **%s:** [Show corresponding IPC/CrPC/IEA sections for comparison]\n\n", h.PreviousLaw)
	fmt.Fprintf(&sb, "🔄 **%s:** [Highlight major differences between the current and superseded provisions if both exist]\n\n", h.KeyChanges)
	fmt.Fprintf(&sb, "💡 **%s:** [What this means in simple terms, focusing on the current provisions]\n", h.Practical)
	sb.WriteString(`
COMPARISON GUIDELINES:
- If both current and superseded sections exist for the same topic, compare them
- Highlight section number changes (e.g., IPC 302 → BNS 103)
- Note any changes in punishment, definitions, or procedures
- Make it clear which law is currently applicable
- If only one law has relevant sections, mention that explicitly`)
	system = sb.String()

	data := make([]sectionContext, len(top))
	for i, s := range top {
		chapter := s.Section.ChapterTitle
		if s.Section.ChapterName != "" {
			chapter += " - " + s.Section.ChapterName
		}
		data[i] = sectionContext{
			RelevanceRank:   i + 1,
			RelevanceScore:  s.RelevanceScore,
			ConfidenceLevel: s.ConfidenceLevel,
			MatchType:       s.MatchType,
			LawType:         s.Section.CodeType,
			LawName:         s.Section.CodeType.FullName(),
			Chapter:         chapter,
			SectionNumber:   s.Section.SectionNumber,
			SectionTitle:    s.Section.Title,
			Content:         s.Section.FullContent(),
			KeywordMatches:  s.MatchedKeywords,
		}
	}
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		// Only unmarshalable types reach this branch; the context shape
		// above has none.
		encoded = []byte("[]")
	}

	var ub strings.Builder
	fmt.Fprintf(&ub, "User Query: %q\n\n", in.Query)
	fmt.Fprintf(&ub, "Keywords Found: %s\n\n", strings.Join(in.Keywords, ", "))
	fmt.Fprintf(&ub, "Total Matching Sections: %d\n", len(in.Sections))
	fmt.Fprintf(&ub, "Top Sections for Analysis: %d\n", len(top))
	if in.Document != nil {
		ub.WriteString("\nThe user has an active uploaded document; use it as context:\n")
		fmt.Fprintf(&ub, "Document Type: %s\nDocument Title: %s\n", in.Document.Metadata.Type, in.Document.Metadata.Title)
		if in.Document.Metadata.CaseNumber != "" {
			fmt.Fprintf(&ub, "Case Number: %s\n", in.Document.Metadata.CaseNumber)
		}
		if len(in.Document.Metadata.Sections) > 0 {
			fmt.Fprintf(&ub, "Sections Referenced in Document: %s\n", strings.Join(in.Document.Metadata.Sections, ", "))
		}
	}
	fmt.Fprintf(&ub, "\nRelevant Legal Sections (ordered by relevance and confidence):\n%s\n\n", encoded)
	ub.WriteString("Please analyze all provided sections, compare current and superseded law where applicable, and focus your response on the highest-confidence, most relevant ones that directly answer the user's question.")
	user = ub.String()

	return system, user
}

// ComposeGeneral answers non-legal queries with conversation history folded
// in. Citing specific statute sections is explicitly forbidden here; that
// is the searcher's job.
func (c *Composer) ComposeGeneral(ctx context.Context, query string, history []models.Message) (string, error) {
	messages := []openai.ChatCompletionMessage{{
		Role: openai.ChatMessageRoleSystem,
		Content: `You are a helpful assistant with knowledge of both general topics and Indian civic awareness.

Provide informative, accurate responses to user queries. If the question has any connection to Indian law, legal procedures, or civic matters, you can mention relevant general information but avoid citing specific legal sections (as those are handled separately).

Keep responses helpful, concise, and well-structured. Use a friendly and professional tone.`,
	}}

	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	for _, msg := range history[start:] {
		role := openai.ChatMessageRoleUser
		if msg.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: query})

	reply, err := c.client.Complete(ctx, llm.Request{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   generalMaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

// countTokens returns the tiktoken count of text, or -1 when the encoding
// is unavailable (offline first run); the budget check is skipped then.
func (c *Composer) countTokens(text string) int {
	c.encoderOnce.Do(func() {
		enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
		if err != nil {
			c.logger.Warn("token encoder unavailable, prompt budget disabled", zap.Error(err))
			return
		}
		c.encoder = enc
	})
	if c.encoder == nil {
		return -1
	}
	return len(c.encoder.Encode(text, nil, nil))
}
