package document

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackryan100123/nyaya-sahayak/internal/llm"
	"github.com/jackryan100123/nyaya-sahayak/internal/models"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var (
	// ErrUnsupportedFileType covers both genuinely unknown types and PDF,
	// whose text extraction is not implemented.
	ErrUnsupportedFileType = errors.New("document: unsupported file type")
	ErrFileTooLarge        = errors.New("document: file exceeds the size limit")
	ErrEmptyDocument       = errors.New("document: file contains no text")
)

// allowedMIMETypes are the plain-text formats the analyzer can read
// directly.
var allowedMIMETypes = map[string]bool{
	"text/plain":    true,
	"text/markdown": true,
}

const classifyPrompt = `You are a legal document analyzer. Analyze the provided text and extract:
1. Document type: one of "complaint", "fir", "legal_document", "other"
2. Document title
3. Case or FIR number if present
4. Relevant statute sections or articles mentioned
5. Key dates
6. Keywords describing the main subject matter

Format the response as a JSON object with the following structure:
{
  "type": "complaint|fir|legal_document|other",
  "title": "document title",
  "caseNumber": "case number if available",
  "sections": ["section1", "section2"],
  "date": "document date if available",
  "keywords": ["keyword1", "keyword2"]
}
and nothing else.`

type classifyReply struct {
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	CaseNumber string   `json:"caseNumber"`
	Sections   []string `json:"sections"`
	Date       string   `json:"date"`
	Keywords   []string `json:"keywords"`
}

// Analyzer turns an uploaded file into a ProcessedDocument: extracted
// text plus metadata from the remote model, or keyword-derived metadata
// when the model is unreachable.
type Analyzer struct {
	client   *llm.Client
	model    string
	maxBytes int64
	logger   *zap.Logger
}

func NewAnalyzer(client *llm.Client, model string, maxBytes int64, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		client:   client,
		model:    model,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Process validates the upload, extracts its text and derives metadata.
// Validation failures are synchronous typed errors; metadata analysis is
// fail-open.
func (a *Analyzer) Process(ctx context.Context, fileName, mimeType string, data []byte) (*models.ProcessedDocument, error) {
	mime := strings.TrimSpace(strings.ToLower(mimeType))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	if mime == "application/pdf" {
		// Text extraction for PDF is deliberately not implemented; the
		// UI asks users to paste or convert the text instead.
		return nil, fmt.Errorf("%w: PDF text extraction is not supported, upload a text file", ErrUnsupportedFileType)
	}
	if !allowedMIMETypes[mime] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, mime)
	}
	if a.maxBytes > 0 && int64(len(data)) > a.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(data), a.maxBytes)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, ErrEmptyDocument
	}

	metadata := a.classify(ctx, fileName, text)

	return &models.ProcessedDocument{
		ID:         uuid.New().String(),
		Content:    text,
		Metadata:   metadata,
		FileName:   fileName,
		FileSize:   int64(len(data)),
		UploadedAt: time.Now(),
	}, nil
}

func (a *Analyzer) classify(ctx context.Context, fileName, text string) models.DocumentMetadata {
	reply, err := a.client.Complete(ctx, llm.Request{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifyPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   500,
		Temperature: 0.1,
	})
	if err != nil {
		a.logger.Warn("document classification failed, deriving metadata locally", zap.Error(err))
		return keywordMetadata(fileName, text)
	}

	var parsed classifyReply
	if err := llm.DecodeJSON(reply, &parsed); err != nil {
		a.logger.Warn("document classification reply not parseable",
			zap.Error(err),
			zap.String("reply", reply))
		return keywordMetadata(fileName, text)
	}

	meta := models.DocumentMetadata{
		Type:       parseDocumentType(parsed.Type),
		Title:      parsed.Title,
		Date:       parsed.Date,
		CaseNumber: parsed.CaseNumber,
		Sections:   parsed.Sections,
		Keywords:   parsed.Keywords,
	}
	if meta.Title == "" {
		meta.Title = titleFromFileName(fileName)
	}
	return meta
}

func parseDocumentType(s string) models.DocumentType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "complaint":
		return models.DocumentComplaint
	case "fir":
		return models.DocumentFIR
	case "legal_document", "law", "legal":
		return models.DocumentLegal
	default:
		return models.DocumentOther
	}
}

var sectionRefPattern = regexp.MustCompile(`(?i)section\s+(\d+[A-Z]?)`)

// legalTermVocab is the vocabulary scanned for keyword-derived metadata.
var legalTermVocab = []string{
	"murder", "theft", "assault", "rape", "kidnapping", "cheating",
	"defamation", "robbery", "fraud", "dowry", "arrest", "bail",
	"warrant", "investigation", "evidence", "confession", "punishment",
}

// keywordMetadata is the local fallback: document type from marker
// phrases, sections from a regex scan, keywords from a fixed legal
// vocabulary.
func keywordMetadata(fileName, text string) models.DocumentMetadata {
	lower := strings.ToLower(text)

	docType := models.DocumentOther
	switch {
	case strings.Contains(lower, "first information report") || strings.Contains(lower, "f.i.r") || regexp.MustCompile(`\bfir\b`).MatchString(lower):
		docType = models.DocumentFIR
	case strings.Contains(lower, "complainant") || strings.Contains(lower, "complaint"):
		docType = models.DocumentComplaint
	case strings.Contains(lower, "section") || strings.Contains(lower, "court") || strings.Contains(lower, "notice") || strings.Contains(lower, "act"):
		docType = models.DocumentLegal
	}

	var sections []string
	seen := map[string]bool{}
	for _, m := range sectionRefPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			sections = append(sections, m[1])
		}
	}

	var keywords []string
	for _, term := range legalTermVocab {
		if strings.Contains(lower, term) {
			keywords = append(keywords, term)
		}
	}

	return models.DocumentMetadata{
		Type:     docType,
		Title:    titleFromFileName(fileName),
		Sections: sections,
		Keywords: keywords,
	}
}

func titleFromFileName(fileName string) string {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.TrimSpace(base)
	if base == "" {
		return "Uploaded document"
	}
	return base
}
