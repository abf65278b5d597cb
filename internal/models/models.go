package models

import (
	"strings"
	"time"
)

// CodeType identifies one statute book.
type CodeType string

const (
	CodeBNS  CodeType = "BNS"
	CodeBNSS CodeType = "BNSS"
	CodeBSA  CodeType = "BSA"
	CodeIPC  CodeType = "IPC"
	CodeCrPC CodeType = "CrPC"
	CodeIEA  CodeType = "IEA"
)

// ParseCodeType maps free-form model output onto a known code identifier.
func ParseCodeType(s string) (CodeType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BNS":
		return CodeBNS, true
	case "BNSS":
		return CodeBNSS, true
	case "BSA":
		return CodeBSA, true
	case "IPC":
		return CodeIPC, true
	case "CRPC":
		return CodeCrPC, true
	case "IEA":
		return CodeIEA, true
	}
	return "", false
}

// IsCurrent reports whether the code belongs to the 2023 statutes that
// replaced the colonial-era ones.
func (c CodeType) IsCurrent() bool {
	switch c {
	case CodeBNS, CodeBNSS, CodeBSA:
		return true
	}
	return false
}

func (c CodeType) FullName() string {
	switch c {
	case CodeBNS:
		return "Bharatiya Nyaya Sanhita (BNS)"
	case CodeBNSS:
		return "Bharatiya Nagarik Suraksha Sanhita (BNSS)"
	case CodeBSA:
		return "Bharatiya Sakshya Adhiniyam (BSA)"
	case CodeIPC:
		return "Indian Penal Code (IPC)"
	case CodeCrPC:
		return "Code of Criminal Procedure (CrPC)"
	case CodeIEA:
		return "Indian Evidence Act (IEA)"
	}
	return string(c)
}

// Counterpart returns the statute that replaces this code, or that this
// code replaced: BNS and IPC, BNSS and CrPC, BSA and IEA.
func (c CodeType) Counterpart() CodeType {
	switch c {
	case CodeBNS:
		return CodeIPC
	case CodeIPC:
		return CodeBNS
	case CodeBNSS:
		return CodeCrPC
	case CodeCrPC:
		return CodeBNSS
	case CodeBSA:
		return CodeIEA
	case CodeIEA:
		return CodeBSA
	}
	return ""
}

// LawSection is one statutory provision, normalized from either corpus
// file shape at load time and immutable afterwards.
type LawSection struct {
	SectionNumber string   `json:"section_number"`
	Title         string   `json:"section_title"`
	Content       []string `json:"content"`
	ChapterTitle  string   `json:"chapter_title"`
	ChapterName   string   `json:"chapter_name,omitempty"`
	CodeType      CodeType `json:"code_type"`
	IsCurrentLaw  bool     `json:"is_current_law"`
}

// FullContent joins the content paragraphs into one body of text.
func (s LawSection) FullContent() string {
	return strings.Join(s.Content, " ")
}

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

type MatchType string

const (
	MatchExact      MatchType = "exact"
	MatchTitle      MatchType = "title"
	MatchContent    MatchType = "content"
	MatchPunishment MatchType = "punishment"
)

// ScoredSection annotates a LawSection with one search run's scoring
// output. Created fresh per query and discarded after composition.
type ScoredSection struct {
	Section         LawSection      `json:"section"`
	RelevanceScore  int             `json:"relevance_score"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	MatchType       MatchType       `json:"match_type"`
	MatchedKeywords []string        `json:"matched_keywords"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message. Immutable once created; conversations
// only ever append.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category is the coarse classification of a user query.
type Category string

const (
	CategoryLegal   Category = "legal"
	CategoryGeneral Category = "general"
	CategoryMixed   Category = "mixed"
)

// Intent is the optional finer classification of what the user wants.
type Intent string

const (
	IntentDefinition  Intent = "definition"
	IntentProcedure   Intent = "procedure"
	IntentComparison  Intent = "comparison"
	IntentExplanation Intent = "explanation"
)

// QueryAnalysis is the keyword extractor's result. LawType and Intent are
// empty when the model did not detect them.
type QueryAnalysis struct {
	Keywords []string `json:"keywords"`
	Category Category `json:"category"`
	LawType  CodeType `json:"law_type,omitempty"`
	Intent   Intent   `json:"intent,omitempty"`
}

type DocumentType string

const (
	DocumentComplaint DocumentType = "complaint"
	DocumentFIR       DocumentType = "fir"
	DocumentLegal     DocumentType = "legal_document"
	DocumentOther     DocumentType = "other"
)

type DocumentMetadata struct {
	Type       DocumentType `json:"type"`
	Title      string       `json:"title"`
	Date       string       `json:"date,omitempty"`
	CaseNumber string       `json:"case_number,omitempty"`
	Sections   []string     `json:"sections,omitempty"`
	Keywords   []string     `json:"keywords,omitempty"`
}

// ProcessedDocument is an uploaded file after text extraction and
// metadata analysis. At most one is active per conversation; it is
// replaced or cleared wholesale, never partially mutated.
type ProcessedDocument struct {
	ID         string           `json:"id"`
	Content    string           `json:"content"`
	Metadata   DocumentMetadata `json:"metadata"`
	FileName   string           `json:"file_name"`
	FileSize   int64            `json:"file_size"`
	UploadedAt time.Time        `json:"uploaded_at"`
}
