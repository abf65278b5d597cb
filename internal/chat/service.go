package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackryan100123/nyaya-sahayak/internal/models"
	"github.com/jackryan100123/nyaya-sahayak/internal/storage"
	"go.uber.org/zap"
)

var ErrEmptyMessage = errors.New("chat: message is empty")

const welcomeText = `⚖️ **Welcome to Legal Assistant!**

I can help you with questions about Indian laws: the Bharatiya Nyaya Sanhita (BNS), Bharatiya Nagarik Suraksha Sanhita (BNSS) and Bharatiya Sakshya Adhiniyam (BSA), along with the earlier IPC, CrPC and Indian Evidence Act. I can also answer general questions on any topic.

**Examples of what you can ask:**
- "What is section 103 of BNS?"
- "What is murder under BNS?"
- "Compare murder in BNS and IPC"
- "How do I file an FIR?"
- "Tell me about theft"
- "When can police arrest without a warrant?"
- "What is artificial intelligence?"

Please ask your question!`

const systemErrorText = `❌ **System Error**

Sorry, there was an unexpected error processing your request. Please try again. If the problem persists, please contact support.`

// Service is the conversation state machine: welcome synthesis, optimistic
// user append, single-request-in-flight guard, and reply routing.
type Service struct {
	storage storage.Storage
	router  *Router
	logger  *zap.Logger
}

func NewService(store storage.Storage, router *Router, logger *zap.Logger) *Service {
	return &Service{
		storage: store,
		router:  router,
		logger:  logger,
	}
}

func welcomeMessage() models.Message {
	return models.Message{
		ID:        uuid.New().String(),
		Content:   welcomeText,
		Role:      models.RoleAssistant,
		Timestamp: time.Now(),
	}
}

func assistantMessage(content string) models.Message {
	return models.Message{
		ID:        uuid.New().String(),
		Content:   content,
		Role:      models.RoleAssistant,
		Timestamp: time.Now(),
	}
}

// CreateConversation starts a conversation holding only the welcome
// message.
func (s *Service) CreateConversation() models.Conversation {
	return s.storage.Create(welcomeMessage())
}

func (s *Service) Conversation(id string) (models.Conversation, bool) {
	return s.storage.Get(id)
}

// SendMessage appends the user message, routes the query and appends the
// reply. While a request is in flight a second send returns
// storage.ErrConversationBusy and leaves the conversation untouched.
func (s *Service) SendMessage(ctx context.Context, id, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, ErrEmptyMessage
	}

	userMsg := models.Message{
		ID:        uuid.New().String(),
		Content:   content,
		Role:      models.RoleUser,
		Timestamp: time.Now(),
	}

	generation, err := s.storage.BeginRequest(id, userMsg)
	if err != nil {
		return models.Message{}, err
	}

	conv, _ := s.storage.Get(id)
	history := conv.Messages
	if n := len(history); n > 0 && history[n-1].ID == userMsg.ID {
		history = history[:n-1]
	}
	doc, _ := s.storage.Document(id)

	reply := s.routeGuarded(ctx, QueryInput{Query: content, History: history, Document: doc})

	replyMsg := assistantMessage(reply)
	if err := s.storage.FinishRequest(id, generation, replyMsg); err != nil {
		return models.Message{}, err
	}
	return replyMsg, nil
}

// routeGuarded converts any panic below the router into the fixed
// assistant error message; the exception never reaches the UI.
func (s *Service) routeGuarded(ctx context.Context, in QueryInput) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("query processing panicked", zap.Any("panic", rec))
			reply = systemErrorText
		}
	}()
	return s.router.Route(ctx, in)
}

// ClearConversation resets the message list to a fresh welcome message and
// drops the active document. The conversation keeps its id.
func (s *Service) ClearConversation(id string) (models.Conversation, error) {
	return s.storage.Reset(id, welcomeMessage())
}

// AttachDocument stores the processed document on the conversation and
// appends a single assistant message summarizing the upload.
func (s *Service) AttachDocument(id string, doc *models.ProcessedDocument) (models.Message, error) {
	if err := s.storage.SetDocument(id, doc); err != nil {
		return models.Message{}, err
	}

	msg := assistantMessage(documentSummary(doc))
	if err := s.storage.AppendAssistant(id, msg); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// Document returns the conversation's active document, if any.
func (s *Service) Document(id string) (*models.ProcessedDocument, bool) {
	return s.storage.Document(id)
}

func documentSummary(doc *models.ProcessedDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📄 **Document processed: %s**\n\n", doc.Metadata.Title)
	fmt.Fprintf(&b, "- Type: %s\n", doc.Metadata.Type)
	if doc.Metadata.Date != "" {
		fmt.Fprintf(&b, "- Date: %s\n", doc.Metadata.Date)
	}
	if doc.Metadata.CaseNumber != "" {
		fmt.Fprintf(&b, "- Case number: %s\n", doc.Metadata.CaseNumber)
	}
	if len(doc.Metadata.Sections) > 0 {
		fmt.Fprintf(&b, "- Sections referenced: %s\n", strings.Join(doc.Metadata.Sections, ", "))
	}
	if len(doc.Metadata.Keywords) > 0 {
		fmt.Fprintf(&b, "- Keywords: %s\n", strings.Join(doc.Metadata.Keywords, ", "))
	}
	b.WriteString("\nYou can now ask questions about this document; I will use it as context.")
	return b.String()
}
