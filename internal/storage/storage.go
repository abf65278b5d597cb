package storage

import (
	"errors"

	"github.com/jackryan100123/nyaya-sahayak/internal/models"
)

var (
	ErrConversationNotFound = errors.New("storage: conversation not found")

	// ErrConversationBusy guards re-entrancy: only one request may be in
	// flight per conversation; a second send is dropped, not queued.
	ErrConversationBusy = errors.New("storage: a request is already in flight")
)

// Storage owns all session state: the ordered message sequence and the
// single optional active document of each conversation. Nothing here is
// ever persisted; the store lives and dies with the process.
type Storage interface {
	// Create starts a conversation seeded with the welcome message.
	Create(welcome models.Message) models.Conversation

	// Get returns a snapshot of the conversation.
	Get(id string) (models.Conversation, bool)

	// Document returns the active document, if any.
	Document(id string) (*models.ProcessedDocument, bool)

	// BeginRequest appends the user message, marks the conversation
	// loading and returns its current generation. Returns
	// ErrConversationBusy while a request is in flight.
	BeginRequest(id string, userMsg models.Message) (uint64, error)

	// FinishRequest clears the loading flag and appends the reply,
	// unless the generation is stale (the conversation was cleared while
	// the request ran) in which case the reply is dropped.
	FinishRequest(id string, generation uint64, reply models.Message) error

	// Reset replaces all messages with a fresh welcome message, clears
	// the document and bumps the generation. The conversation id is
	// unchanged.
	Reset(id string, welcome models.Message) (models.Conversation, error)

	// SetDocument attaches or replaces the active document.
	SetDocument(id string, doc *models.ProcessedDocument) error

	// AppendAssistant appends an assistant message outside a request
	// cycle (the upload summary).
	AppendAssistant(id string, msg models.Message) error

	Close() error
}
