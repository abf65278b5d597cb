package storage

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackryan100123/nyaya-sahayak/internal/models"
)

const defaultTitle = "New Conversation"

// session is one conversation's private state. The generation counter
// increments on every reset so that a reply arriving after a clear can be
// recognized as stale and dropped.
type session struct {
	conv       models.Conversation
	document   *models.ProcessedDocument
	loading    bool
	generation uint64
}

type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[string]*session),
	}
}

func (s *MemoryStorage) Create(welcome models.Message) models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	conv := models.Conversation{
		ID:        uuid.New().String(),
		Title:     defaultTitle,
		Messages:  []models.Message{welcome},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[conv.ID] = &session{conv: conv}
	return snapshot(conv)
}

func (s *MemoryStorage) Get(id string) (models.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return models.Conversation{}, false
	}
	return snapshot(sess.conv), true
}

func (s *MemoryStorage) Document(id string) (*models.ProcessedDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || sess.document == nil {
		return nil, false
	}
	doc := *sess.document
	return &doc, true
}

func (s *MemoryStorage) BeginRequest(id string, userMsg models.Message) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return 0, ErrConversationNotFound
	}
	if sess.loading {
		return 0, ErrConversationBusy
	}

	sess.loading = true
	sess.conv.Messages = append(sess.conv.Messages, userMsg)
	sess.conv.UpdatedAt = time.Now()
	if sess.conv.Title == defaultTitle {
		sess.conv.Title = deriveTitle(userMsg.Content)
	}
	return sess.generation, nil
}

func (s *MemoryStorage) FinishRequest(id string, generation uint64, reply models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrConversationNotFound
	}
	sess.loading = false
	if sess.generation != generation {
		// The conversation was cleared while this request was running.
		return nil
	}
	sess.conv.Messages = append(sess.conv.Messages, reply)
	sess.conv.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStorage) Reset(id string, welcome models.Message) (models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return models.Conversation{}, ErrConversationNotFound
	}
	sess.conv.Messages = []models.Message{welcome}
	sess.conv.UpdatedAt = time.Now()
	sess.document = nil
	sess.generation++
	return snapshot(sess.conv), nil
}

func (s *MemoryStorage) SetDocument(id string, doc *models.ProcessedDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrConversationNotFound
	}
	sess.document = doc
	sess.conv.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStorage) AppendAssistant(id string, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrConversationNotFound
	}
	sess.conv.Messages = append(sess.conv.Messages, msg)
	sess.conv.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

// snapshot copies the conversation so callers never share the live
// message slice.
func snapshot(conv models.Conversation) models.Conversation {
	out := conv
	out.Messages = make([]models.Message, len(conv.Messages))
	copy(out.Messages, conv.Messages)
	return out
}

const titleMaxRunes = 40

func deriveTitle(content string) string {
	title := strings.Join(strings.Fields(content), " ")
	runes := []rune(title)
	if len(runes) > titleMaxRunes {
		title = string(runes[:titleMaxRunes]) + "..."
	}
	if title == "" {
		return defaultTitle
	}
	return title
}
