package api

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackryan100123/nyaya-sahayak/internal/chat"
	"github.com/jackryan100123/nyaya-sahayak/internal/document"
	"github.com/jackryan100123/nyaya-sahayak/internal/storage"
	"go.uber.org/zap"
)

// ChatHandler exposes the conversation pipeline to the browser UI.
type ChatHandler struct {
	service  *chat.Service
	analyzer *document.Analyzer
	logger   *zap.Logger
}

func NewChatHandler(service *chat.Service, analyzer *document.Analyzer, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service:  service,
		analyzer: analyzer,
		logger:   logger,
	}
}

func (h *ChatHandler) HandleCreateConversation(c *fiber.Ctx) error {
	conv := h.service.CreateConversation()
	return c.Status(fiber.StatusCreated).JSON(conv)
}

func (h *ChatHandler) HandleGetConversation(c *fiber.Ctx) error {
	conv, ok := h.service.Conversation(c.Params("id"))
	if !ok {
		return ErrNotFound("conversation")
	}
	return c.JSON(conv)
}

func (h *ChatHandler) HandleSendMessage(c *fiber.Ctx) error {
	var params SendMessageParams
	if err := c.BodyParser(&params); err != nil {
		return ErrBadRequest("invalid JSON request")
	}
	if errs := params.Validate(); len(errs) > 0 {
		return NewValidationError(errs)
	}

	reply, err := h.service.SendMessage(c.Context(), c.Params("id"), params.Content)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return ErrBadRequest("message is empty")
	case errors.Is(err, storage.ErrConversationNotFound):
		return ErrNotFound("conversation")
	case errors.Is(err, storage.ErrConversationBusy):
		return ErrConflict("a request is already in flight for this conversation")
	case err != nil:
		return err
	}

	return c.JSON(reply)
}

func (h *ChatHandler) HandleClearConversation(c *fiber.Ctx) error {
	conv, err := h.service.ClearConversation(c.Params("id"))
	if errors.Is(err, storage.ErrConversationNotFound) {
		return ErrNotFound("conversation")
	} else if err != nil {
		return err
	}
	return c.JSON(conv)
}

func (h *ChatHandler) HandleUploadDocument(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, ok := h.service.Conversation(id); !ok {
		return ErrNotFound("conversation")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ErrBadRequest("missing file field")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return ErrBadRequest("unreadable file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return ErrBadRequest("unreadable file")
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeFromExtension(fileHeader.Filename)
	}

	doc, err := h.analyzer.Process(c.Context(), fileHeader.Filename, mimeType, data)
	switch {
	case errors.Is(err, document.ErrUnsupportedFileType), errors.Is(err, document.ErrEmptyDocument):
		return ErrBadRequest(err.Error())
	case errors.Is(err, document.ErrFileTooLarge):
		return ErrPayloadTooLarge(err.Error())
	case err != nil:
		return err
	}

	summary, err := h.service.AttachDocument(id, doc)
	if err != nil {
		return err
	}

	h.logger.Info("document attached",
		zap.String("conversation_id", id),
		zap.String("file_name", doc.FileName),
		zap.String("type", string(doc.Metadata.Type)))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"document": doc,
		"message":  summary,
	})
}

func mimeFromExtension(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt":
		return "text/plain"
	case ".md", ".markdown":
		return "text/markdown"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
