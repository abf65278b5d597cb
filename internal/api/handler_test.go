package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackryan100123/nyaya-sahayak/internal/chat"
	"github.com/jackryan100123/nyaya-sahayak/internal/classifier"
	"github.com/jackryan100123/nyaya-sahayak/internal/composer"
	"github.com/jackryan100123/nyaya-sahayak/internal/corpus"
	"github.com/jackryan100123/nyaya-sahayak/internal/document"
	"github.com/jackryan100123/nyaya-sahayak/internal/llm"
	"github.com/jackryan100123/nyaya-sahayak/internal/models"
	"github.com/jackryan100123/nyaya-sahayak/internal/search"
	"github.com/jackryan100123/nyaya-sahayak/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestApp wires the whole pipeline with a credential-less model client,
// so every remote call degrades into its deterministic local fallback.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	laws, err := corpus.Load()
	require.NoError(t, err)

	logger := zap.NewNop()
	client := llm.NewClient("", "http://localhost:1", logger)
	extractor := classifier.NewGPTExtractor(client, "test-model", logger)
	comp := composer.New(client, "test-model", 15, 0, logger)
	router := chat.NewRouter(extractor, search.New(laws, logger), comp, logger)

	store := storage.NewMemoryStorage()
	t.Cleanup(func() { store.Close() })

	service := chat.NewService(store, router, logger)
	analyzer := document.NewAnalyzer(client, "test-model", 64, logger)
	handler := NewChatHandler(service, analyzer, logger)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/check/healthy", NewCheckHandler().HandleHealthy)
	apiv1 := app.Group("/api/v1")
	apiv1.Post("/conversations", handler.HandleCreateConversation)
	apiv1.Get("/conversations/:id", handler.HandleGetConversation)
	apiv1.Post("/conversations/:id/messages", handler.HandleSendMessage)
	apiv1.Delete("/conversations/:id/messages", handler.HandleClearConversation)
	apiv1.Post("/conversations/:id/document", handler.HandleUploadDocument)
	return app
}

func createConversation(t *testing.T, app *fiber.App) models.Conversation {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var conv models.Conversation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&conv))
	return conv
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/check/healthy", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"result":"ok"}`, string(body))
}

func TestCreateAndGetConversation(t *testing.T) {
	app := newTestApp(t)
	conv := createConversation(t, app)
	assert.NotEmpty(t, conv.ID)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, models.RoleAssistant, conv.Messages[0].Role)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/conversations/"+conv.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetUnknownConversationReturns404(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/conversations/nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSendMessageRejectsInvalidJSON(t *testing.T) {
	app := newTestApp(t)
	conv := createConversation(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/messages",
		strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSendMessageValidatesContent(t *testing.T) {
	app := newTestApp(t)
	conv := createConversation(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/messages",
		strings.NewReader(`{"content":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var verr ValidationError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&verr))
	assert.Contains(t, verr.Errors, "Content")
}

func TestSendMessageUnknownConversationReturns404(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/nope/messages",
		strings.NewReader(`{"content":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSendMessageReturnsAssistantReply(t *testing.T) {
	app := newTestApp(t)
	conv := createConversation(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/messages",
		strings.NewReader(`{"content":"hello there"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply models.Message
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.Equal(t, models.RoleAssistant, reply.Role)
	assert.NotEmpty(t, reply.Content)
}

func TestClearConversation(t *testing.T) {
	app := newTestApp(t)
	conv := createConversation(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/messages",
		strings.NewReader(`{"content":"a question"}`))
	req.Header.Set("Content-Type", "application/json")
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/conversations/"+conv.ID+"/messages", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fresh models.Conversation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fresh))
	assert.Equal(t, conv.ID, fresh.ID)
	assert.Len(t, fresh.Messages, 1)
}

func multipartUpload(t *testing.T, fileName, contentType, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	app := newTestApp(t)
	conv := createConversation(t, app)

	body, contentType := multipartUpload(t, "complaint.txt", "text/plain", "complaint about theft")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/document", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Document models.ProcessedDocument `json:"document"`
		Message  models.Message           `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "complaint.txt", out.Document.FileName)
	assert.Equal(t, models.DocumentComplaint, out.Document.Metadata.Type)
	assert.Equal(t, models.RoleAssistant, out.Message.Role)

	// The upload summary lands in the conversation.
	getResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/conversations/"+conv.ID, nil), -1)
	require.NoError(t, err)
	var got models.Conversation
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&got))
	assert.Len(t, got.Messages, 2)
}

func TestUploadDocumentInfersMIMEFromExtension(t *testing.T) {
	app := newTestApp(t)
	conv := createConversation(t, app)

	body, contentType := multipartUpload(t, "notes.md", "", "notes about the court case")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/document", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestUploadDocumentRejectsPDF(t *testing.T) {
	app := newTestApp(t)
	conv := createConversation(t, app)

	body, contentType := multipartUpload(t, "doc.pdf", "application/pdf", "%PDF-1.4")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/document", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadDocumentRejectsOversizedFile(t *testing.T) {
	app := newTestApp(t)
	conv := createConversation(t, app)

	// The test analyzer caps uploads at 64 bytes.
	body, contentType := multipartUpload(t, "big.txt", "text/plain", strings.Repeat("x", 100))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/document", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestUploadDocumentMissingFileField(t *testing.T) {
	app := newTestApp(t)
	conv := createConversation(t, app)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("other", "value"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/document", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadDocumentUnknownConversation(t *testing.T) {
	app := newTestApp(t)
	body, contentType := multipartUpload(t, "a.txt", "text/plain", "text")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/nope/document", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
