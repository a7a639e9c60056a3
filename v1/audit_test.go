package builder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAuditLogs(t *testing.T, dir string) []string {
	t.Helper()
	files, err := os.ReadDir(dir)
	require.NoError(t, err)

	var contents []string
	for _, f := range files {
		content, err := os.ReadFile(filepath.Join(dir, f.Name()))
		require.NoError(t, err)
		contents = append(contents, string(content))
	}
	return contents
}

func TestAuditLogger(t *testing.T) {
	tempDir := t.TempDir()
	auditLogger := NewAuditLogger(true, tempDir)

	testRequest := map[string]interface{}{
		"model": "test-model",
		"input": "test input",
	}
	testResponse := map[string]interface{}{
		"data": []map[string]interface{}{
			{"embedding": []float64{0.1, 0.2, 0.3}},
		},
	}

	auditLogger.LogAPICall(context.Background(), "embeddings", "test-model",
		testRequest, testResponse, nil, 100*time.Millisecond, "test-request-id")

	files, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Regexp(t, `^api_call_embeddings_\d+_test-req\.md$`, files[0].Name())

	content := readAuditLogs(t, tempDir)[0]
	assert.Contains(t, content, "# API Call Audit Log")
	assert.Contains(t, content, "**API Type:** embeddings")
	assert.Contains(t, content, "**Model:** test-model")
	assert.Contains(t, content, "**Request ID:** test-request-id")
	assert.Contains(t, content, `"input": "test input"`)
	assert.NotContains(t, content, "## Error")
}

func TestAuditLoggerRecordsErrors(t *testing.T) {
	tempDir := t.TempDir()
	auditLogger := NewAuditLogger(true, tempDir)

	auditLogger.LogAPICall(context.Background(), "chat", "m", nil, nil, errors.New("bad gateway"), time.Second, "")

	logs := readAuditLogs(t, tempDir)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0], "## Error")
	assert.Contains(t, logs[0], "bad gateway")
}

func TestAuditLoggerDisabled(t *testing.T) {
	tempDir := t.TempDir()
	NewAuditLogger(false, tempDir).LogAPICall(context.Background(), "chat", "m", nil, nil, nil, 0, "")
	assert.Empty(t, readAuditLogs(t, tempDir))

	var nilLogger *AuditLogger
	assert.False(t, nilLogger.Enabled())
	nilLogger.LogAPICall(context.Background(), "chat", "m", nil, nil, nil, 0, "")
}

func TestAuditReasoner(t *testing.T) {
	tempDir := t.TempDir()
	r := &AuditReasoner{
		Reasoner: ReasonerFunc(func(ctx context.Context, req Request) (string, error) {
			return `["A"]`, nil
		}),
		AuditLogger: NewAuditLogger(true, tempDir),
		Model:       "gemini-2.0-flash",
	}

	reply, err := r.Complete(context.Background(), Request{System: "pick", User: "User request: q"})
	require.NoError(t, err)
	assert.Equal(t, `["A"]`, reply)

	logs := readAuditLogs(t, tempDir)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0], "**API Type:** reasoner")
	assert.Contains(t, logs[0], "User request: q")
	assert.Contains(t, logs[0], `"content": "[\"A\"]"`)
}

func TestAuditEmbedder(t *testing.T) {
	tempDir := t.TempDir()
	e := &AuditEmbedder{Embedder: &TFIDFEmbedder{}, AuditLogger: NewAuditLogger(true, tempDir)}
	assert.Equal(t, "tfidf", e.Name())

	vectors, err := e.EmbedBatch(context.Background(), []string{"alpha beta", "beta gamma"})
	require.NoError(t, err)
	assert.Len(t, vectors, 2)

	logs := readAuditLogs(t, tempDir)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0], "**Model:** tfidf")
	assert.Contains(t, logs[0], `"dimensions"`)
}

func TestAuditChatCompletionsClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "test-model",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "[\"A\"]"}}]
		}`))
	}))
	defer srv.Close()

	tempDir := t.TempDir()
	config := ClientConfig{BaseURL: srv.URL + "/v1", APIKey: "test-key", Model: "test-model"}
	r := NewOpenAIReasoner(NewOpenAIClient(config), config, NewAuditLogger(true, tempDir))
	assert.IsType(t, &AuditChatCompletionsClient{}, r.Client)

	reply, err := r.Complete(context.Background(), Request{System: "s", User: "u"})
	require.NoError(t, err)
	assert.Equal(t, `["A"]`, reply)

	logs := readAuditLogs(t, tempDir)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0], "**API Type:** chat")
	assert.Contains(t, logs[0], "**Model:** test-model")
}

func TestToClientsWithoutAudit(t *testing.T) {
	client := NewOpenAIClient(ClientConfig{APIKey: "test-key"})
	assert.IsType(t, &OriginalOpenAIChatCompletionsClient{}, ToChatCompletionsClient(client, nil, "m"))
	assert.IsType(t, &OriginalOpenAIEmbeddingClient{}, ToEmbeddingClient(client, NewAuditLogger(false, ""), "m"))
	assert.IsType(t, &AuditEmbeddingsClient{}, ToEmbeddingClient(client, NewAuditLogger(true, t.TempDir()), "m"))
}
