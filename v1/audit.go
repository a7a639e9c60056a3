package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuditLogger writes every external call as a markdown file, request and response included.
type AuditLogger struct {
	enabled bool
	logDir  string
}

type APIRequest struct {
	Timestamp time.Time     `json:"timestamp"`
	APIType   string        `json:"api_type"`
	Model     string        `json:"model"`
	Request   interface{}   `json:"request"`
	Response  interface{}   `json:"response"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	RequestID string        `json:"request_id,omitempty"`
}

func NewAuditLogger(enabled bool, logDir string) *AuditLogger {
	if enabled && logDir == "" {
		logDir = "./audit_logs"
	}

	return &AuditLogger{
		enabled: enabled,
		logDir:  logDir,
	}
}

func (a *AuditLogger) Enabled() bool {
	return a != nil && a.enabled
}

func (a *AuditLogger) LogAPICall(ctx context.Context, apiType, model string, request, response interface{}, err error, duration time.Duration, requestID string) {
	if !a.Enabled() {
		return
	}

	if err := os.MkdirAll(a.logDir, 0755); err != nil {
		log.Error().Err(err).Msg("Failed to create audit log directory")
		return
	}

	if requestID == "" {
		requestID = uuid.NewString()
	}

	auditRecord := APIRequest{
		Timestamp: time.Now(),
		APIType:   apiType,
		Model:     model,
		Request:   request,
		Response:  response,
		Duration:  duration,
		RequestID: requestID,
	}
	if err != nil {
		auditRecord.Error = err.Error()
	}
	if ctx.Err() != nil && auditRecord.Error == "" {
		auditRecord.Error = ctx.Err().Error()
	}

	suffix := requestID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	filename := filepath.Join(a.logDir, fmt.Sprintf("api_call_%s_%d_%s.md",
		strings.ToLower(apiType),
		auditRecord.Timestamp.UnixNano(),
		suffix))

	markdownContent := fmt.Sprintf(`# API Call Audit Log

**Timestamp:** %s
**API Type:** %s
**Model:** %s
**Duration:** %v
**Request ID:** %s

## Request

`+"```json\n%s\n```\n\n"+`## Response

`+"```json\n%s\n```\n\n"+`%s
`,
		auditRecord.Timestamp.Format("2006-01-02 15:04:05.000"),
		auditRecord.APIType,
		auditRecord.Model,
		auditRecord.Duration.Round(time.Millisecond),
		auditRecord.RequestID,
		prettyJSON(auditRecord.Request),
		prettyJSON(auditRecord.Response),
		getErrorMarkdown(auditRecord.Error),
	)

	if err := os.WriteFile(filename, []byte(markdownContent), 0644); err != nil {
		log.Error().Err(err).Msg("Failed to write audit log file")
		return
	}

	log.Debug().Str("filename", filename).Msg("API call audit log created")
}

func getErrorMarkdown(errMsg string) string {
	if errMsg == "" {
		return ""
	}
	return fmt.Sprintf("## Error\n\n"+"```\n%s\n```", errMsg)
}

func prettyJSON(v interface{}) string {
	if v == nil {
		return "null"
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error marshaling JSON: %v", err)
	}
	return string(data)
}
