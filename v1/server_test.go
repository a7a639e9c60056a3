package builder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, answer error) *echo.Echo {
	r := ReasonerFunc(func(ctx context.Context, req Request) (string, error) {
		if strings.Contains(req.User, "User request: ") {
			return `["B", "A"]`, nil
		}
		if answer != nil {
			return "", answer
		}
		return "Answer: " + req.User, nil
	})
	return NewServer(&Ask{
		Catalogue: sampleCatalogue(t),
		Selector:  NewSelector(r, SelectionModeTitles),
		Answerer:  NewAnswerer(r),
	})
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestServerHome(t *testing.T) {
	e := newTestServer(t, nil)

	rec := doRequest(e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello, BioAgentBuilder!", rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestServerCatalogue(t *testing.T) {
	rec := doRequest(newTestServer(t, nil), http.MethodGet, "/catalogue", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var chunks []Chunk
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chunks))
	assert.Equal(t, sampleCatalogue(t).Chunks(), chunks)
}

func TestServerSelect(t *testing.T) {
	e := newTestServer(t, nil)

	rec := doRequest(e, http.MethodPost, "/select", `{"query": "what is bar?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"selection": ["B", "A"]}`, rec.Body.String())

	rec = doRequest(e, http.MethodPost, "/select", `{"query": "  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "query is required"}`, rec.Body.String())
}

func TestServerAssemble(t *testing.T) {
	e := newTestServer(t, nil)

	rec := doRequest(e, http.MethodPost, "/assemble", `{"selection": ["C", "missing", "A"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"text": "baz\nfoo\n"}`, rec.Body.String())

	rec = doRequest(e, http.MethodPost, "/assemble", `{"selection": ["C"], "headings": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"text": "## C\n\nbaz\n"}`, rec.Body.String())
}

func TestServerAsk(t *testing.T) {
	rec := doRequest(newTestServer(t, nil), http.MethodPost, "/ask", `{"query": "why?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"selection": ["B", "A"],
		"assembled": "bar\nfoo\n",
		"answer": "Answer: why?"
	}`, rec.Body.String())

	rec = doRequest(newTestServer(t, errors.New("upstream down")), http.MethodPost, "/ask", `{"query": "why?"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream down")

	rec = doRequest(newTestServer(t, nil), http.MethodPost, "/ask", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
