package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

type SelectionMode string

const (
	// SelectionModeTitles lists only chunk identifiers to the model.
	SelectionModeTitles SelectionMode = "titles"
	// SelectionModeFull lists identifiers together with chunk text.
	SelectionModeFull SelectionMode = "full"
)

func ParseSelectionMode(s string) (SelectionMode, error) {
	switch SelectionMode(s) {
	case SelectionModeTitles, "":
		return SelectionModeTitles, nil
	case SelectionModeFull:
		return SelectionModeFull, nil
	}
	return "", errors.Newf("unknown selection mode %q", s)
}

const (
	DefaultSelectorTemperature = 0.0
	DefaultSelectorMaxTokens   = 500
)

// ParseResult is the outcome of interpreting a selection response.
type ParseResult struct {
	IDs    []string `json:"ids"`
	OK     bool     `json:"ok"`
	Reason string   `json:"reason,omitempty"`
}

// Selection is the ordered list of identifiers chosen for one query.
// Duplicates and unknown identifiers are kept as returned.
type Selection struct {
	Query  string        `json:"query"`
	IDs    []string      `json:"selection"`
	Raw    string        `json:"raw"`
	OK     bool          `json:"ok"`
	Reason string        `json:"reason,omitempty"`
	Took   time.Duration `json:"took"`
}

// ParseSelection makes a single JSON parse attempt over the raw response. A
// list is used as-is; anything else yields an empty selection and a reason.
// Non-string elements can never name a chunk; they are dropped and counted in Reason.
func ParseSelection(raw string) ParseResult {
	var v interface{}
	err := json.Unmarshal([]byte(raw), &v)
	if err != nil {
		return ParseResult{IDs: []string{}, Reason: err.Error()}
	}

	list, ok := v.([]interface{})
	if !ok {
		return ParseResult{IDs: []string{}, Reason: "not a list"}
	}

	ids := make([]string, 0, len(list))
	dropped := 0
	for _, item := range list {
		if s, ok := item.(string); ok {
			ids = append(ids, s)
			continue
		}
		dropped++
	}
	result := ParseResult{IDs: ids, OK: true}
	if dropped > 0 {
		result.Reason = fmt.Sprintf("dropped %d non-string items", dropped)
	}
	return result
}

// Selector asks a reasoner which catalogue chunks answer a query.
type Selector struct {
	Reasoner    Reasoner
	Mode        SelectionMode
	Temperature float64
	MaxTokens   int
}

func NewSelector(r Reasoner, mode SelectionMode) *Selector {
	return &Selector{
		Reasoner:    r,
		Mode:        mode,
		Temperature: DefaultSelectorTemperature,
		MaxTokens:   DefaultSelectorMaxTokens,
	}
}

// Select never fails: request and parse failures produce an empty selection
// with the reason recorded.
func (s *Selector) Select(ctx context.Context, c *Catalogue, query string) Selection {
	start := time.Now()
	sel := Selection{Query: query, IDs: []string{}}

	user, err := BuildSelectorPrompt(s.Mode, query, c)
	if err != nil {
		sel.Reason = err.Error()
		log.Error().Err(err).Msg("Build selector prompt")
		return sel
	}
	req := Request{
		System:      MustGetPrompt("selector_system"),
		User:        user,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	}
	log.Debug().Str("query", query).Str("mode", string(s.Mode)).Str("prompt", req.User).Msg("Selection request")

	raw, err := s.Reasoner.Complete(ctx, req)
	sel.Took = time.Since(start)
	if err != nil {
		sel.Reason = "request failed: " + err.Error()
		log.Error().Err(err).Str("query", query).Msg("Selection request failed")
		return sel
	}
	sel.Raw = raw
	log.Debug().Str("query", query).Str("response", raw).Msg("Selection response")

	result := ParseSelection(raw)
	sel.IDs = result.IDs
	sel.OK = result.OK
	sel.Reason = result.Reason
	if !result.OK {
		log.Warn().Str("reason", result.Reason).Str("response", raw).Msg("Failed to parse selection")
		return sel
	}

	log.Info().Str("query", query).Strs("selection", sel.IDs).Dur("took", sel.Took).Msg("Selected")
	return sel
}
