package builder

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type SelectParameter struct {
	Query string `json:"query"`
}

type AssembleParameter struct {
	Selection []string `json:"selection"`
	Headings  bool     `json:"headings"`
}

type selectResponse struct {
	Selection []string `json:"selection"`
	Reason    string   `json:"reason,omitempty"`
}

type assembleResponse struct {
	Text string `json:"text"`
}

type askResponse struct {
	Selection []string `json:"selection"`
	Reason    string   `json:"reason,omitempty"`
	Assembled string   `json:"assembled"`
	Answer    string   `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes selection, assembly and answering of one catalogue over HTTP.
type Server struct {
	Ask *Ask
}

func NewServer(ask *Ask) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	s := &Server{Ask: ask}
	s.RegisterRoutes(e)
	return e
}

func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/", getHome)
	e.GET("/healthz", getHealth)
	e.GET("/catalogue", s.getCatalogue)
	e.POST("/select", s.postSelect)
	e.POST("/assemble", s.postAssemble)
	e.POST("/ask", s.postAsk)
}

func getHome(c echo.Context) error {
	return c.String(http.StatusOK, "Hello, BioAgentBuilder!")
}

func getHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getCatalogue(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Ask.Catalogue.Chunks())
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func (s *Server) postSelect(c echo.Context) error {
	var p SelectParameter
	if err := c.Bind(&p); err != nil {
		return badRequest(c, err.Error())
	}
	if strings.TrimSpace(p.Query) == "" {
		return badRequest(c, "query is required")
	}

	sel := s.Ask.Selector.Select(c.Request().Context(), s.Ask.Catalogue, p.Query)
	return c.JSON(http.StatusOK, selectResponse{Selection: sel.IDs, Reason: sel.Reason})
}

func (s *Server) postAssemble(c echo.Context) error {
	var p AssembleParameter
	if err := c.Bind(&p); err != nil {
		return badRequest(c, err.Error())
	}

	text := Reconstruct(s.Ask.Catalogue, p.Selection)
	if p.Headings {
		text = AssembleSections(s.Ask.Catalogue, p.Selection)
	}
	return c.JSON(http.StatusOK, assembleResponse{Text: text})
}

func (s *Server) postAsk(c echo.Context) error {
	var p SelectParameter
	if err := c.Bind(&p); err != nil {
		return badRequest(c, err.Error())
	}
	if strings.TrimSpace(p.Query) == "" {
		return badRequest(c, "query is required")
	}

	result, err := s.Ask.Run(c.Request().Context(), p.Query)
	if err != nil {
		log.Error().Err(err).Str("query", p.Query).Msg("Ask")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, askResponse{
		Selection: result.Selection.IDs,
		Reason:    result.Selection.Reason,
		Assembled: result.Assembled,
		Answer:    result.Answer,
	})
}
