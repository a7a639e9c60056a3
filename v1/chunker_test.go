package builder

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/suite"
)

type ChunkerTestSuite struct {
	suite.Suite
	c *Chunker
}

func TestChunker(t *testing.T) {
	suite.Run(t, new(ChunkerTestSuite))
}

func (s *ChunkerTestSuite) SetupTest() {
	var err error
	s.c, err = NewChunker(DefaultMaxChunkLength)
	s.Require().NoError(err)
}

func (s *ChunkerTestSuite) TestRejectsNonPositiveLength() {
	_, err := NewChunker(0)
	s.Error(err)
	_, err = NewChunker(-5)
	s.Error(err)
}

func (s *ChunkerTestSuite) TestShortDocumentIsOneChunk() {
	chunks := s.c.Split("  Be concise.  ")
	s.Equal([]string{"Be concise."}, chunks)
}

func (s *ChunkerTestSuite) TestEmptyText() {
	s.Empty(s.c.Split(""))
	s.Empty(s.c.Split(" \n\t "))
}

func (s *ChunkerTestSuite) TestThreeRules() {
	c, err := NewChunker(15)
	s.Require().NoError(err)
	chunks := c.Split("Rule one. Rule two. Rule three.")
	s.Equal([]string{"Rule one.", "Rule two.", "Rule three."}, chunks)
}

func (s *ChunkerTestSuite) TestPacksUnitsBelowLimit() {
	c, err := NewChunker(20)
	s.Require().NoError(err)
	// "A b. C d." is 9 runes, below 20, so both units share a chunk.
	chunks := c.Split("A b. C d. Efghijklmnopq rstu.")
	s.Equal([]string{"A b. C d.", "Efghijklmnopq rstu."}, chunks)
}

func (s *ChunkerTestSuite) TestOversizedUnitIsKept() {
	c, err := NewChunker(5)
	s.Require().NoError(err)
	chunks := c.Split("This sentence is far too long. Ok.")
	s.Equal([]string{"This sentence is far too long.", "Ok."}, chunks)
}

func (s *ChunkerTestSuite) TestSplitsOnlyAfterPeriodAndWhitespace() {
	units := SplitUnits("Use v1.2 here.\nThen stop. End")
	s.Equal([]string{"Use v1.2 here.", "Then stop.", "End"}, units)
}

func (s *ChunkerTestSuite) TestLengthCountsRunes() {
	c, err := NewChunker(12)
	s.Require().NoError(err)
	chunks := c.Split("Ünïcödé. Ünïcödé.")
	s.Equal([]string{"Ünïcödé.", "Ünïcödé."}, chunks)
	for _, chunk := range chunks {
		s.Less(utf8.RuneCountInString(chunk), 12)
	}
}

func (s *ChunkerTestSuite) TestPreservesSentences() {
	text := `You are a specialized coder agent focused on scRNA-seq analysis.
Follow these rules:
1. Only output Python code.
2. Remain polite and professional.
3. Use scanpy for single-cell analysis.
`
	for _, length := range []int{1, 10, 40, 120, 1000} {
		c, err := NewChunker(length)
		s.Require().NoError(err)
		chunks := c.Split(text)
		s.NotEmpty(chunks)

		s.Equal(strings.Fields(strings.TrimSpace(text)), strings.Fields(strings.Join(chunks, " ")), "length %d", length)
		for _, chunk := range chunks {
			s.NotEmpty(strings.TrimSpace(chunk))
			s.Equal(strings.TrimSpace(chunk), chunk)
		}
	}
}

func (s *ChunkerTestSuite) TestDeterministic() {
	text := "One. Two. Three. Four. Five."
	s.Equal(s.c.Split(text), s.c.Split(text))
}
