package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWithoutHeader(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	doc, err := Parse(input)
	require.NoError(t, err)
	require.False(t, doc.Had)
	require.Empty(t, doc.Fields)
	require.Equal(t, input, doc.Body)
}

func TestParseYAMLHeader(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: Intro\nweight: 3\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Equal(t, "Intro", doc.Fields["title"])
	require.Equal(t, 3, doc.Fields["weight"])
	require.Equal(t, []byte("# Title\n"), doc.Body)
}

func TestParseEmptyHeader(t *testing.T) {
	doc, err := Parse([]byte("---\n---\nbody\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Empty(t, doc.Fields)
	require.Equal(t, []byte("body\n"), doc.Body)
}

func TestParseCRLF(t *testing.T) {
	doc, err := Parse([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.Equal(t, "value", doc.Fields["key"])
	require.Equal(t, []byte("# Title\r\n"), doc.Body)
}

func TestParseHeaderAtEndOfFile(t *testing.T) {
	doc, err := Parse([]byte("---\nkey: value\n---"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Empty(t, doc.Body)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("---\nkey: value\n# Title\n"))
	require.ErrorIs(t, err, ErrUnterminated)

	_, err = Parse([]byte("---\nkey: [unclosed\n---\nbody\n"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnterminated)
}

func TestStrip(t *testing.T) {
	body, err := Strip([]byte("---\na: 1\n---\ntext"))
	require.NoError(t, err)
	require.Equal(t, "text", string(body))

	body, err = Strip([]byte("--- not a header\n"))
	require.NoError(t, err)
	require.Equal(t, "--- not a header\n", string(body))
}
