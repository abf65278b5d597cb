package corpus

import (
	"encoding/json"
	"testing"

	"github.com/jackryan100123/nyaya-sahayak/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNormalizesBothShapes(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.Greater(t, c.Len(), 0)

	// Chaptered 2023 code.
	sec, ok := c.Section(models.CodeBNS, "103")
	require.True(t, ok)
	assert.Equal(t, "Punishment for murder", sec.Title)
	assert.True(t, sec.IsCurrentLaw)
	assert.NotEmpty(t, sec.ChapterTitle)
	assert.Greater(t, len(sec.Content), 1, "multi-paragraph content survives normalization")

	// Flat superseded code.
	old, ok := c.Section(models.CodeIPC, "302")
	require.True(t, ok)
	assert.Equal(t, "Punishment for murder", old.Title)
	assert.False(t, old.IsCurrentLaw)
	assert.Len(t, old.Content, 1)
}

func TestLoadCoversAllSixCodes(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	seen := make(map[models.CodeType]bool)
	for _, sec := range c.Sections() {
		seen[sec.CodeType] = true
	}
	for _, code := range []models.CodeType{
		models.CodeBNS, models.CodeBNSS, models.CodeBSA,
		models.CodeIPC, models.CodeCrPC, models.CodeIEA,
	} {
		assert.True(t, seen[code], "missing sections for %s", code)
	}
}

func TestSectionLookupMiss(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	_, ok := c.Section(models.CodeBNS, "99999")
	assert.False(t, ok)
	_, ok = c.Section(models.CodeType("xyz"), "1")
	assert.False(t, ok)
}

func TestDecodeContent(t *testing.T) {
	got, err := decodeContent(json.RawMessage(`"single paragraph"`))
	require.NoError(t, err)
	assert.Equal(t, []string{"single paragraph"}, got)

	got, err = decodeContent(json.RawMessage(`["one","two"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, got)

	got, err = decodeContent(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = decodeContent(json.RawMessage(`{"not":"content"}`))
	assert.Error(t, err)
}
