package knowledge

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCuratedMatch(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)

	pkg := r.Resolve("fisica")
	require.NoError(t, pkg.Validate())
	assert.Equal(t, "Y9EjnBmO2Jw", pkg.MediaReference)
	assert.Equal(t, "Quale principio afferma che F = m * a?", pkg.Quiz[0].Question)

	// Keyword matching is a substring scan over the normalized topic.
	pkg = r.Resolve("  Ripasso di FISICA per domani ")
	assert.Equal(t, "Y9EjnBmO2Jw", pkg.MediaReference)
}

func TestResolveCuratedNapoleone(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)
	pkg := r.Resolve("napoleone")

	require.Len(t, pkg.Quiz, 1)
	idx := pkg.Quiz[0].CorrectIndex()
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "Sant'Elena", pkg.Quiz[0].Options[idx].Text)
}

func TestResolveIsDeterministic(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)

	first, err := json.Marshal(r.Resolve("chimica"))
	require.NoError(t, err)
	second, err := json.Marshal(r.Resolve("chimica"))
	require.NoError(t, err)

	assert.Equal(t, first, second, "curated resolution must be byte-identical across calls")
}

func TestResolveTieBreakIsLexicographic(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)

	// Both "napoleone" and "storia" match; the scan over sorted keywords
	// picks "napoleone".
	pkg := r.Resolve("storia di napoleone")
	assert.Equal(t, "2U_YdZD5kkM", pkg.MediaReference)
}

func TestResolveSynthesizedFallback(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)
	pkg := r.Resolve("xenolinguistics")

	require.NoError(t, pkg.Validate())
	require.Len(t, pkg.Quiz, 1, "synthesized package carries exactly one question")

	q := pkg.Quiz[0]
	idx := q.CorrectIndex()
	require.GreaterOrEqual(t, idx, 0, "synthesized question must be answerable")
	assert.Contains(t, q.Options[idx].Text, "Vedi Video",
		"correct option must direct the user back to the video")

	assert.True(t, strings.HasPrefix(pkg.MediaReference, "?listType=search&list="),
		"synthesized media reference is a search-style placeholder")
	assert.Contains(t, pkg.MediaReference, "xenolinguistics")
	assert.Contains(t, pkg.Summary, "xenolinguistics")
}

func TestResolveNeverFails(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)

	for _, topic := range []string{"", "   ", "FISICA", "qualcosa di strano", "a&b=c?d"} {
		pkg := r.Resolve(topic)
		require.NoErrorf(t, pkg.Validate(), "topic %q must yield a valid package", topic)
		require.NotEmpty(t, pkg.Quiz)
		for _, q := range pkg.Quiz {
			assert.NotEmpty(t, q.Options)
		}
	}
}

func TestKeywordsSorted(t *testing.T) {
	t.Parallel()

	keys := NewResolver(nil).Keywords()
	require.NotEmpty(t, keys)
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i], "keywords must be in scan (sorted) order")
	}
}
