package lcd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordWrap(t *testing.T) {
	t.Parallel()

	type Case struct {
		name   string
		width  int
		input  string
		expect string
	}
	cases := []Case{
		Case{"empty", 5, "", ""},
		Case{"full", 5, "abcde", "abcde"},
		Case{"short-spaces", 16, "a b c", "a b c"},
		Case{"one-break", 5, "ab cdef", "ab\ncdef"},
		Case{"two-words", 10, "hello world foo", "hello\nworld foo"},
		Case{"many", 10, "the quick brown fox jumps", "the quick\nbrown fox\njumps"},
		Case{"break-on-overflow-space", 5, "ab\ncd ef gh", "ab\ncd ef\ngh"},
		Case{"no-space", 5, "abcdefgh", "abcdefgh"},
		Case{"short-line-kept", 6, "ab\nlonger line", "ab\nlonger\nline"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			result := string(wordWrap([]byte(c.input), c.width))
			assert.Equal(t, c.expect, result)
			assertBreaksAtSpaces(t, c.input, result)
		})
	}
}

func TestWordWrapShortIdentity(t *testing.T) {
	t.Parallel()

	const width = 20
	words := "lorem ipsum dolor sit amet consectetur"
	for n := 0; n <= width; n++ {
		input := []byte(words[:n])
		result := wordWrap(input, width)
		assert.Equal(t, string(input), string(result))
	}
}

func TestWordWrapOneBreakPerOverflow(t *testing.T) {
	t.Parallel()

	// each overflow past width+1 bytes since last break inserts exactly one break
	const width = 8
	input := strings.Repeat("abc ", 12)
	result := string(wordWrap([]byte(input), width))
	assertBreaksAtSpaces(t, input, result)
	overflows := 0
	i := 0
	for range input {
		if i < width {
			i++
			continue
		}
		overflows++
		i = 0
	}
	assert.Equal(t, overflows, strings.Count(result, "\n"))
}

// assertBreaksAtSpaces checks that wrap only turns spaces into line breaks.
func assertBreaksAtSpaces(t testing.TB, input, result string) {
	if !assert.Equal(t, len(input), len(result)) {
		return
	}
	for i := range input {
		if input[i] != result[i] {
			assert.Equal(t, byte(' '), input[i], "index=%d", i)
			assert.Equal(t, byte('\n'), result[i], "index=%d", i)
		}
	}
}
