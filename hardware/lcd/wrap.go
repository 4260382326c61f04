package lcd

import "bytes"

// wordWrap replaces spaces with line breaks so that words stay on one row.
// Input no longer than width is returned as is.
// Each line longer than width is scanned remembering last space;
// after width bytes since the previous break, the byte that does not fit
// is appended and last space becomes '\n'.
// Word without spaces is not broken, row overflow truncates it while drawing.
func wordWrap(input []byte, width int) []byte {
	if len(input) <= width {
		return input
	}

	out := make([]byte, 0, len(input))
	for _, line := range bytes.SplitAfter(input, []byte{'\n'}) {
		if len(line) <= width {
			out = append(out, line...)
			continue
		}
		i, lastSpace := 0, -1
		for _, c := range line {
			if c == ' ' {
				lastSpace = len(out)
			}
			out = append(out, c)
			if i < width {
				i++
				continue
			}
			if lastSpace != -1 {
				out[lastSpace] = '\n'
			}
			i = 0
		}
	}
	return out
}
