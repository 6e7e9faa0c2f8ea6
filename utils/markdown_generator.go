package utils

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// RenderHighlightedCode writes the given source to w with terminal syntax
// highlighting. Lines inside diff-style blocks keep their +/- coloring; the
// rest goes through chroma. Falls back to plain output when highlighting
// fails for a line.
func RenderHighlightedCode(w io.Writer, content string, language string, theme string) {
	if language == "" {
		language = "plaintext"
	}

	inCodeBlock := false
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}

		if inCodeBlock && strings.HasPrefix(line, "+") {
			fmt.Fprintf(w, "\x1b[92m%s\x1b[0m\n", line)
			continue
		}
		if inCodeBlock && strings.HasPrefix(line, "-") {
			fmt.Fprintf(w, "\x1b[91m%s\x1b[0m\n", line)
			continue
		}

		var buf bytes.Buffer
		if err := quick.Highlight(&buf, line+"\n", language, "terminal256", theme); err != nil {
			fmt.Fprintln(w, line)
			continue
		}
		buf.WriteTo(w)
	}
}
