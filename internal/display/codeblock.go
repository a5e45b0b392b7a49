package display

import (
	"strings"

	"github.com/atotto/clipboard"
)

// CodeBlock is one fenced block from a markdown reply
type CodeBlock struct {
	Language string
	Code     string
}

// ExtractCodeBlocks returns the fenced code blocks of text in order.
// An unterminated block runs to the end of the text.
func ExtractCodeBlocks(text string) []CodeBlock {
	var blocks []CodeBlock
	var current *CodeBlock
	var body []string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "```") {
			if current != nil {
				body = append(body, line)
			}
			continue
		}
		if current == nil {
			current = &CodeBlock{Language: strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))}
			body = body[:0]
			continue
		}
		current.Code = strings.Join(body, "\n")
		blocks = append(blocks, *current)
		current = nil
	}
	if current != nil {
		current.Code = strings.Join(body, "\n")
		blocks = append(blocks, *current)
	}
	return blocks
}

// FirstCodeBlock returns the body of the first fenced block, or the whole
// text when there is none
func FirstCodeBlock(text string) string {
	blocks := ExtractCodeBlocks(text)
	if len(blocks) == 0 {
		return text
	}
	return blocks[0].Code + "\n"
}

// clipboardWrite is replaced in tests
var clipboardWrite = clipboard.WriteAll

// CopyToClipboard places text on the system clipboard
func CopyToClipboard(text string) error {
	return clipboardWrite(text)
}
