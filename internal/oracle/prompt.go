package oracle

import (
	"fmt"
	"strings"
)

const promptTemplate = `
Given the following text about a deed holder, classify them into one of these categories:
%s

Text:
"""%s"""

Respond with only the category name.
`

// systemPrompt is sent to chat models that take a separate system message.
const systemPrompt = "You classify property deed holders by legal entity type. Answer with a single category name and nothing else."

// Prompt builds the classification prompt for text over the given labels.
func Prompt(text string, labels []string) string {
	var b strings.Builder
	for i, label := range labels {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(label)
	}
	return fmt.Sprintf(promptTemplate, b.String(), text)
}
