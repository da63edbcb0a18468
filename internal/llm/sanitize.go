package llm

import "strings"

// controlTokens are model-special markers that some backends leak into
// visible output: sequence boundaries and instruction brackets.
var controlTokens = []string{
	"<s>",
	"</s>",
	"[INST]",
	"[/INST]",
}

// Sanitize strips known control tokens and surrounding whitespace from
// raw model output. An output that is empty after sanitizing is
// unusable and should be treated as an upstream failure.
func Sanitize(raw string) string {
	cleaned := raw
	for _, token := range controlTokens {
		cleaned = strings.ReplaceAll(cleaned, token, "")
	}
	return strings.TrimSpace(cleaned)
}
