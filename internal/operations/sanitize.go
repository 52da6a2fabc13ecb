package operations

import "strings"

// forbiddenReplacer maps every character a disk path cannot hold to "_".
var forbiddenReplacer = strings.NewReplacer(
	"/", "_",
	`\`, "_",
	":", "_",
	"*", "_",
	"?", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizeText turns a caption into a file name stem: forbidden characters
// become underscores and surrounding whitespace is trimmed.
func SanitizeText(text string) string {
	return strings.TrimSpace(forbiddenReplacer.Replace(text))
}
