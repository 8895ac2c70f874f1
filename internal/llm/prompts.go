package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/devtrail/devtrail/schema"
)

const detectPromptHeader = "You are classifying software development activity. Below is the " +
	"frequency of file extensions modified during one working day, plus optional technology " +
	"hints for the project. Respond with a single JSON object mapping technology names to " +
	"numeric percentage weights that sum to 100. No prose, no code fences, JSON only.\n"

const contextPromptHeader = "You are profiling a software project from its documentation and " +
	"top-level layout. List the main technologies (languages, frameworks, notable tools) the " +
	"project uses. Respond with a single JSON array of technology name strings. No prose, no " +
	"code fences, JSON only.\n"

// buildDetectPrompt renders the extension-frequency table and hints into the
// detection prompt. Extensions are sorted for a stable prompt, which keeps
// response caching effective.
func buildDetectPrompt(freq map[string]int, hints []string) string {
	exts := make([]string, 0, len(freq))
	for ext := range freq {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	var sb strings.Builder
	sb.WriteString(detectPromptHeader)
	sb.WriteString("\nFile extension frequency:\n")
	for _, ext := range exts {
		fmt.Fprintf(&sb, "%s: %d\n", ext, freq[ext])
	}
	if len(hints) > 0 {
		sb.WriteString("\nProject technology hints: ")
		sb.WriteString(strings.Join(hints, ", "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// buildContextPrompt renders documentation files and the repository layout
// into the project-profiling prompt.
func buildContextPrompt(pc *schema.ProjectContext) string {
	names := make([]string, 0, len(pc.ReadmeFiles))
	for name := range pc.ReadmeFiles {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(contextPromptHeader)
	for _, name := range names {
		fmt.Fprintf(&sb, "\n--- %s ---\n%s\n", name, pc.ReadmeFiles[name])
	}
	if pc.Structure != "" {
		sb.WriteString("\n--- repository layout ---\n")
		sb.WriteString(pc.Structure)
		sb.WriteString("\n")
	}
	return sb.String()
}
