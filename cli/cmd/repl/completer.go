package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "list", "functions", "edit", "reload", "clear", "quit",
}

// functionUsage describes the remainder accepted by known functions.
var functionUsage = map[string]string{
	"env":          "env:NAME[:default]",
	"sys":          "sys:NAME[:default]",
	"service":      "service:NAME[:default]  (NAME_SERVICE_HOST:NAME_SERVICE_PORT)",
	"service.host": "service.host:NAME[:default]",
	"service.port": "service.port:NAME[:default]",
	"expr":         "expr:EXPRESSION  (env(name), sys(name))",
	"pathprefix":   "pathprefix:VAR:item[:item...]",
}

// keyBounds returns the partial property key under the cursor and its byte
// boundaries within input.
//
// Inside an unterminated placeholder the key starts after the prefix token.
// Input without any prefix token is a bare key, delimited by whitespace.
// Once a ':' separates the key from a function remainder or a default value
// there is nothing left to complete, and ok is false.
func keyBounds(
	input string,
	cursor int,
	prefix, suffix string,
) (word string, start, end int, ok bool) {
	cursor = min(max(cursor, 0), len(input))
	before := input[:cursor]

	switch i := strings.LastIndex(before, prefix); {
	case i >= 0 && !strings.Contains(before[i+len(prefix):], suffix):
		start = i + len(prefix)

	case !strings.Contains(input, prefix):
		start = strings.LastIndexAny(before, " \t") + 1

	default:
		return "", cursor, cursor, false
	}

	if strings.ContainsRune(before[start:], ':') {
		return "", cursor, cursor, false
	}

	end = cursor

	for end < len(input) {
		if strings.HasPrefix(input[end:], suffix) {
			break
		}

		r, size := utf8.DecodeRuneInString(input[end:])
		if r == ':' || r == ' ' || r == '\t' {
			break
		}

		end += size
	}

	return input[start:end], start, end, true
}

// wordBounds returns the whitespace-delimited word at the cursor position and
// its byte boundaries within input.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = strings.LastIndexAny(input[:cursor], " \t") + 1

	end = cursor
	if i := strings.IndexAny(input[cursor:], " \t"); i >= 0 {
		end += i
	} else {
		end = len(input)
	}

	return input[start:end], start, end
}

// placeholderName returns the name before the first ':' of the unterminated
// placeholder enclosing the cursor, if any.
func placeholderName(input string, cursor int, prefix, suffix string) (string, bool) {
	before := input[:min(max(cursor, 0), len(input))]

	i := strings.LastIndex(before, prefix)
	if i < 0 {
		return "", false
	}

	body := before[i+len(prefix):]
	if strings.Contains(body, suffix) {
		return "", false
	}

	name, _, ok := strings.Cut(body, ":")
	if !ok {
		return "", false
	}

	return name, true
}

// placeholderHint describes the text expected after "name:" inside a
// placeholder, for a function name or a property key.
func placeholderHint(name string, isFunction func(string) bool) string {
	if usage, ok := functionUsage[name]; ok {
		return usage
	}

	if isFunction(name) {
		return name + ":REMAINDER"
	}

	return name + ":DEFAULT  (used when " + name + " is not found)"
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	if m.mode == modeCtrl {
		word, ws, we := wordBounds(input, cursor)
		if word == "" || ws > 0 {
			return nil, nil, ws, we
		}

		return fuzzy.Find(word, ctrlCommands), ctrlCommands, ws, we
	}

	prefix, suffix := m.component.PrefixToken(), m.component.SuffixToken()

	word, ws, we, ok := keyBounds(input, cursor, prefix, suffix)
	if !ok {
		return nil, nil, cursor, cursor
	}

	candidates = m.candidates()
	if len(candidates) == 0 {
		return nil, nil, ws, we
	}

	if word == "" {
		// Browse everything right after an opening prefix token; a blank
		// bare key keeps the hint visible instead.
		if ws < len(prefix) || input[ws-len(prefix):ws] != prefix {
			return nil, nil, ws, we
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, ws, we
	}

	return fuzzy.Find(word, candidates), candidates, ws, we
}

// candidates returns the property keys followed by the function names, each
// function name ending in ':'.
func (m model) candidates() []string {
	out := make([]string, 0, len(m.keys)+len(m.functions))
	out = append(out, m.keys...)

	for _, name := range m.functions {
		out = append(out, name+":")
	}

	return out
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle, highlightStyle := suggestionStyle, matchStyle
	if selected {
		baseStyle, highlightStyle = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}

// formatPreview returns value shortened to a single line of at most
// maxPreview runes.
func formatPreview(value string) string {
	const maxPreview = 40

	value = strings.Join(strings.Fields(value), " ")

	if utf8.RuneCountInString(value) <= maxPreview {
		return value
	}

	return string([]rune(value)[:maxPreview-3]) + "..."
}
