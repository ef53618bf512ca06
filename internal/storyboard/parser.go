package storyboard

import (
	"regexp"
	"strconv"
	"strings"
)

var refinedLinePattern = regexp.MustCompile(`^Frame\s*(\d+)\s*:\s*(.*)$`)

// parseLoose scans a free-form model reply line by line. A line is accepted
// when it starts with the literal word "Frame", or with the next expected
// index followed by "." or ":". Accepted lines are numbered sequentially
// starting at 1, ignoring any number embedded in the text.
func parseLoose(text string) []FrameDescription {
	var frames []FrameDescription
	next := 1

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !matchesLoose(line, next) {
			continue
		}

		description := looseDescription(line)
		if description == "" {
			continue
		}

		frames = append(frames, FrameDescription{Number: next, Description: description})
		next++
	}

	return frames
}

func matchesLoose(line string, expected int) bool {
	if strings.HasPrefix(line, "Frame") {
		return true
	}
	index := strconv.Itoa(expected)
	return strings.HasPrefix(line, index+".") || strings.HasPrefix(line, index+":")
}

// looseDescription takes everything after the first ":", falling back to
// everything after the first ".", falling back to the whole line.
func looseDescription(line string) string {
	if i := strings.Index(line, ":"); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	if i := strings.Index(line, "."); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return line
}

// parseStructured parses the strict-format reply by position: only the first
// n raw lines are considered, blank lines among them are skipped, and the
// description is the text after the first ":" if present, else the whole
// trimmed line. Frames are numbered 1..count_taken regardless of any number
// in the text.
func parseStructured(text string, n int) []FrameDescription {
	var frames []FrameDescription

	for i, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if i >= n {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		description := line
		if j := strings.Index(line, ":"); j >= 0 {
			description = strings.TrimSpace(line[j+1:])
		}
		if description == "" {
			continue
		}

		frames = append(frames, FrameDescription{Number: len(frames) + 1, Description: description})
	}

	return frames
}

// parseRefinement extracts a frame number to description mapping from a
// refinement reply. A line qualifies only if it starts with "Frame" and the
// text before the ":" parses as an integer; anything else is stray commentary
// and is silently skipped. The last occurrence wins when a number repeats.
func parseRefinement(text string) map[int]string {
	refined := make(map[int]string)

	for _, line := range strings.Split(text, "\n") {
		matches := refinedLinePattern.FindStringSubmatch(strings.TrimSpace(line))
		if len(matches) != 3 {
			continue
		}

		number, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}

		description := strings.TrimSpace(matches[2])
		if description == "" {
			continue
		}

		refined[number] = description
	}

	return refined
}
