package storyboard

import (
	"fmt"
	"strings"
)

// FrameDescription is one numbered scene description within a storyboard.
type FrameDescription struct {
	Number      int
	Description string
}

// Sequence holds a prompt together with its draft and refined frame lists.
// Frames is the first-pass draft; RefinedFrames is the reconciled,
// user-facing sequence.
type Sequence struct {
	Prompt        string
	Frames        []FrameDescription
	RefinedFrames []FrameDescription
}

// FormatFrames renders frames as "Frame k: description" lines, one per frame.
func FormatFrames(frames []FrameDescription) string {
	lines := make([]string, len(frames))
	for i, frame := range frames {
		lines[i] = fmt.Sprintf("Frame %d: %s", frame.Number, frame.Description)
	}
	return strings.Join(lines, "\n")
}
