package llm

import (
	"encoding/json"
	"strings"
)

const doneSignal = "[DONE]"

// LineKind classifies a single SSE line.
type LineKind int

const (
	// LineNone is a blank line, comment, non-data frame, or a data frame
	// without usable content. Such lines are skipped, never fatal.
	LineNone LineKind = iota

	// LineFragment carries a piece of answer text.
	LineFragment

	// LineDone is the terminal "[DONE]" frame.
	LineDone
)

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content *string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// ParseLine classifies one SSE line and extracts its content delta, if any.
// It is pure and order-independent per line.
func ParseLine(line string) (string, LineKind) {
	line = strings.TrimSuffix(line, "\r")

	if strings.TrimSpace(line) == "" {
		return "", LineNone
	}

	if strings.HasPrefix(line, ":") { // SSE comment / keep-alive
		return "", LineNone
	}

	data, ok := strings.CutPrefix(line, "data: ")
	if !ok {
		return "", LineNone
	}

	if data == doneSignal {
		return "", LineDone
	}

	var chunk streamChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return "", LineNone
	}

	if len(chunk.Choices) == 0 {
		return "", LineNone
	}

	if content := chunk.Choices[0].Delta.Content; content != nil && *content != "" {
		return *content, LineFragment
	}

	return "", LineNone
}

// StreamDecoder incrementally splits a byte stream into SSE lines,
// holding back the unterminated tail of the most recent chunk.
//
// Create one per streaming call, Feed it every received chunk, and Finish
// it at end of input to flush a trailing unterminated line.
type StreamDecoder struct {
	tail string
	done bool
}

// Feed appends p to the buffer and drains every complete line, returning
// the content fragments in arrival order. Once the terminal frame is seen,
// done is true and any remaining buffered bytes are discarded.
func (d *StreamDecoder) Feed(p []byte) (fragments []string, done bool) {
	if d.done {
		return nil, true
	}

	d.tail += string(p)

	lines := strings.Split(d.tail, "\n")
	d.tail = lines[len(lines)-1]

	for _, line := range lines[:len(lines)-1] {
		frag, kind := ParseLine(line)

		switch kind {
		case LineFragment:
			fragments = append(fragments, frag)
		case LineDone:
			d.done = true
			d.tail = ""

			return fragments, true
		case LineNone:
		}
	}

	return fragments, false
}

// Finish parses the trailing unterminated line, if any. Called once at
// natural end of input.
func (d *StreamDecoder) Finish() (string, bool) {
	if d.done {
		return "", false
	}

	line := d.tail
	d.tail = ""

	if strings.TrimSpace(line) == "" {
		return "", false
	}

	frag, kind := ParseLine(line)

	return frag, kind == LineFragment
}
