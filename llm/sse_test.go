package llm_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/plxdev/plx-cli/llm"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		want     string
		wantKind llm.LineKind
	}{
		{
			name:     "content delta",
			line:     `data: {"choices":[{"delta":{"content":"Hello"}}]}`,
			want:     "Hello",
			wantKind: llm.LineFragment,
		},
		{
			name:     "done signal",
			line:     "data: [DONE]",
			wantKind: llm.LineDone,
		},
		{
			name:     "empty line",
			line:     "",
			wantKind: llm.LineNone,
		},
		{
			name:     "blank line",
			line:     "   ",
			wantKind: llm.LineNone,
		},
		{
			name:     "keep-alive comment",
			line:     ": keep-alive",
			wantKind: llm.LineNone,
		},
		{
			name:     "no data prefix",
			line:     "event: message",
			wantKind: llm.LineNone,
		},
		{
			name:     "malformed json",
			line:     "data: {bad json}",
			wantKind: llm.LineNone,
		},
		{
			name:     "missing content field",
			line:     `data: {"choices":[{"delta":{}}]}`,
			wantKind: llm.LineNone,
		},
		{
			name:     "non-string content",
			line:     `data: {"choices":[{"delta":{"content":42}}]}`,
			wantKind: llm.LineNone,
		},
		{
			name:     "empty choices",
			line:     `data: {"choices":[]}`,
			wantKind: llm.LineNone,
		},
		{
			name:     "crlf terminated delta",
			line:     "data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\r",
			want:     "hi",
			wantKind: llm.LineFragment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind := llm.ParseLine(tt.line)

			if got != tt.want || kind != tt.wantKind {
				t.Errorf("ParseLine(%q) = (%q, %v), want (%q, %v)",
					tt.line, got, kind, tt.want, tt.wantKind)
			}
		})
	}
}

func frame(content string) string {
	return `data: {"choices":[{"delta":{"content":"` + content + `"}}]}` + "\n"
}

func TestStreamDecoder_Feed(t *testing.T) {
	t.Run("partial line buffered across chunks", func(t *testing.T) {
		var d llm.StreamDecoder

		full := frame("Hello") + frame(" world")
		cut := len(frame("Hello")) + 10

		got, done := d.Feed([]byte(full[:cut]))
		if done {
			t.Fatal("done before terminal frame")
		}

		rest, done := d.Feed([]byte(full[cut:]))
		if done {
			t.Fatal("done before terminal frame")
		}

		got = append(got, rest...)

		if diff := cmp.Diff([]string{"Hello", " world"}, got); diff != "" {
			t.Errorf("fragments mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("done discards buffered remainder", func(t *testing.T) {
		var d llm.StreamDecoder

		input := frame("a") + "data: [DONE]\n" + frame("never")

		got, done := d.Feed([]byte(input))
		if !done {
			t.Fatal("expected done")
		}

		if diff := cmp.Diff([]string{"a"}, got); diff != "" {
			t.Errorf("fragments mismatch (-want +got):\n%s", diff)
		}

		if frag, ok := d.Finish(); ok {
			t.Errorf("flush after done yielded %q", frag)
		}

		if more, _ := d.Feed([]byte(frame("late"))); len(more) != 0 {
			t.Errorf("feed after done yielded %v", more)
		}
	})

	t.Run("keep-alives and malformed frames skipped", func(t *testing.T) {
		var d llm.StreamDecoder

		input := ": ping\n\ndata: {oops\n" + frame("ok")

		got, done := d.Feed([]byte(input))
		if done {
			t.Fatal("unexpected done")
		}

		if diff := cmp.Diff([]string{"ok"}, got); diff != "" {
			t.Errorf("fragments mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestStreamDecoder_Finish(t *testing.T) {
	t.Run("flushes trailing unterminated line", func(t *testing.T) {
		var d llm.StreamDecoder

		// no trailing newline and no [DONE]
		tail := `data: {"choices":[{"delta":{"content":"tail"}}]}`

		if got, _ := d.Feed([]byte(tail)); len(got) != 0 {
			t.Fatalf("unterminated line drained early: %v", got)
		}

		frag, ok := d.Finish()
		if !ok || frag != "tail" {
			t.Errorf("Finish() = (%q, %v), want (%q, true)", frag, ok, "tail")
		}

		if _, ok := d.Finish(); ok {
			t.Error("second flush yielded a fragment")
		}
	})

	t.Run("blank tail flushes nothing", func(t *testing.T) {
		var d llm.StreamDecoder

		_, _ = d.Feed([]byte(frame("x") + "  "))

		if frag, ok := d.Finish(); ok {
			t.Errorf("blank tail flushed %q", frag)
		}
	})
}
