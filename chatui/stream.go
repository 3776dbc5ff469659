package chatui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plxdev/plx-cli/llm"
)

type chunk struct {
	content string
	err     error
}

type streamChunk struct {
	chunk
	ch <-chan chunk
}

type askStarted struct{ ch <-chan chunk }

type askErr struct{ err error }

type streamDone struct{}

func waitChunk(ch <-chan chunk) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return streamDone{}
		}

		return streamChunk{chunk: c, ch: ch}
	}
}

// askCmd starts a streaming request and bridges the fragment iterator into
// a channel the event loop can poll with waitChunk.
func (m *model) askCmd(ctx context.Context, question string) tea.Cmd {
	var (
		client = m.client
		opts   = llm.AskOptions{Model: m.selectedModel}
	)

	return func() tea.Msg {
		it, err := client.AskStreaming(ctx, question, opts)
		if err != nil {
			return askErr{err}
		}

		ch := make(chan chunk, 16)

		go func() {
			defer close(ch)

			for frag, err := range it {
				select {
				case ch <- chunk{content: frag, err: err}:
				case <-ctx.Done():
					return
				}

				if err != nil {
					return
				}
			}
		}()

		return askStarted{ch: ch}
	}
}
