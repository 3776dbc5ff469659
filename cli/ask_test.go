package cli

import (
	"errors"
	"testing"

	"github.com/plxdev/plx-cli/genericclioptions"
)

func newTestAskOptions(t *testing.T, in *genericclioptions.TestFdReader) *AskOptions {
	t.Helper()

	defaults := NewDefaultPlxOptions(genericclioptions.NewTestIOStreamsDiscard(in))
	if err := defaults.StdioOptions.Complete(); err != nil {
		t.Fatalf("stdio complete: %v", err)
	}

	return NewAskOptions(defaults)
}

func TestAskOptions_ResolveQuestion(t *testing.T) {
	t.Run("from arguments", func(t *testing.T) {
		o := newTestAskOptions(t, genericclioptions.NewTestTTYFdReader())

		if err := o.resolveQuestion([]string{"why", "is", "the", "sky", "blue?"}); err != nil {
			t.Fatalf("resolveQuestion() error = %v", err)
		}

		if o.question != "why is the sky blue?" {
			t.Errorf("question = %q", o.question)
		}
	})

	t.Run("from piped input", func(t *testing.T) {
		o := newTestAskOptions(t, genericclioptions.NewTestPipeFdReader("  what is a goroutine?\n"))

		if err := o.resolveQuestion(nil); err != nil {
			t.Fatalf("resolveQuestion() error = %v", err)
		}

		if o.question != "what is a goroutine?" {
			t.Errorf("question = %q", o.question)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		o := newTestAskOptions(t, genericclioptions.NewTestTTYFdReader())

		if err := o.resolveQuestion(nil); !errors.Is(err, ErrMissingQuestion) {
			t.Errorf("resolveQuestion() error = %v, want ErrMissingQuestion", err)
		}
	})

	t.Run("piped input and arguments conflict", func(t *testing.T) {
		o := newTestAskOptions(t, genericclioptions.NewTestPipeFdReader("piped question"))

		if err := o.resolveQuestion([]string{"arg question"}); !errors.Is(err, ErrConflictingQuestions) {
			t.Errorf("resolveQuestion() error = %v, want ErrConflictingQuestions", err)
		}
	})
}
