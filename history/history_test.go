package history_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/plxdev/plx-cli/history"
)

func newTestLog(t *testing.T) *history.Log {
	t.Helper()

	l, err := history.Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	t.Cleanup(func() {
		if err := l.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	return l
}

func TestLog_AppendRecent(t *testing.T) {
	l := newTestLog(t)

	exchanges := []history.Exchange{
		{Model: "sonar", Question: "first?", Answer: "one"},
		{Model: "sonar-pro", Question: "second?", Answer: "two"},
		{Model: "sonar-pro", Question: "third?", Answer: "three"},
	}

	for _, e := range exchanges {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append(%q) error = %v", e.Question, err)
		}
	}

	got, err := l.Recent(2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}

	want := []history.Exchange{
		{Model: "sonar-pro", Question: "third?", Answer: "three"},
		{Model: "sonar-pro", Question: "second?", Answer: "two"},
	}

	ignore := cmpopts.IgnoreFields(history.Exchange{}, "ID", "AskedAt")
	if diff := cmp.Diff(want, got, ignore); diff != "" {
		t.Errorf("Recent() mismatch (-want +got):\n%s", diff)
	}

	for _, e := range got {
		if e.ID == 0 {
			t.Error("exchange missing rowid")
		}

		if e.AskedAt.IsZero() || time.Since(e.AskedAt) > time.Minute {
			t.Errorf("unexpected asked_at %v", e.AskedAt)
		}
	}
}

func TestLog_RecentEmpty(t *testing.T) {
	l := newTestLog(t)

	got, err := l.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}

	if len(got) != 0 {
		t.Errorf("Recent() on empty log = %v", got)
	}
}

func TestLog_Clear(t *testing.T) {
	l := newTestLog(t)

	if err := l.Append(history.Exchange{Model: "sonar", Question: "q", Answer: "a"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if err := l.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	got, err := l.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}

	if len(got) != 0 {
		t.Errorf("Recent() after Clear = %v", got)
	}
}
