package genericclioptions

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestStdioOptions_PipedInput(t *testing.T) {
	var out, errOut bytes.Buffer

	o := NewStdioOptions()
	o.Opts(
		WithIn(NewTestPipeFdReader("what is Go?\n")),
		WithOut(&out),
		WithErr(&errOut),
		WithLevel(slog.LevelWarn),
	)

	if err := o.Complete(); err != nil {
		t.Fatalf("Complete() = %v", err)
	}

	if !o.Piped() {
		t.Error("Piped() = false, want true for redirected input")
	}

	if err := o.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	// level Warn suppresses Infof
	o.Infof("should not appear\n")

	if out.Len() != 0 {
		t.Errorf("Infof wrote %q at warn level", out.String())
	}
}

func TestStdioOptions_TerminalInput(t *testing.T) {
	o := NewStdioOptions()
	o.Opts(WithIn(NewTestTTYFdReader()))

	if err := o.Complete(); err != nil {
		t.Fatalf("Complete() = %v", err)
	}

	if o.Piped() {
		t.Error("Piped() = true, want false for a terminal")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "Warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("level "+tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)

			if gotErr := err != nil; gotErr != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}

			if err == nil && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
