// Package genericclioptions provides the shared option-struct plumbing used
// by every subcommand: IO streams, stdin detection, and the
// Complete/Validate/Run execution flow.
package genericclioptions

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"time"
)

// FdReader is an input stream whose mode can be inspected, allowing piped
// input detection. os.Stdin satisfies it.
type FdReader interface {
	Read(p []byte) (int, error)
	Fd() uintptr
	Stat() (os.FileInfo, error)
}

// BaseOptions is the prepare-and-check half of the option-struct contract.
type BaseOptions interface {
	// Complete fills in any remaining derived fields.
	Complete() error

	// Validate checks the options for usage errors.
	Validate() error
}

// CmdOptions is the full contract implemented by every subcommand's
// option struct.
type CmdOptions interface {
	BaseOptions

	// Run executes the command.
	Run(ctx context.Context, args ...string) error
}

// ExecuteCommand drives an option struct through its full lifecycle.
func ExecuteCommand(ctx context.Context, o CmdOptions, args ...string) error {
	if err := o.Complete(); err != nil {
		return err
	}

	if err := o.Validate(); err != nil {
		return err
	}

	return o.Run(ctx, args...)
}

// TestFdReader is an in-memory FdReader for unit tests. Mode controls
// whether the fake input looks like a terminal or a pipe.
type TestFdReader struct {
	bytes.Buffer

	Mode os.FileMode
}

var _ FdReader = &TestFdReader{}

// NewTestTTYFdReader returns a reader whose Stat reports a character
// device, mimicking an interactive terminal.
func NewTestTTYFdReader() *TestFdReader {
	return &TestFdReader{Mode: os.ModeCharDevice}
}

// NewTestPipeFdReader returns a reader whose Stat reports a regular pipe
// carrying the given input.
func NewTestPipeFdReader(input string) *TestFdReader {
	r := &TestFdReader{}
	r.WriteString(input)

	return r
}

func (r *TestFdReader) Fd() uintptr { return 0 }

func (r *TestFdReader) Stat() (os.FileInfo, error) {
	return fakeFileInfo{mode: r.Mode}, nil
}

type fakeFileInfo struct {
	mode os.FileMode
}

func (f fakeFileInfo) Name() string       { return "test" }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() fs.FileMode  { return f.mode }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return false }
func (f fakeFileInfo) Sys() any           { return nil }
