package uitest

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"

	tea "github.com/charmbracelet/bubbletea"
)

// NewTestModel starts m in a test program with the given terminal size.
func NewTestModel(tb testing.TB, m tea.Model, size Size) *teatest.TestModel {
	tb.Helper()

	return teatest.NewTestModel(tb, m, teatest.WithInitialTermSize(size.Width, size.Height))
}

// Contains returns a [WaitFor] condition matching output that contains all
// of the given strings once ANSI sequences are removed.
func Contains(substrs ...string) func([]byte) bool {
	return func(b []byte) bool {
		plain := ansi.Strip(string(b))
		for _, s := range substrs {
			if !strings.Contains(plain, s) {
				return false
			}
		}

		return true
	}
}

// WaitFor waits for a condition to be met in the output.
func WaitFor(
	tb testing.TB,
	r io.Reader,
	condition func([]byte) bool,
	opts ...teatest.WaitForOption,
) {
	tb.Helper()
	teatest.WaitFor(tb, r, condition, opts...)
}

// WaitForCapture waits for a condition to be met and returns the output.
// This is useful for capturing intermediate states during testing.
// Since Bubble Tea renders complete views, the returned bytes contain
// the full view at the moment the condition was satisfied.
func WaitForCapture(
	tb testing.TB,
	r io.Reader,
	condition func([]byte) bool,
	opts ...teatest.WaitForOption,
) string {
	tb.Helper()

	var captured []byte

	teatest.WaitFor(tb, r, func(b []byte) bool {
		if condition(b) {
			captured = make([]byte, len(b))
			copy(captured, b)

			return true
		}

		return false
	}, opts...)

	return string(captured)
}

// GetFinalOutput reads all output after the program finishes.
func GetFinalOutput(tb testing.TB, tm *teatest.TestModel, timeout time.Duration) string {
	tb.Helper()

	return string(readAll(tb, tm.FinalOutput(tb, teatest.WithFinalTimeout(timeout))))
}

func readAll(tb testing.TB, r io.Reader) []byte {
	tb.Helper()

	b, err := io.ReadAll(r)
	if err != nil {
		tb.Fatal(err)
	}

	return b
}
