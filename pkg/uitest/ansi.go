package uitest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

// SetupColorProfile forces TrueColor output so that styles are rendered
// even when the tests do not run in a terminal.
func SetupColorProfile() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// StyleExpectation lists the attributes a piece of text must have. Nil
// fields are not checked.
type StyleExpectation struct {
	Bold       *bool
	Underline  *bool
	Reverse    *bool
	Foreground *string // "R;G;B" for TrueColor, or a 256 color index.
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// ANSIStyleVerifier inspects the SGR styles of rendered output.
type ANSIStyleVerifier struct {
	output string
}

func NewANSIStyleVerifier(output string) *ANSIStyleVerifier {
	return &ANSIStyleVerifier{output: output}
}

// PlainText returns the output without escape sequences.
func (v *ANSIStyleVerifier) PlainText() string {
	return ansi.Strip(v.output)
}

func (v *ANSIStyleVerifier) ContainsPlainText(t *testing.T, expected string) {
	t.Helper()

	assert.Contains(t, v.PlainText(), expected)
}

// ContainsStyledText checks the style of the first run of equally styled
// text that contains text.
func (v *ANSIStyleVerifier) ContainsStyledText(t *testing.T, text string, expected StyleExpectation) {
	t.Helper()

	for _, seg := range v.segments() {
		if !strings.Contains(seg.text, text) {
			continue
		}

		check := func(name string, want *bool, got bool) {
			if want != nil {
				assert.Equal(t, *want, got, "%s of %q", name, text)
			}
		}

		check("bold", expected.Bold, seg.style.bold)
		check("underline", expected.Underline, seg.style.underline)
		check("reverse", expected.Reverse, seg.style.reverse)

		if expected.Foreground != nil {
			assert.Equal(t, *expected.Foreground, seg.style.foreground, "foreground of %q", text)
		}

		return
	}

	t.Errorf("no styled run contains %q in %q", text, v.PlainText())
}

type sgrStyle struct {
	foreground string
	bold       bool
	underline  bool
	reverse    bool
}

type segment struct {
	text  string
	style sgrStyle
}

func (v *ANSIStyleVerifier) segments() []segment {
	var (
		segs  []segment
		style sgrStyle
		text  strings.Builder
		state byte
	)

	flush := func() {
		if text.Len() > 0 {
			segs = append(segs, segment{text: text.String(), style: style})
			text.Reset()
		}
	}

	p := ansi.GetParser()
	defer ansi.PutParser(p)

	input := []byte(v.output)
	for len(input) > 0 {
		seq, width, n, newState := ansi.DecodeSequence(input, state, p)

		switch {
		case ansi.HasCsiPrefix(seq) && seq[len(seq)-1] == 'm':
			flush()
			style = applySGR(style, p.Params())

		case width > 0:
			text.Write(seq)
		}

		input = input[n:]
		state = newState
	}

	flush()

	return segs
}

func applySGR(s sgrStyle, params ansi.Params) sgrStyle {
	if len(params) == 0 {
		return sgrStyle{}
	}

	for i := 0; i < len(params); i++ {
		switch code := params[i].Param(0); code {
		case 0:
			s = sgrStyle{}
		case 1:
			s.bold = true
		case 4:
			s.underline = true
		case 7:
			s.reverse = true
		case 22:
			s.bold = false
		case 24:
			s.underline = false
		case 27:
			s.reverse = false
		case 39:
			s.foreground = ""
		case 38:
			if i+2 < len(params) && params[i+1].Param(0) == 5 {
				s.foreground = fmt.Sprint(params[i+2].Param(0))
				i += 2
			} else if i+4 < len(params) && params[i+1].Param(0) == 2 {
				s.foreground = fmt.Sprintf("%d;%d;%d",
					params[i+2].Param(0), params[i+3].Param(0), params[i+4].Param(0))
				i += 4
			}
		}
	}

	return s
}
