package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Output prints labelled result lines ("ID: ...", "URL: ...") to out and
// warnings and errors to errOut.
type Output struct {
	out    io.Writer
	errOut io.Writer
	styles Styles
	errSt  Styles
}

// NewOutput creates an Output. Colors are used only where the target
// stream supports them.
func NewOutput(out, errOut io.Writer) *Output {
	return &Output{
		out:    out,
		errOut: errOut,
		styles: NewStyles(lipgloss.NewRenderer(out)),
		errSt:  NewStyles(lipgloss.NewRenderer(errOut)),
	}
}

// Field prints "LABEL: v1 v2 ...".
func (o *Output) Field(label string, values ...string) {
	fmt.Fprintf(o.out, "%s %s\n", o.styles.Label.Render(label+":"), strings.Join(SanitizeAll(values), " "))
}

// Success prints "LABEL: v1 v2 ..." with the label marked as a completed
// result.
func (o *Output) Success(label string, values ...string) {
	fmt.Fprintf(o.out, "%s %s\n", o.styles.Success.Render(label+":"), strings.Join(SanitizeAll(values), " "))
}

// Link prints a labelled URL.
func (o *Output) Link(label, url string) {
	fmt.Fprintf(o.out, "%s %s\n", o.styles.Label.Render(label+":"), o.styles.Link.Render(Sanitize(url)))
}

// Tags prints a post id followed by its comma separated tags.
func (o *Output) Tags(id string, tags []string) {
	fmt.Fprintf(o.out, "%s %s %s %s\n",
		o.styles.Label.Render("ID:"), Sanitize(id),
		o.styles.Label.Render("TAGS:"), strings.Join(SanitizeAll(tags), ", "))
}

// Raw prints text as is, e.g. pretty JSON.
func (o *Output) Raw(text string) {
	fmt.Fprintln(o.out, Sanitize(text))
}

// Warning prints "WARNING: msg" to the error stream.
func (o *Output) Warning(msg string) {
	fmt.Fprintf(o.errOut, "%s %s\n", o.errSt.Warning.Render("WARNING:"), Sanitize(msg))
}

// Error prints err to the error stream. Messages that already carry an
// "ERROR:" prefix are not prefixed again.
func (o *Output) Error(err error) {
	msg := Sanitize(err.Error())
	if strings.Contains(msg, "ERROR:") {
		fmt.Fprintln(o.errOut, o.errSt.Error.Render(msg))
		return
	}
	fmt.Fprintf(o.errOut, "%s %s\n", o.errSt.Error.Render("ERROR:"), msg)
}
