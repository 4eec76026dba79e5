// Package render provides output rendering for the warncheck CLI.
//
// Format selection:
//   - If stdout is a TTY, default to table
//   - Otherwise default to json
//   - --format always overrides the default
//
// --no-color affects table output only; the TUI keeps its own styling.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/pithecene-io/warncheck/cli/tui"
)

// Format represents an output format.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string, returning an error for invalid formats.
// The empty string is accepted and means "pick by TTY".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatTable, FormatYAML, "":
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %q (must be json, table, or yaml)", s)
	}
}

// KeyValuer is rendered in table format as aligned "key: value" lines.
type KeyValuer interface {
	KeyValues() [][2]string
}

// WarningLister adds a warnings section below the key/value lines.
type WarningLister interface {
	Warnings() []string
}

// Tabler is rendered in table format as a header row plus data rows.
type Tabler interface {
	Header() []string
	Rows() [][]string
}

// Renderer handles output formatting.
type Renderer struct {
	format  Format
	noColor bool
	out     io.Writer
}

// NewRenderer creates a renderer from the --format and --no-color flags.
func NewRenderer(c *cli.Context) (*Renderer, error) {
	format, err := ParseFormat(c.String("format"))
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatJSON
		if isTTY(os.Stdout) {
			format = FormatTable
		}
	}
	return &Renderer{
		format:  format,
		noColor: c.Bool("no-color"),
		out:     c.App.Writer,
	}, nil
}

// NewRendererWithWriter creates a renderer with a custom writer (for testing).
func NewRendererWithWriter(format Format, noColor bool, out io.Writer) *Renderer {
	return &Renderer{format: format, noColor: noColor, out: out}
}

// Format returns the selected format.
func (r *Renderer) Format() Format {
	return r.format
}

// Render outputs the data in the configured format.
func (r *Renderer) Render(data any) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable:
		return r.renderTable(data)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

// RenderTUI runs the interactive viewer for the given view type.
func (r *Renderer) RenderTUI(viewType string, data any) error {
	if !tui.IsTUISupported(viewType) {
		return fmt.Errorf("--tui is not supported for %s", viewType)
	}
	return tui.Run(viewType, data)
}

func (r *Renderer) renderTable(data any) error {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)

	switch v := data.(type) {
	case Tabler:
		rows := v.Rows()
		if len(rows) == 0 {
			fmt.Fprintln(w, "(no results)")
			break
		}
		fmt.Fprintln(w, strings.Join(v.Header(), "\t"))
		for _, row := range rows {
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
	case KeyValuer:
		for _, kv := range v.KeyValues() {
			fmt.Fprintf(w, "%s:\t%s\n", kv[0], r.paint(kv[0], kv[1]))
		}
		if lister, ok := data.(WarningLister); ok && len(lister.Warnings()) > 0 {
			fmt.Fprintln(w, "\nwarnings:")
			for _, warning := range lister.Warnings() {
				fmt.Fprintf(w, "  %s\n", warning)
			}
		}
	default:
		fmt.Fprintf(w, "%v\n", data)
	}

	return w.Flush()
}

// paint colors the outcome value unless --no-color was given.
func (r *Renderer) paint(key, value string) string {
	if r.noColor || key != "outcome" {
		return value
	}
	return tui.OutcomeStyle(value).Render(value)
}

func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
