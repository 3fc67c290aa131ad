package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/andywolf/neovate-desk/internal/config"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// render writes v in the requested format. text is used for the text
// format; structured formats serialize v directly.
func render(w io.Writer, format string, v interface{}, text func(w io.Writer)) error {
	switch format {
	case config.FormatJSON:
		return writeJSON(w, v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case config.FormatText, "":
		text(w)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// writeJSONLine writes v as compact JSON on a single line.
func writeJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
