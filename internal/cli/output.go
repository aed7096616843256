package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/raphaelgruber/etymon/internal/models"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats for lookup.
const (
	formatAuto = "auto"
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// resolveFormat picks the output format. Auto means text on a terminal, JSON otherwise.
func resolveFormat(format string, w io.Writer) (string, error) {
	switch strings.ToLower(format) {
	case "", formatAuto:
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return formatText, nil
		}
		return formatJSON, nil
	case formatText:
		return formatText, nil
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

// writeEtymology renders data in the given resolved format.
func writeEtymology(w io.Writer, format string, data *models.EtymologyData) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(data)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		printEtymology(w, data)
		return nil
	}
}

// printEtymology writes a human-readable report.
func printEtymology(w io.Writer, data *models.EtymologyData) {
	title := fmt.Sprintf("%s (%s)", data.Word, data.Language)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("═", max(len([]rune(title)), 10)))

	if data.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", data.Summary)
	}

	if len(data.Timeline) > 0 {
		fmt.Fprintf(w, "\nTimeline:\n")
		for i, step := range data.Timeline {
			when := step.Era
			if step.Year != "" {
				when += ", " + step.Year
			}
			fmt.Fprintf(w, "  %d. [%s] %s, %s (%s)\n", i+1, step.Kind, step.DisplayName(), step.Language, when)
			if step.Meaning != "" {
				fmt.Fprintf(w, "     %q\n", step.Meaning)
			}
			if step.Description != "" {
				fmt.Fprintf(w, "     %s\n", step.Description)
			}
		}
	}

	links := data.Graph.ResolvedLinks()
	if len(data.Graph.Nodes) > 0 {
		fmt.Fprintf(w, "\nRelated words (%d nodes, %d links):\n", len(data.Graph.Nodes), len(links))
		for _, n := range data.Graph.Nodes {
			fmt.Fprintf(w, "  - [%s] %s, %s", n.Kind, n.DisplayName(), n.Language)
			if n.Definition != "" {
				fmt.Fprintf(w, ": %s", n.Definition)
			}
			fmt.Fprintln(w)
		}
	}

	if len(links) > 0 {
		fmt.Fprintf(w, "\nLinks:\n")
		for _, l := range links {
			src, _ := data.Graph.Node(l.Source)
			dst, _ := data.Graph.Node(l.Target)
			fmt.Fprintf(w, "  %s -%s-> %s\n", src.Label, l.Kind, dst.Label)
		}
	}
}
