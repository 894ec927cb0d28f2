package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/readaloud/readaloud/internal/tts"
	"github.com/readaloud/readaloud/internal/tts/engines"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	enginesSelect bool
	enginesYAML   bool

	enginesCmd = &cobra.Command{
		Use:   "engines",
		Short: "Show which speech engines can run here",
		Long: paragraph(fmt.Sprintf("\n%s the configured speech engines in priority order, "+
			"whether their prerequisites are present, and the external programs they rely on. "+
			"With --select the engines are tried and the one that would serve conversions is reported.",
			keyword("List"))),
		Example: paragraph("readaloud engines\nreadaloud engines --select --yaml"),
		Args:    cobra.NoArgs,
		RunE:    runEngines,
	}
)

// enginesReport is the machine readable form of the engines command.
type enginesReport struct {
	Status       tts.Status                 `yaml:"status"`
	Plausible    []string                   `yaml:"plausible"`
	Engines      []tts.Descriptor           `yaml:"engines"`
	Dependencies []engines.DependencyStatus `yaml:"dependencies"`
	Error        string                     `yaml:"error,omitempty"`
}

func runEngines(cmd *cobra.Command, _ []string) error {
	a, err := newApp("")
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	var report enginesReport
	if enginesSelect {
		if _, err := a.registry.Select(cmd.Context()); err != nil {
			report.Error = fmt.Sprintf("%s: %v", tts.Code(err), err)
		}
	}
	report.Status = a.registry.Status()
	report.Plausible = a.registry.Plausible()
	report.Engines = a.registry.Descriptors()
	report.Dependencies = engines.CheckDependencies(cmd.Context(), a.cfg)

	if enginesYAML {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2) //nolint:mnd
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("unable to encode report: %w", err)
		}
		return enc.Close() //nolint:wrapcheck
	}

	renderEngines(cmd.OutOrStdout(), report)
	return nil
}

func renderEngines(w io.Writer, r enginesReport) {
	var b strings.Builder

	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))

	b.WriteString(titleStyle.Render("Speech Engines"))
	b.WriteString("\n\n")

	for _, d := range r.Engines {
		line := fmt.Sprintf("  %d. %s", d.Priority+1, d.Name)
		switch {
		case d.Active:
			b.WriteString(activeStyle.Render(line + " (active)"))
		case d.Available:
			b.WriteString(okStyle.Render(line))
		default:
			b.WriteString(missingStyle.Render(line))
			b.WriteString(subtle(": " + d.Reason))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if r.Status.Ready {
		fmt.Fprintf(&b, "Active engine: %s\n", keyword(r.Status.Backend))
	} else {
		b.WriteString(subtle("No engine selected yet (use --select to run the self-tests)") + "\n")
	}
	if r.Error != "" {
		b.WriteString(missingStyle.Render(r.Error) + "\n")
	}
	if len(r.Plausible) > 0 {
		fmt.Fprintf(&b, "Plausible here: %s\n", strings.Join(r.Plausible, ", "))
	}

	b.WriteString("\n")
	b.WriteString(engines.Report(r.Dependencies))

	fmt.Fprint(w, b.String())
}

func init() {
	enginesCmd.Flags().BoolVar(&enginesSelect, "select", false, "run engine selection and report the winner")
	enginesCmd.Flags().BoolVar(&enginesYAML, "yaml", false, "print the report as YAML")
}
