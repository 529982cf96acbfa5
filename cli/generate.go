package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"content_strategy_designer/generator"
	"content_strategy_designer/publisher"
	"content_strategy_designer/view"
)

var (
	titleColor   = color.New(color.FgMagenta, color.Bold)
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

type generateOpts struct {
	business string
	audience string
	goals    string
	platform string
	format   string
	outDir   string
}

func newGenerateCmd(a *app) *cobra.Command {
	var o generateOpts
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a strategy and print it",
		Example: `  content-strategy generate --business "Accounting SaaS" \
    --audience "Small firms" --goals "More trials" --platform "Website/Blog"`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			return a.generate(cmd, o)
		}),
	}
	f := cmd.Flags()
	f.StringVar(&o.business, "business", "", "business type (required)")
	f.StringVar(&o.audience, "audience", "", "target audience (required)")
	f.StringVar(&o.goals, "goals", "", "content goals (required)")
	f.StringVar(&o.platform, "platform", string(generator.PlatformAll), "primary platform: "+platformList())
	f.StringVar(&o.format, "format", "text", "output format: text, json, yaml or markdown")
	f.StringVar(&o.outDir, "out", "", "also write the JSON export into this directory")
	return cmd
}

func platformList() string {
	names := make([]string, 0, len(generator.Platforms()))
	for _, p := range generator.Platforms() {
		names = append(names, fmt.Sprintf("%q", p))
	}
	return strings.Join(names, ", ")
}

func (a *app) generate(cmd *cobra.Command, o generateOpts) error {
	switch o.format {
	case "text", "json", "yaml", "markdown":
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}

	req := generator.StrategyRequest{
		Business: o.business,
		Audience: o.audience,
		Goals:    o.goals,
		Platform: generator.Platform(o.platform),
	}
	if err := req.Validate(); err != nil {
		return err
	}

	genAgent, err := a.agent(cmd.Context())
	if err != nil {
		return err
	}
	res, err := genAgent.Generate(cmd.Context(), req)
	if err != nil {
		var gerr *generator.GenerationError
		if errors.As(err, &gerr) && gerr.Raw != "" {
			warningColor.Fprintln(cmd.ErrOrStderr(), "Raw response:")
			fmt.Fprintln(cmd.ErrOrStderr(), gerr.Raw)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if err := render(out, o.format, req, res, a.cfg.KeyMode()); err != nil {
		return err
	}

	if o.outDir != "" {
		path, err := writeExport(o.outDir, res, time.Now())
		if err != nil {
			return err
		}
		successColor.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", path)
	}
	return nil
}

func render(w io.Writer, format string, req generator.StrategyRequest, res generator.StrategyResult, mode view.KeyMode) error {
	switch format {
	case "json":
		data, err := publisher.ExportJSON(res)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(struct {
			Request  generator.StrategyRequest `yaml:"request"`
			Strategy generator.StrategyResult  `yaml:"strategy"`
		}{req, res}); err != nil {
			return err
		}
		return enc.Close()
	case "markdown":
		_, err := io.WriteString(w, publisher.RenderMarkdown(req, res))
		return err
	default:
		renderText(w, req, res, mode)
		return nil
	}
}

// renderText prints the checklist, timeline and metric views for a terminal.
func renderText(w io.Writer, req generator.StrategyRequest, res generator.StrategyResult, mode view.KeyMode) {
	titleColor.Fprintf(w, "Content Strategy: %s\n", req.Business)
	fmt.Fprintf(w, "Audience: %s | Platform: %s\n\n", req.Audience, req.Platform)

	for _, g := range view.Checklist(res, nil, mode) {
		headerColor.Fprintln(w, g.Title)
		for _, item := range g.Items {
			fmt.Fprintf(w, "  [ ] %s\n", item.Text)
		}
		fmt.Fprintln(w)
	}

	headerColor.Fprintln(w, "Timeline")
	if rows, err := view.Timeline(res); err != nil {
		errorColor.Fprintf(w, "  %v\n", err)
	} else {
		for _, r := range rows {
			task := r.Task
			if task == "" {
				task = "-"
			}
			fmt.Fprintf(w, "  %-8s %s\n", r.Month, task)
		}
	}
	fmt.Fprintln(w)

	headerColor.Fprintln(w, "Metric Targets")
	if cards, err := view.MetricCards(res); err != nil {
		errorColor.Fprintf(w, "  %v\n", err)
	} else {
		for i, c := range cards {
			fmt.Fprintf(w, "  %d. %s (target: %s)\n", i+1, c.Title, c.Target)
		}
	}

	if missing := res.Missing(); len(missing) > 0 {
		fmt.Fprintln(w)
		names := make([]string, 0, len(missing))
		for _, s := range missing {
			names = append(names, string(s))
		}
		warningColor.Fprintf(w, "Missing sections: %s\n", strings.Join(names, ", "))
	}
}

func writeExport(dir string, res generator.StrategyResult, now time.Time) (string, error) {
	data, err := publisher.ExportJSON(res)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, publisher.ExportFilename(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
