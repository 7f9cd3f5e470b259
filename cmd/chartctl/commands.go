package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	sc "github.com/comalice/statechart"
	"github.com/comalice/statechart/internal/demo"
	"github.com/comalice/statechart/internal/visualize"
	"github.com/comalice/statechart/logging"
	"github.com/comalice/statechart/metrics"
)

type rootOptions struct {
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "chartctl",
		Short:         "Drive the demo statecharts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := logging.FromEnv()
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Level = opts.logLevel
				cfg.Levels = nil
			}
			if opts.logFormat != "" {
				cfg.Format = opts.logFormat
			}
			opts.logger, err = logging.New(cmd.ErrOrStderr(), cfg)
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (text|json)")

	cmd.AddCommand(
		newListCmd(),
		newShapeCmd(),
		newRunCmd(opts),
		newDotCmd(opts),
	)
	return cmd
}

func findChart(name string) (demo.Entry, error) {
	e, ok := demo.Find(name)
	if !ok {
		var names []string
		for _, c := range demo.Catalog() {
			names = append(names, c.Name)
		}
		return demo.Entry{}, fmt.Errorf("unknown chart %q (known: %s)", name, strings.Join(names, ", "))
	}
	return e, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List demo charts and their events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, e := range demo.Catalog() {
				fmt.Fprintf(out, "%-16s %s\n", e.Name, e.Description)
				fmt.Fprintf(out, "%-16s events: %s\n", "", strings.Join(e.EventNames(), ", "))
			}
			return nil
		},
	}
}

func newShapeCmd() *cobra.Command {
	var fingerprint bool
	cmd := &cobra.Command{
		Use:   "shape <chart>",
		Short: "Print the declared structure of a chart as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := findChart(args[0])
			if err != nil {
				return err
			}
			chart, err := e.Build(demo.NewJournal())
			if err != nil {
				return err
			}
			shape := chart.Root().Shape()
			if fingerprint {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), shape.Fingerprint())
				return err
			}
			return writeYAML(cmd.OutOrStdout(), shape)
		},
	}
	cmd.Flags().BoolVar(&fingerprint, "fingerprint", false, "print only the structure digest")
	return cmd
}

type step struct {
	Step     int         `yaml:"step"`
	Event    string      `yaml:"event"`
	Snapshot sc.Snapshot `yaml:"snapshot"`
}

// replay materializes the chart from Empty and then applies each named
// event, calling visit after every step.
func replay(chart *sc.Chart[*demo.Journal], e demo.Entry, events []string, visit func(step)) (sc.Snapshot, error) {
	parsed := make([]any, len(events))
	for i, name := range events {
		ev, err := e.ParseEvent(name)
		if err != nil {
			return sc.Empty, err
		}
		parsed[i] = ev
	}

	s := chart.Transition(sc.Empty, nil)
	visit(step{Step: 0, Event: "(start)", Snapshot: s})
	for i, ev := range parsed {
		s = chart.Transition(s, ev)
		visit(step{Step: i + 1, Event: events[i], Snapshot: s})
	}
	return s, nil
}

func newRunCmd(root *rootOptions) *cobra.Command {
	var showMetrics bool
	cmd := &cobra.Command{
		Use:   "run <chart> [event...]",
		Short: "Apply events to a chart starting from the empty snapshot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := findChart(args[0])
			if err != nil {
				return err
			}
			runID := uuid.NewString()
			reg := prometheus.NewRegistry()
			journal := demo.NewJournal()
			chart, err := e.Build(journal,
				sc.WithLogger(root.logger.With("run", runID)),
				sc.WithMetrics(metrics.New(reg)),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var steps []step
			if _, err := replay(chart, e, args[1:], func(s step) { steps = append(steps, s) }); err != nil {
				return err
			}
			if err := writeYAML(out, map[string]any{
				"run":     runID,
				"steps":   steps,
				"effects": journal.Entries(),
			}); err != nil {
				return err
			}
			if showMetrics {
				return writeMetrics(out, reg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print counters collected during the run")
	return cmd
}

func newDotCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dot <chart> [event...]",
		Short: "Render a chart as Graphviz DOT with the resulting active states highlighted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := findChart(args[0])
			if err != nil {
				return err
			}
			chart, err := e.Build(demo.NewJournal(), sc.WithLogger(root.logger))
			if err != nil {
				return err
			}
			s, err := replay(chart, e, args[1:], func(step) {})
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), visualize.DOT(chart.Root().Shape(), s))
			return err
		},
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
