package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobguard/api-service/internal/app"
)

const appName = "jobguard"

// Actual version can be specified in build command.
var version = "unknown"

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           appName,
		Short:         "Job posting fraud classifier API",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve(cfgFile)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (environment variables JOBGUARD_* override it)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Provision models and start the HTTP API",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return serve(cfgFile)
			},
		},
		&cobra.Command{
			Use:   "provision",
			Short: "Download the classifier artifact if it is missing, then exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return provisionModel(cmd.Context(), cfgFile, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "classify <text>",
			Short: "Classify one job posting and print the prediction as JSON",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return classify(cmd.Context(), cfgFile, strings.Join(args, " "), cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", appName, version)
			},
		},
	)

	return root
}

func provisionModel(ctx context.Context, cfgFile string, out io.Writer) error {
	cfg, log, err := setup(cfgFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	path, err := app.Provision(ctx, cfg, log)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, path)
	return nil
}

func classify(ctx context.Context, cfgFile, text string, out io.Writer) error {
	cfg, log, err := setup(cfgFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	p, err := a.Usecase.Classify(ctx, text)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Prediction int     `json:"prediction"`
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
		Score      float64 `json:"score"`
	}{
		Prediction: int(p.Label),
		Label:      p.Label.String(),
		Confidence: p.Confidence,
		Score:      p.Score,
	})
}
