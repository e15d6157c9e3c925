package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/config"
	"github.com/JaimeStill/otreport/internal/extract"
	"github.com/JaimeStill/otreport/internal/infrastructure"
	"github.com/JaimeStill/otreport/internal/patient"
	"github.com/JaimeStill/otreport/internal/pipeline"
	"github.com/JaimeStill/otreport/internal/prompts"
	"github.com/JaimeStill/otreport/internal/render"
	"github.com/JaimeStill/otreport/internal/reports"
	"github.com/JaimeStill/otreport/pkg/formatting"
	"github.com/JaimeStill/otreport/pkg/storage"
)

type generateCmd struct {
	root *rootCmd

	files      []string
	name       string
	dob        string
	encounter  string
	sex        string
	language   string
	guardian   string
	uci        string
	formats    []string
	reportType string
	strategy   string
	out        string
	timeout    time.Duration
}

func newGenerateCmd(root *rootCmd) *cobra.Command {
	gc := &generateCmd{root: root}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report from assessment files",
		Example: `  otreport generate \
    --file bayley4_cognitive=cognitive.pdf \
    --file bayley4_social=social.pdf \
    --file facesheet=facesheet.pdf \
    --encounter 2023-06-01 --format pdf,workbook`,
		Args: cobra.NoArgs,
		RunE: gc.run,
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&gc.files, "file", "f", nil, "Assessment file as instrument=path; repeatable")
	flags.StringVar(&gc.name, "name", "", "Patient name; defaults to the facesheet")
	flags.StringVar(&gc.dob, "dob", "", "Date of birth; defaults to the facesheet")
	flags.StringVar(&gc.encounter, "encounter", "", "Evaluation date; defaults to today")
	flags.StringVar(&gc.sex, "sex", "", "Patient sex")
	flags.StringVar(&gc.language, "language", "", "Primary language")
	flags.StringVar(&gc.guardian, "guardian", "", "Parent or guardian")
	flags.StringVar(&gc.uci, "uci", "", "UCI identifier")
	flags.StringSliceVar(&gc.formats, "format", nil, "Output formats: pdf, docs, workbook, json")
	flags.StringVar(&gc.reportType, "type", "", "Report type: professional or basic")
	flags.StringVar(&gc.strategy, "strategy", "", "Narrative strategy: ai or template")
	flags.StringVarP(&gc.out, "out", "o", "", "Output directory; defaults to the configured outputs directory")
	flags.DurationVar(&gc.timeout, "timeout", 10*time.Minute, "Maximum time for the whole run")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (gc *generateCmd) run(cmd *cobra.Command, args []string) error {
	cfg := gc.root.cfg
	switch gc.strategy {
	case "":
	case config.StrategyAI, config.StrategyTemplate:
		cfg.Narrative.Strategy = gc.strategy
		if gc.strategy == config.StrategyAI {
			if err := config.FinalizeAgent(&cfg.Agent); err != nil {
				return fmt.Errorf("agent: %w", err)
			}
		}
	default:
		return fmt.Errorf("--strategy %q: must be %s or %s", gc.strategy, config.StrategyAI, config.StrategyTemplate)
	}
	if gc.out != "" {
		cfg.Outputs.Directory = gc.out
	}

	formats := make([]string, 0, len(gc.formats))
	for _, f := range gc.formats {
		formats = append(formats, config.SplitList(f)...)
	}
	// formats named on the command line are always allowed
	if len(formats) > 0 {
		cfg.Outputs.Formats = formats
	}

	command, err := gc.command()
	if err != nil {
		return err
	}
	command.Formats = formats

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, gc.timeout)
	defer cancel()

	logger := infrastructure.NewLogger(&cfg.Logging, cmd.ErrOrStderr())
	ps := prompts.New(cfg.Prompts, logger)
	sys := reports.New(
		pipeline.NewRuntime(cfg, ps, logger),
		extract.New(logger),
		render.Default(),
		storage.NewLocal(cfg.Outputs.Directory, logger),
		cfg.Outputs,
		logger,
	)

	result, err := sys.Generate(ctx, command)
	if err != nil {
		return errors.New(reports.Message(err))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "session %s\n", result.SessionID)
	for _, a := range result.Artifacts {
		fmt.Fprintf(w, "wrote %s (%s)\n", filepath.Join(cfg.Outputs.Directory, filepath.FromSlash(a.Key)), formatting.FormatBytes(int64(a.Size), 1))
	}
	for _, d := range result.Dropped {
		fmt.Fprintf(w, "dropped %s (%s): %s\n", d.Instrument, d.Source, d.Reason)
	}
	return nil
}

func (gc *generateCmd) command() (reports.Command, error) {
	dob, err := parseDate("dob", gc.dob)
	if err != nil {
		return reports.Command{}, err
	}
	encounter, err := parseDate("encounter", gc.encounter)
	if err != nil {
		return reports.Command{}, err
	}

	command := reports.Command{
		Patient: patient.Patient{
			Name:          gc.name,
			DateOfBirth:   dob,
			EncounterDate: encounter,
			Sex:           gc.sex,
			Language:      gc.language,
			Guardian:      gc.guardian,
		},
		ReportType: gc.reportType,
	}
	if gc.uci != "" {
		command.Patient.Identifiers = map[string]string{patient.IdentifierUCI: gc.uci}
	}

	for _, spec := range gc.files {
		tag, path, ok := strings.Cut(spec, "=")
		if !ok {
			return reports.Command{}, fmt.Errorf("--file %q: want instrument=path", spec)
		}
		instrument, err := assessment.ParseInstrument(tag)
		if err != nil {
			return reports.Command{}, fmt.Errorf("--file %q: %w", spec, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return reports.Command{}, fmt.Errorf("--file %q: %w", spec, err)
		}
		command.Files = append(command.Files, reports.File{
			Instrument: instrument,
			Filename:   filepath.Base(path),
			Data:       data,
		})
	}

	return command, nil
}

func parseDate(flag, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseIn(v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s %q is not a date", flag, v)
	}
	return t, nil
}
