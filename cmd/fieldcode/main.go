package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-fieldcode/pkg/fieldcode"
)

var version = "0.1.0"

// app carries the settings shared by all subcommands
type app struct {
	configPath string
	logLevel   string
	config     *fieldcode.Config
	parser     *fieldcode.Parser
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "fieldcode",
		Short: "Find Word field codes in DOCX documents",
		Long: `Fieldcode lists the mail-merge fields of Word documents.

It recognizes simple and complex fields with these instructions:
  - MERGEFIELD name
  - IF condition "true text" "false text"
  - INCLUDEPICTURE "MERGEFIELD name"

Other fields (PAGE, DATE, TOC, ...) are ignored.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")

	rootCmd.AddCommand(scanCmd(a))
	rootCmd.AddCommand(classifyCmd(a))
	rootCmd.AddCommand(extentCmd(a))

	return rootCmd
}

// setup resolves configuration from environment, config file and flags, in that order
func (a *app) setup(cmd *cobra.Command, args []string) error {
	config := fieldcode.ConfigFromEnvironment()
	if a.configPath != "" {
		loaded, err := fieldcode.LoadConfigFile(a.configPath, config)
		if err != nil {
			return err
		}
		config = loaded
	}
	if a.logLevel != "" {
		config.LogLevel = a.logLevel
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fieldcode.SetLogger(fieldcode.NewLogger(cmd.ErrOrStderr(), fieldcode.LogInfo))
	fieldcode.SetGlobalConfig(config)

	a.config = config
	a.parser = fieldcode.NewParserWithConfig(config)
	return nil
}

func scanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan FILE...",
		Short: "List the fields of DOCX files",
		Long: `List the recognized fields of each file.

A .docx file is scanned in its main document, headers, footers, footnotes
and endnotes. An .xml file is treated as a single extracted part.

Example:
  fieldcode scan letter.docx
  fieldcode scan --main-only --format json letter.docx invoice.docx
  fieldcode scan word/document.xml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			mainOnly, _ := cmd.Flags().GetBool("main-only")
			if err := checkFormat(format); err != nil {
				return err
			}

			reports := make([]fileReport, 0, len(args))
			errs := fieldcode.NewMultiError()
			for _, file := range args {
				report, err := a.scanFile(cmd.Context(), file, mainOnly)
				errs.Add(err)
				if report != nil {
					reports = append(reports, *report)
				}
			}

			if err := writeOutput(cmd.OutOrStdout(), format, reports, func() string {
				return formatFileReports(reports)
			}); err != nil {
				return err
			}
			return errs.Err()
		},
	}

	cmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
	cmd.Flags().Bool("main-only", false, "Scan only word/document.xml")
	return cmd
}

func (a *app) scanFile(ctx context.Context, file string, mainOnly bool) (*fileReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if strings.EqualFold(filepath.Ext(file), ".xml") {
		f, err := os.Open(file)
		if err != nil {
			return nil, fieldcode.NewDocumentError("open", file, err)
		}
		defer f.Close()

		tree, patterns, err := a.parser.ParseDocument(f)
		if err != nil {
			return nil, fieldcode.WithContext(err, "scan", map[string]interface{}{"file": file})
		}
		parts := []fieldcode.PartPatterns{{Part: filepath.Base(file), Tree: tree, Patterns: patterns}}
		return newFileReport(file, parts), nil
	}

	dr, err := fieldcode.OpenDocx(file)
	if err != nil {
		return nil, err
	}

	var parts []fieldcode.PartPatterns
	if mainOnly {
		parts, err = a.parser.ScanParts(ctx, dr, []string{fieldcode.MainDocumentPart})
	} else {
		parts, err = a.parser.ScanPackage(ctx, dr)
	}
	if err != nil {
		err = fieldcode.WithContext(err, "scan", map[string]interface{}{"file": file})
	}
	return newFileReport(file, parts), err
}

func classifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify INSTRUCTION",
		Short: "Classify a single field instruction",
		Long: `Show how a field instruction is recognized.

Example:
  fieldcode classify 'MERGEFIELD customer_name \* MERGEFORMAT'
  fieldcode classify --format json 'IF is_member "Welcome back" "Hello"'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if err := checkFormat(format); err != nil {
				return err
			}

			pattern, err := a.parser.Classifier().Classify(args[0])
			if err != nil {
				return err
			}

			var report *fieldReport
			if pattern != nil {
				r := newFieldReport(pattern, nil)
				report = &r
			}
			return writeOutput(cmd.OutOrStdout(), format, report, func() string {
				if report == nil {
					return "unrecognized\n"
				}
				return formatFieldReport(*report)
			})
		},
	}

	cmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
	return cmd
}

func extentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extent WIDTHxHEIGHT [ARGS...]",
		Short: "Compute the displayed size of a picture",
		Long: `Compute the extent of a picture of the given pixel size from
size and rotation arguments.

Arguments are w:<length>, h:<length> and r:<degrees>; lengths take the units
px (default), cm, in, pt or mm.

Example:
  fieldcode extent 640x480 w:5cm
  fieldcode extent 640x480 w:5cm h:5cm r:90`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if err := checkFormat(format); err != nil {
				return err
			}

			width, height, err := parseSize(args[0])
			if err != nil {
				return err
			}
			extent, err := fieldcode.TransformSize(width, height, args[1:])
			if err != nil {
				return err
			}

			report := newExtentReport(extent)
			return writeOutput(cmd.OutOrStdout(), format, report, func() string {
				return formatExtentReport(report)
			})
		},
	}

	cmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
	return cmd
}

// parseSize parses a pixel size such as 640x480
func parseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q: want WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width < 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height < 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return width, height, nil
}
