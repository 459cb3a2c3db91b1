// Command acctsql runs the extract and SQL generation pipeline offline,
// without the HTTP service.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"AcctEventSQL/internal/checksum"
	"AcctEventSQL/internal/config"
	"AcctEventSQL/internal/extract"
	"AcctEventSQL/internal/sheet"
	"AcctEventSQL/internal/sqlgen"
	"AcctEventSQL/internal/templates"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		envFile  string
		logLevel string
	)
	log := logrus.New()

	rootCmd := &cobra.Command{
		Use:   "acctsql",
		Short: "Extract accounting events from spreadsheets and generate validation SQL",
		Long: `acctsql reads an accounting event template (.xlsx, .xls or .csv),
extracts the C..AI columns and renders the reconciliation query and
cleanup statements for a given event date.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				_ = godotenv.Load(envFile)
			}
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %s", logLevel)
			}
			log.SetLevel(level)
			log.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Optional .env file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newExtractCmd(log),
		newKeysCmd(),
		newGenerateCmd(log),
		newTemplateCmd(log),
	)
	return rootCmd
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func newExtractCmd(log *logrus.Logger) *cobra.Command {
	var (
		outputPath string
		pretty     bool
		kindFlag   string
		expected   string
	)
	cmd := &cobra.Command{
		Use:   "extract [input]",
		Short: "Extract rows from a template file and print them as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			kind := sheet.Kind(kindFlag)
			if kindFlag == "" {
				k, ok := sheet.KindForFilename(input)
				if !ok {
					return fmt.Errorf("cannot tell the file kind of %s, use --kind xlsx or --kind csv", input)
				}
				kind = k
			}

			data, err := readInput(cmd, input)
			if err != nil {
				return err
			}
			if expected != "" {
				match, err := checksum.NewChecksumMatcher(expected).Match(data)
				if err != nil {
					return err
				}
				if !match {
					return fmt.Errorf("%s has fingerprint %s, expected %s", input, checksum.Fingerprint(data), expected)
				}
			}
			res, err := extract.Extract(data, kind)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			log.WithFields(logrus.Fields{
				"file":        input,
				"rows":        len(res.Rows),
				"fingerprint": checksum.Fingerprint(data),
			}).Info("extracted")

			if outputPath == "" {
				return writeJSON(cmd.OutOrStdout(), res, pretty)
			}
			var buf bytes.Buffer
			if err := writeJSON(&buf, res, pretty); err != nil {
				return err
			}
			return os.WriteFile(outputPath, buf.Bytes(), 0644)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Input kind: xlsx or csv (default: from the file extension)")
	cmd.Flags().StringVar(&expected, "expect-fingerprint", "", "Refuse the input unless its fingerprint matches (as reported by the HTTP extract endpoint)")
	return cmd
}

// loadRows accepts either a bare JSON array of rows or the object printed
// by the extract command.
func loadRows(data []byte) ([]extract.Row, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Rows []extract.Row `json:"rows"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, err
		}
		return wrapped.Rows, nil
	}
	var rows []extract.Row
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys [rows.json]",
		Short: "Print the cleanup keys and LIKE patterns derived from rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			rows, err := loadRows(data)
			if err != nil {
				return fmt.Errorf("invalid rows: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), sqlgen.DeriveKeys(rows), true)
		},
	}
}

var sqlFiles = []string{"main.sql", "running_no.sql", "success_events.sql", "fail_events.sql"}

func newGenerateCmd(log *logrus.Logger) *cobra.Command {
	var (
		dateID      string
		mode        string
		confirmText string
		phrase      string
		requireConf bool
		outDir      string
	)
	cmd := &cobra.Command{
		Use:   "generate [rows.json]",
		Short: "Render the validation query and cleanup statements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			rows, err := loadRows(data)
			if err != nil {
				return fmt.Errorf("invalid rows: %w", err)
			}

			gen := sqlgen.NewGenerator(sqlgen.ConfirmPolicy{Enabled: requireConf, Phrase: phrase})
			res, err := gen.Generate(sqlgen.Request{
				Rows:        rows,
				ConfirmText: confirmText,
				DateID:      dateID,
				Mode:        sqlgen.Mode(mode),
			})
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"rows": len(rows), "keys": len(res.Keys.Keys)}).Info("generated")

			statements := []string{res.Main, res.RunningNo, res.SuccessEvents, res.FailEvents}
			if outDir == "" {
				out := cmd.OutOrStdout()
				for i, s := range statements {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintln(out, s)
				}
				return nil
			}
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return err
			}
			for i, s := range statements {
				if err := os.WriteFile(filepath.Join(outDir, sqlFiles[i]), []byte(s+"\n"), 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dateID, "date", "", "Event date id, 8 digits, e.g. 20260615")
	cmd.Flags().StringVar(&mode, "mode", string(sqlgen.ModeSuccess), "Reconciliation mode: success or fail")
	cmd.Flags().StringVar(&confirmText, "confirm", "", "Confirmation text")
	cmd.Flags().StringVar(&phrase, "phrase", sqlgen.DefaultConfirmPhrase, "Required confirmation phrase")
	cmd.Flags().BoolVar(&requireConf, "require-confirmation", false, "Refuse to generate unless --confirm matches --phrase")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory for one .sql file per statement (default: stdout)")
	return cmd
}

func newTemplateCmd(log *logrus.Logger) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the blank xlsx and csv upload templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := templates.WriteAll(context.Background(), dir); err != nil {
				return err
			}
			log.WithField("dir", dir).Info("templates written")
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, templates.XLSXName))
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, templates.CSVName))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", config.DefaultTemplateDir, "Output directory")
	return cmd
}
