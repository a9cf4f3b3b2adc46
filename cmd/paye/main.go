package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukpaye/payroll-engine/internal/calculation"
	"github.com/ukpaye/payroll-engine/internal/config"
	"github.com/ukpaye/payroll-engine/internal/domain"
	"github.com/ukpaye/payroll-engine/internal/output"
	"github.com/ukpaye/payroll-engine/internal/payrun"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "paye %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "paye",
	Short: "UK payroll deductions calculator",
	Long:  "Calculates income tax, National Insurance, student loans, pension, attachment orders and statutory payment recovery for a pay run",
	// Errors are printed once by main
	SilenceErrors: true,
	SilenceUsage:  true,
}

// loadReferenceData reads the file named by --reference-data, or the embedded data
func loadReferenceData(cmd *cobra.Command) (*domain.ReferenceData, error) {
	file, _ := cmd.Flags().GetString("reference-data")
	if file == "" {
		return config.DefaultReferenceData()
	}
	return config.NewReferenceDataLoader().LoadFromFile(file)
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [payroll-file]",
	Short: "Calculate deductions for a pay run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		input, err := parser.LoadFromFile(args[0])
		if err != nil {
			return err
		}

		if ytdFile, _ := cmd.Flags().GetString("ytd"); ytdFile != "" {
			ytd, err := parser.LoadYtdFromFile(ytdFile)
			if err != nil {
				return err
			}
			if missing := config.ApplyYtd(input, ytd); len(missing) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "No year to date in %s for: %s\n", ytdFile, strings.Join(missing, ", "))
			}
		}

		rd, err := loadReferenceData(cmd)
		if err != nil {
			return err
		}

		factory := calculation.NewFactory(rd, nil)
		var opts []payrun.Option
		if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
			factory.SetLogger(simpleCLILogger{})
			opts = append(opts, payrun.WithLogger(simpleCLILogger{}))
		}
		if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
			opts = append(opts, payrun.WithConcurrency(n))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		run, err := payrun.NewEngine(factory, opts...).Run(ctx, *input)
		if err != nil {
			return err
		}

		if ytdOut, _ := cmd.Flags().GetString("ytd-out"); ytdOut != "" {
			if err := output.SaveYtd(run, ytdOut); err != nil {
				return err
			}
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
			files, err := output.GenerateReport(run, outputFormat, dir)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", f)
			}
			return nil
		}

		f := output.GetFormatterByName(outputFormat)
		if f == nil {
			return fmt.Errorf("%w: %q. Try one of: %s", output.ErrUnsupportedFormat, outputFormat,
				strings.Join(output.AvailableFormatterNames(), ", "))
		}
		data, err := f.Format(run)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [reference-data-file]",
	Short: "Validate a reference data file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rd, err := config.NewReferenceDataLoader().LoadFromFile(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Reference data %s is valid\n", rd.Source)
		fmt.Fprintf(out, "  %-20s %d windows\n", domain.CollectionTaxBands, len(rd.TaxBands))
		fmt.Fprintf(out, "  %-20s %d windows\n", domain.CollectionNi, len(rd.Ni))
		fmt.Fprintf(out, "  %-20s %d windows\n", domain.CollectionStudentLoans, len(rd.StudentLoans))
		fmt.Fprintf(out, "  %-20s %d windows\n", domain.CollectionPensions, len(rd.Pensions))
		fmt.Fprintf(out, "  %-20s %d windows\n", domain.CollectionAttachments, len(rd.Attachments))
		fmt.Fprintf(out, "  %-20s %d windows\n", domain.CollectionReclaim, len(rd.Reclaim))

		if payroll, _ := cmd.Flags().GetString("payroll"); payroll != "" {
			if _, err := config.NewInputParser().LoadFromFile(payroll); err != nil {
				return err
			}
			fmt.Fprintf(out, "Payroll file %s is valid\n", payroll)
		}
		return nil
	},
}

func init() {
	calculateCmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+", or all with --output-dir)")
	calculateCmd.Flags().StringP("reference-data", "r", "", "Path to a reference data file (default: embedded UK rates)")
	calculateCmd.Flags().String("ytd", "", "Year to date file from a previous run, overriding the payroll file's ytd blocks")
	calculateCmd.Flags().String("ytd-out", "", "Write the year to date after this run to a file")
	calculateCmd.Flags().StringP("output-dir", "o", "", "Write reports to this directory instead of stdout")
	calculateCmd.Flags().Int("concurrency", 0, "Employees calculated at once (default: number of CPUs)")
	calculateCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	validateCmd.Flags().String("payroll", "", "Also validate a payroll file")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
