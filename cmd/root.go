package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dev-shimada/csv-record-mapper/internal/csv"
	internalhttp "github.com/dev-shimada/csv-record-mapper/internal/http"
	"github.com/dev-shimada/csv-record-mapper/internal/mapper"
	"github.com/dev-shimada/csv-record-mapper/internal/output"
	"github.com/dev-shimada/csv-record-mapper/internal/request"
	"github.com/dev-shimada/csv-record-mapper/internal/source"
	"github.com/dev-shimada/csv-record-mapper/internal/worker"
)

var (
	csvPath   string
	delimiter string
	encoding  string
	format    string
	verbose   bool

	urlTemplate    string
	headerTemplate string
	bodyTemplate   string
	method         string
	parallel       int
	timeout        int
	rate           int
	dryRun         bool
	humanReadable  bool
)

var rootCmd = &cobra.Command{
	Use:           "csvmap",
	Short:         "Map the rows of a delimited file to named records.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(cmd.ErrOrStderr(), verbose)
		return output.ValidFormat(format)
	},
}

func setupLogger(w io.Writer, verbose bool) {
	var programLevel = new(slog.LevelVar)
	switch {
	case verbose:
		programLevel.Set(slog.LevelDebug)
	default:
		programLevel.Set(slog.LevelInfo)
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: programLevel})
	slog.SetDefault(slog.New(handler))
	log.SetOutput(slog.NewLogLogger(handler, slog.LevelInfo).Writer())
}

// mapFunc runs one of the mapping strategies against a local file.
type mapFunc func(m *mapper.Mapper, path string) ([]mapper.Record, error)

func run(cmd *cobra.Command, fn mapFunc) error {
	comma, err := csv.ParseDelimiter(delimiter)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	path, cleanup, err := source.NewResolver().Resolve(ctx, csvPath)
	if err != nil {
		return err
	}
	defer cleanup()

	m := &mapper.Mapper{Delimiter: comma, Encoding: encoding}
	records, err := fn(m, path)
	if err != nil {
		return err
	}
	slog.Debug("mapped records", "path", csvPath, "count", len(records))

	if urlTemplate != "" {
		return dispatch(ctx, cmd.OutOrStdout(), records)
	}
	return output.Write(cmd.OutOrStdout(), format, records)
}

func dispatch(ctx context.Context, w io.Writer, records []mapper.Record) error {
	factory, err := request.NewFactory(method, urlTemplate, headerTemplate, bodyTemplate)
	if err != nil {
		return err
	}
	built, err := factory.BuildAll(records)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	reqs := make(chan *http.Request, len(built))
	for _, req := range built {
		reqs <- req
	}
	close(reqs)

	client := internalhttp.NewClient(time.Duration(timeout)*time.Second, "")
	results := worker.NewPool(client, parallel, rate, dryRun).Run(ctx, reqs)
	if humanReadable {
		if err := worker.Report(w, results); err != nil {
			return err
		}
	}
	if n := worker.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d requests failed", n, len(results))
	}
	return nil
}

// userMessage maps library errors to what the user sees on failure.
func userMessage(err error) string {
	var cce *mapper.ColumnCountError
	switch {
	case errors.Is(err, mapper.ErrFileNotFound):
		return fmt.Sprintf("file not found: %s", csvPath)
	case errors.Is(err, mapper.ErrEmptyColumnSpec):
		return "at least one column name is required (--columns)"
	case errors.As(err, &cce):
		return fmt.Sprintf("record %d has %d values but %d columns are defined", cce.Row+1, cce.Got, cce.Want)
	}
	return err.Error()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(userMessage(err), "error", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&csvPath, "csv", "c", "", "Path to CSV file or s3://bucket/key (required)")
	pf.StringVarP(&delimiter, "delimiter", "D", ";", `Field delimiter, a single character ("\t" for tab)`)
	pf.StringVarP(&encoding, "encoding", "e", "", "Input encoding: utf-8, latin1, windows-1250, windows-1251, windows-1252 or auto")
	pf.StringVarP(&format, "format", "f", output.FormatJSON, "Output format: json, ndjson or table")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	pf.StringVarP(&urlTemplate, "url", "u", "", "Send one request per record to this URL template instead of printing records")
	pf.StringVar(&headerTemplate, "header", "", "Header template")
	pf.StringVarP(&bodyTemplate, "body", "b", "", "Body template")
	pf.StringVarP(&method, "method", "m", "GET", "HTTP method")
	pf.IntVarP(&parallel, "parallel", "p", 1, "Number of parallel requests")
	pf.IntVarP(&timeout, "timeout", "t", 30, "Request timeout in seconds")
	pf.IntVarP(&rate, "rate", "r", 0, "Rate limit in requests per second")
	pf.BoolVarP(&dryRun, "dry-run", "d", false, "Dry run mode (no requests sent)")
	pf.BoolVarP(&humanReadable, "human-readable", "H", false, "Print a table of request results")

	if err := rootCmd.MarkPersistentFlagRequired("csv"); err != nil {
		slog.Error(fmt.Sprintf("failed to mark csv flag as required: %v", err))
		os.Exit(1)
	}

	rootCmd.AddCommand(columnsCmd, headerCmd)
}
