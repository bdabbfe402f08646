package cmd

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uisautomation/assetmigrate/internal/lookup"
	"github.com/uisautomation/assetmigrate/internal/migrate"
	"github.com/uisautomation/assetmigrate/internal/transport"
	"github.com/uisautomation/assetmigrate/pkg/documents"
	"github.com/uisautomation/assetmigrate/pkg/errors"
)

var (
	migrateOutput    string
	migrateSkipRows  int
	migrateSkipCols  int
	migrateFormat    string
	migrateFixups    string
	migrateLookupURL string
	migrateStableIDs bool
	migrateTimeout   time.Duration
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [file]",
	Short: "Convert a spreadsheet export into asset documents",
	Long: `Migrate reads the institutional asset register export, normalizes each
row into an asset document, and writes a YAML document stream: one asset
document per input row followed by a single report document summarizing
every department-string resolution observed during the run.

Department names are reconciled against the directory service. Rows whose
fields cannot be determined are still emitted, annotated with structured
errors, so the output row count always matches the input.

Use "-" (or no argument) to read CSV from standard input. XLSX input
requires a file path.`,
	Example: `  assetmigrate migrate assets.csv --output assets.yaml
  assetmigrate migrate assets.xlsx --fixups fixups.yaml --output assets.yaml
  assetmigrate migrate --stable-ids < export.csv > assets.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVarP(&migrateOutput, "output", "o", "-", "output document stream (\"-\" for stdout)")
	migrateCmd.Flags().IntVar(&migrateSkipRows, "skip-rows", 6, "preamble rows before the header row")
	migrateCmd.Flags().IntVar(&migrateSkipCols, "skip-cols", 1, "leading label columns before the data columns")
	migrateCmd.Flags().StringVar(&migrateFormat, "format", "", "input format: csv or xlsx (default: by file extension)")
	migrateCmd.Flags().StringVar(&migrateFixups, "fixups", "", "YAML file of department fixups consulted before the directory service")
	migrateCmd.Flags().StringVar(&migrateLookupURL, "lookup-url", "", "directory service base URL")
	migrateCmd.Flags().BoolVar(&migrateStableIDs, "stable-ids", false, "derive asset ids from row content so re-runs reproduce them")
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", transport.DefaultTimeout, "directory lookup request timeout")

	cobra.CheckErr(viper.BindPFlag("lookup-url", migrateCmd.Flags().Lookup("lookup-url")))

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	lookupURL := viper.GetString("lookup-url")
	if lookupURL == "" {
		return &errors.ConfigError{
			Component: "migrate",
			Message:   "directory service URL not set (--lookup-url or ASSETMIGRATE_LOOKUP_URL)",
		}
	}

	input := ""
	if len(args) == 1 {
		input = args[0]
	}

	source, cleanupIn, err := newSource(input)
	if err != nil {
		return err
	}
	defer cleanupIn()

	out, cleanupOut, err := openOutput(migrateOutput)
	if err != nil {
		return errors.WrapIO("create", migrateOutput, err)
	}
	defer cleanupOut()

	resolverOpts := []lookup.ResolverOption{}
	if migrateFixups != "" {
		fixups, err := lookup.LoadFixups(migrateFixups)
		if err != nil {
			return err
		}
		resolverOpts = append(resolverOpts, lookup.WithFixups(fixups))
	}

	client := lookup.NewClient(lookupURL, transport.New(&transport.NoAuth{}, "", migrateTimeout))
	resolver := lookup.NewResolver(client, resolverOpts...)
	reporter := migrate.NewReporter()

	normalizerOpts := []migrate.NormalizerOption{}
	if migrateStableIDs {
		normalizerOpts = append(normalizerOpts, migrate.WithStableIDs())
	}
	normalizer := migrate.NewNormalizer(resolver, reporter, normalizerOpts...)

	driver := migrate.NewDriver(source, normalizer, reporter, documents.NewEncoder(out))
	return driver.Run(cmd.Context())
}

// newSource picks the source reader from the --format flag or the file
// extension, defaulting to CSV.
func newSource(input string) (migrate.Source, func(), error) {
	format := migrateFormat
	if format == "" {
		if strings.EqualFold(filepath.Ext(input), ".xlsx") {
			format = "xlsx"
		} else {
			format = "csv"
		}
	}

	switch format {
	case "xlsx":
		if input == "" || input == "-" {
			return nil, nil, &errors.ConfigError{
				Component: "migrate",
				Message:   "xlsx input requires a file path",
			}
		}
		source, err := migrate.NewXLSXSource(input, migrateSkipRows, migrateSkipCols)
		if err != nil {
			return nil, nil, err
		}
		return source, func() {}, nil
	case "csv":
		in, cleanup, err := openInput(input)
		if err != nil {
			return nil, nil, errors.WrapIO("open", input, err)
		}
		source, err := migrate.NewCSVSource(in, migrateSkipRows, migrateSkipCols)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		return source, cleanup, nil
	default:
		return nil, nil, &errors.ConfigError{
			Component: "migrate",
			Message:   "unknown input format " + format,
		}
	}
}
