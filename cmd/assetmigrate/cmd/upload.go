package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uisautomation/assetmigrate/internal/transport"
	"github.com/uisautomation/assetmigrate/internal/upload"
	"github.com/uisautomation/assetmigrate/pkg/documents"
	"github.com/uisautomation/assetmigrate/pkg/errors"
	"github.com/uisautomation/assetmigrate/pkg/logging"
)

var (
	uploadOutput   string
	uploadEndpoint string
	uploadToken    string
	uploadResume   string
	uploadTimeout  time.Duration
)

var uploadCmd = &cobra.Command{
	Use:   "upload DOCUMENT...",
	Short: "Upload asset documents to the register backend",
	Long: `Upload reads previously migrated asset document streams and submits
each asset record to the register backend, writing one upload result
document per attempt in the same order.

A failed upload never blocks the records after it: failures are captured
in the result stream for inspection, and the process exit code reflects
only run-level problems. Re-running upload re-attempts every record
unless --resume is given a prior result stream, in which case records
already uploaded successfully are skipped.`,
	Example: `  assetmigrate upload --endpoint https://iar.example/assets assets.yaml
  assetmigrate upload --endpoint https://iar.example/assets \
      --resume results.yaml --output results2.yaml assets.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadOutput, "output", "o", "-", "output result stream (\"-\" for stdout)")
	uploadCmd.Flags().StringVar(&uploadEndpoint, "endpoint", "", "register backend endpoint URL")
	uploadCmd.Flags().StringVar(&uploadToken, "token", "", "bearer token for the register backend")
	uploadCmd.Flags().StringVar(&uploadResume, "resume", "", "prior result stream; skip records already uploaded successfully")
	uploadCmd.Flags().DurationVar(&uploadTimeout, "timeout", transport.DefaultTimeout, "upload request timeout")

	cobra.CheckErr(viper.BindPFlag("endpoint", uploadCmd.Flags().Lookup("endpoint")))
	cobra.CheckErr(viper.BindPFlag("token", uploadCmd.Flags().Lookup("token")))

	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	endpoint := viper.GetString("endpoint")
	if endpoint == "" {
		return &errors.ConfigError{
			Component: "upload",
			Message:   "backend endpoint not set (--endpoint or ASSETMIGRATE_ENDPOINT)",
		}
	}
	token := viper.GetString("token")

	var docs []documents.AssetDocument
	for _, path := range args {
		logging.Info().Str("file", path).Msg("Loading asset documents")

		in, cleanup, err := openInput(path)
		if err != nil {
			return errors.WrapIO("open", path, err)
		}
		loaded, err := documents.DecodeAssets(in)
		cleanup()
		if err != nil {
			return err
		}
		docs = append(docs, loaded...)
	}

	driverOpts := []upload.DriverOption{}
	if uploadResume != "" {
		f, err := os.Open(uploadResume)
		if err != nil {
			return errors.WrapIO("open", uploadResume, err)
		}
		prior, err := documents.DecodeResults(f)
		_ = f.Close()
		if err != nil {
			return err
		}
		driverOpts = append(driverOpts, upload.WithResume(prior))
	}

	out, cleanupOut, err := openOutput(uploadOutput)
	if err != nil {
		return errors.WrapIO("create", uploadOutput, err)
	}
	defer cleanupOut()

	auth := transport.Authenticator(&transport.NoAuth{})
	if token != "" {
		auth = &transport.BearerAuth{}
	}
	client := upload.NewClient(endpoint, transport.New(auth, token, uploadTimeout))

	driver := upload.NewDriver(client, documents.NewEncoder(out), driverOpts...)
	return driver.Run(cmd.Context(), docs)
}
