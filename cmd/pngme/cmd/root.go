package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/javi11/pngme/internal/commands"
	"github.com/javi11/pngme/internal/config"
)

var (
	configFile string
	verbose    bool

	// appFs is the filesystem every command works on.
	appFs afero.Fs = afero.NewOsFs()

	cfg     *config.Config
	service *commands.Service
)

var rootCmd = &cobra.Command{
	Use:   "pngme",
	Short: "Hide messages in PNG chunks",
	Long: `pngme stores text messages in ancillary chunks of PNG files,
reads them back and removes them again.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./pngme.yaml or ~/.config/pngme/pngme.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfigFs(appFs, configFile)
	if err != nil {
		slog.Default().Error("failed to load config", "err", err)
		return err
	}
	cfg = loaded

	logger := initializeLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	service = commands.NewService(initializeStore(appFs, cfg, logger), cfg, logger)

	return nil
}
