// Package main is the entry point for the relaybots binary
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/twexity/relaybots/config"
	"github.com/twexity/relaybots/internal/app"
)

// Set by ldflags
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "relaybots",
		Short:         "Telegram bots: Instagram downloader and TRON transaction tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		serviceCmd("downloader", "Run the Instagram downloader bot", app.CreateDownloaderApp),
		serviceCmd("tracker", "Run the TRON transaction report bot", app.CreateTrackerApp),
		checkCmd(),
		versionCmd(),
	)
	return root
}

func serviceCmd(use, short string, create func() fx.Option) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fxApp := fx.New(create())
			if err := fxApp.Err(); err != nil {
				return err
			}
			fxApp.Run()
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration from the environment and .env",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Println("downloader: ok")
			if err := cfg.ValidateTracker(); err != nil {
				fmt.Printf("tracker: %v\n", err)
				return nil
			}
			fmt.Println("tracker: ok")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("relaybots %s (commit: %s)\n", version, commit)
		},
	}
}
