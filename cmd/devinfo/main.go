package main

import (
	"fmt"
	"os"
	"time"

	"github.com/goliatone/go-devinfo/internal/logging"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	propFiles     []string
	vendorProfile string
	deviceProfile string
	userProfile   string
	outputFormat  string
	logLevel      string
	storagePath   string
	interval      time.Duration
	screenFlags   [3]int32

	rootCmd *cobra.Command
	logger  hclog.Logger
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "devinfo",
		Short:         "Resolve and normalize device specifications",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger = logging.New("devinfo", logging.Level(logLevel), cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringArrayVarP(&propFiles, "props", "p", envList("DEVINFO_PROPS"), "build.prop file to read (repeatable, first wins)")
	flags.StringVar(&vendorProfile, "vendor-profile", os.Getenv("DEVINFO_VENDOR_PROFILE"), "vendor profile YAML")
	flags.StringVar(&deviceProfile, "device-profile", os.Getenv("DEVINFO_DEVICE_PROFILE"), "device profile YAML")
	flags.StringVar(&userProfile, "profile", os.Getenv("DEVINFO_PROFILE"), "user profile YAML")
	flags.StringVarP(&outputFormat, "output", "o", envOr("DEVINFO_OUTPUT", "text"), "output format: text, json or yaml")
	flags.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(showCmd(), watchCmd(), resolveCmd(), normalizeCmd(), progressCmd(), profileCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "devinfo: %v\n", err)
		os.Exit(1)
	}
}
