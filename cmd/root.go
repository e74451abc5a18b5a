package cmd

import (
	"context"
	"fmt"
	u "net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rjindal/segfetch/internal/download"
	"github.com/rjindal/segfetch/internal/output"
	"github.com/rjindal/segfetch/internal/sources"
	"github.com/rjindal/segfetch/internal/utils"
	"github.com/spf13/cobra"
)

var (
	saveAs          string
	destinationDir  string
	connections     int
	bufferSize      int
	updateFrequency int
	bearerToken     string
	configFile      string
	debug           bool
)

var SegfetchVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "segfetch [URL]",
	Short:   "Segfetch downloads a file over parallel byte-range connections",
	Version: SegfetchVersion,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(debug)
		url := args[0]
		if !utils.IsS3URL(url) {
			if _, err := u.Parse(url); err != nil {
				output.PrintError("Invalid URL format")
				os.Exit(1)
			}
		}
		cfg := utils.DefaultConfig()
		if configFile != "" {
			loaded, err := utils.ReadConfig(configFile)
			if err != nil {
				output.PrintError(fmt.Sprintf("Failed to read config file: %v", err))
				os.Exit(1)
			}
			cfg = loaded
		}
		// Flags set explicitly override the config file.
		if cmd.Flags().Changed("connections") {
			cfg.Connections = connections
		}
		if cmd.Flags().Changed("buffer-size") {
			cfg.BufferSize = bufferSize
		}
		if cmd.Flags().Changed("update-frequency") {
			cfg.UpdateFrequencyMs = updateFrequency
		}
		if cmd.Flags().Changed("dir") {
			cfg.DestinationDir = destinationDir
		}
		if cmd.Flags().Changed("token") {
			cfg.BearerToken = bearerToken
		}

		clientCfg := utils.HTTPClientConfig{
			KATimeout:   90 * time.Second,
			UserAgent:   "segfetch/" + SegfetchVersion,
			BearerToken: cfg.BearerToken,
		}
		src, err := sources.Resolve(url, clientCfg)
		if err != nil {
			output.PrintError(fmt.Sprintf("Error: %v", err))
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		renderer := output.NewProgressRenderer()
		result, err := download.Run(ctx, src, download.Options{
			URL:             url,
			SaveAs:          saveAs,
			DestinationDir:  cfg.DestinationDir,
			Connections:     cfg.Connections,
			BufferSize:      cfg.BufferSize,
			UpdateFrequency: time.Duration(cfg.UpdateFrequencyMs) * time.Millisecond,
			BearerToken:     cfg.BearerToken,
			OnProgress:      renderer.Render,
			OnComplete:      renderer.Finish,
		})
		if err != nil {
			if result == nil {
				fmt.Println()
				output.PrintError(fmt.Sprintf("Download failed: %v", err))
			}
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&saveAs, "output", "o", "", "Save the file under this name")
	rootCmd.Flags().StringVarP(&destinationDir, "dir", "d", "", "Directory to save the file in")
	rootCmd.Flags().IntVarP(&connections, "connections", "c", utils.DefaultConnections, "Number of parallel connections")
	rootCmd.Flags().IntVarP(&bufferSize, "buffer-size", "b", utils.DefaultBufferSize, "I/O chunk size in bytes")
	rootCmd.Flags().IntVar(&updateFrequency, "update-frequency", utils.DefaultUpdateFrequencyMs, "Progress update interval in milliseconds")
	rootCmd.Flags().StringVarP(&bearerToken, "token", "t", "", "Bearer token for authenticated resources")
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to YAML config file with defaults")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
