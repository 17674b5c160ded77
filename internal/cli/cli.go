// Package cli wires the cobra command tree: the root "cachesrv"
// command, which starts the cache server, a "config" command that prints the
// resolved configuration, and a "version" command. Adapted from the
// teacher's cmd.go.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/armandparker/cachesrv/internal/cache"
	"github.com/armandparker/cachesrv/internal/config"
	"github.com/armandparker/cachesrv/internal/netutil"
	"github.com/armandparker/cachesrv/internal/obs"
)

// Version is set during build with -ldflags, same as the teacher.
var Version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "cachesrv",
	Short: "cachesrv - an in-memory key/value cache server",
	Long: `cachesrv is a network-accessible in-memory key/value cache
that speaks a subset of a well-known text cache protocol: storing,
retrieving, and removing single keys over line-oriented TCP commands.

Features:
- LRU eviction under strict key-count and byte-size limits
- Binary-safe values with per-record expiration
- Bounded concurrent connections
- Background sampling sweeper for expired keys`,
	Version: Version,
	RunE:    runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := obs.New(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)).
		Int("max_keys", cfg.MaxKeys).
		Int64("max_total_bytes", cfg.MaxTotalBytes).
		Msg("starting cachesrv")

	engine := cache.New(cache.Limits{
		MaxKeys:       cfg.MaxKeys,
		MaxKeyBytes:   cfg.MaxKeyBytes,
		MaxValueBytes: cfg.MaxValueBytes,
		MaxTotalBytes: cfg.MaxTotalBytes,
	}, time.Duration(cfg.DefaultTTLSeconds)*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SweeperEnabled {
		sweeper := cache.NewSweeper(engine,
			time.Duration(cfg.SweeperIntervalSeconds)*time.Second,
			cfg.SweeperSampleSize, log)
		go sweeper.Run(ctx)
	}

	listener := netutil.NewListener(netutil.ListenerOptions{
		Host:                cfg.Host,
		Port:                cfg.Port,
		MaxConcurrentConns:  cfg.MaxConcurrentConnections,
		ShutdownGracePeriod: cfg.ShutdownGracePeriod,
		ConnOptions: netutil.ConnOptions{
			ReadTimeout: time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
			IdleTimeout: time.Duration(cfg.ConnectionIdleTimeoutSeconds) * time.Second,
			MaxKeyBytes: cfg.MaxKeyBytes,
			MaxValBytes: cfg.MaxValueBytes,
		},
	}, engine, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- listener.Run(ctx)
	}()

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
		cancel()
		<-errCh
	case err := <-errCh:
		cancel()
		if err != nil {
			return err
		}
	}

	snap := engine.Stats().Snapshot()
	log.Info().
		Uint64("sets", snap.Sets).
		Uint64("hits", snap.Hits).
		Uint64("misses", snap.Misses).
		Uint64("deletes", snap.Deletes).
		Uint64("evictions", snap.Evictions).
		Uint64("eviction_failures", snap.EvictionFailures).
		Msg("cachesrv stopped")
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		fmt.Println("cachesrv Configuration:")
		fmt.Println(strings.Repeat("=", 31))
		fmt.Printf("Host: %s\n", cfg.Host)
		fmt.Printf("Port: %d\n", cfg.Port)
		fmt.Printf("Max Keys: %d\n", cfg.MaxKeys)
		fmt.Printf("Max Key Bytes: %d\n", cfg.MaxKeyBytes)
		fmt.Printf("Max Value Bytes: %d\n", cfg.MaxValueBytes)
		fmt.Printf("Max Total Bytes: %d\n", cfg.MaxTotalBytes)
		fmt.Printf("Max Concurrent Connections: %d\n", cfg.MaxConcurrentConnections)
		fmt.Printf("Read Timeout Seconds: %d\n", cfg.ReadTimeoutSeconds)
		fmt.Printf("Connection Idle Timeout Seconds: %d\n", cfg.ConnectionIdleTimeoutSeconds)
		fmt.Printf("Default TTL Seconds: %d\n", cfg.DefaultTTLSeconds)
		fmt.Printf("Sweeper Enabled: %t\n", cfg.SweeperEnabled)
		fmt.Printf("Sweeper Interval Seconds: %d\n", cfg.SweeperIntervalSeconds)
		fmt.Printf("Sweeper Sample Size: %d\n", cfg.SweeperSampleSize)
		fmt.Printf("Log Level: %s\n", cfg.LogLevel)
		fmt.Printf("Log Format: %s\n", cfg.LogFormat)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cachesrv v%s\n", Version)
		fmt.Printf("Built with Go %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("host", "H", "0.0.0.0", "Host to bind to")
	rootCmd.PersistentFlags().IntP("port", "p", 11211, "Port to listen on")
	rootCmd.PersistentFlags().Int("max-keys", 3000, "Maximum number of live keys")
	rootCmd.PersistentFlags().Int("max-key-bytes", 250, "Maximum key size in bytes")
	rootCmd.PersistentFlags().Int("max-value-bytes", 102400, "Maximum value size in bytes")
	rootCmd.PersistentFlags().Int64("max-total-bytes", 1073741824, "Maximum total value bytes")
	rootCmd.PersistentFlags().Int("max-concurrent-connections", 10, "Maximum concurrent client connections")
	rootCmd.PersistentFlags().Int("read-timeout-seconds", 30, "Per-read timeout in seconds (0 disables)")
	rootCmd.PersistentFlags().Int("connection-idle-timeout-seconds", 0, "Idle connection timeout in seconds (0 disables)")
	rootCmd.PersistentFlags().Int("default-ttl-seconds", 3600, "Default TTL applied to stored records")
	rootCmd.PersistentFlags().Bool("sweeper-enabled", true, "Enable the background expiration sweeper")
	rootCmd.PersistentFlags().Int("sweeper-interval-seconds", 10, "Sweeper tick interval in seconds")
	rootCmd.PersistentFlags().Int("sweeper-sample-size", 20, "Number of keys sampled per sweep")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("max_keys", rootCmd.PersistentFlags().Lookup("max-keys"))
	viper.BindPFlag("max_key_bytes", rootCmd.PersistentFlags().Lookup("max-key-bytes"))
	viper.BindPFlag("max_value_bytes", rootCmd.PersistentFlags().Lookup("max-value-bytes"))
	viper.BindPFlag("max_total_bytes", rootCmd.PersistentFlags().Lookup("max-total-bytes"))
	viper.BindPFlag("max_concurrent_connections", rootCmd.PersistentFlags().Lookup("max-concurrent-connections"))
	viper.BindPFlag("read_timeout_seconds", rootCmd.PersistentFlags().Lookup("read-timeout-seconds"))
	viper.BindPFlag("connection_idle_timeout_seconds", rootCmd.PersistentFlags().Lookup("connection-idle-timeout-seconds"))
	viper.BindPFlag("default_ttl_seconds", rootCmd.PersistentFlags().Lookup("default-ttl-seconds"))
	viper.BindPFlag("sweeper_enabled", rootCmd.PersistentFlags().Lookup("sweeper-enabled"))
	viper.BindPFlag("sweeper_interval_seconds", rootCmd.PersistentFlags().Lookup("sweeper-interval-seconds"))
	viper.BindPFlag("sweeper_sample_size", rootCmd.PersistentFlags().Lookup("sweeper-sample-size"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute is the main entry point for the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
