package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ruslano69/tdtp-rowreader/pkg/adapters"
	_ "github.com/ruslano69/tdtp-rowreader/pkg/adapters/mssql"
	_ "github.com/ruslano69/tdtp-rowreader/pkg/adapters/mysql"
	_ "github.com/ruslano69/tdtp-rowreader/pkg/adapters/postgres"
	_ "github.com/ruslano69/tdtp-rowreader/pkg/adapters/sqlite"
	"github.com/ruslano69/tdtp-rowreader/pkg/reader"
	"github.com/ruslano69/tdtp-rowreader/pkg/retry"
	"github.com/ruslano69/tdtp-rowreader/pkg/xlsx"
)

func main() {
	flags := ParseFlags()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *flags.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Handle version
	if *flags.Version {
		PrintVersion()
		return
	}

	// Handle help
	if *flags.Help {
		PrintHelp()
		return
	}

	// Handle config creation
	if *flags.CreateConfig != "" {
		createConfigTemplate(*flags.CreateConfig, *flags.Config)
		return
	}

	if !commandWasSpecified(flags) {
		PrintHelp()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags); err != nil {
		fatal("Command failed: %v", err)
	}
}

// run opens the source reader and routes it to stdout or an XLSX file
func run(ctx context.Context, flags *Flags) error {
	r, closeSource, err := openSource(ctx, flags)
	if err != nil {
		return err
	}
	defer closeSource()
	defer r.Close()

	if *flags.Output != "" {
		rows, err := xlsx.ToXLSX(r, *flags.Output, *flags.Sheet)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Exported %d rows to %s\n", rows, *flags.Output)
		return nil
	}

	return PrintResults(os.Stdout, r)
}

// openSource returns a reader over the requested source and a function
// releasing the connection behind it
func openSource(ctx context.Context, flags *Flags) (*reader.Reader, func(), error) {
	if *flags.ReadXLSX != "" {
		r, err := xlsx.OpenReader(*flags.ReadXLSX)
		return r, func() {}, err
	}

	config, err := LoadConfig(*flags.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	adapter, err := connect(ctx, config.AdapterConfig(flags), config.Retry)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := adapter.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}

	var r *reader.Reader
	if *flags.Procedure != "" {
		r, err = adapter.ExecProcedure(ctx, *flags.Procedure, flags.Params...)
	} else {
		description := *flags.Description
		if description == "" {
			description = "query"
		}
		r, err = adapter.Query(ctx, description, *flags.Query)
	}
	if err != nil {
		release()
		return nil, nil, err
	}
	return r, release, nil
}

// connect creates the adapter and retries Connect on transient failures
func connect(ctx context.Context, cfg adapters.Config, retryCfg retry.Config) (adapters.Adapter, error) {
	adapter, err := adapters.NewWithoutConnect(cfg.Type)
	if err != nil {
		return nil, err
	}

	retryCfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("connect failed, retrying")
	}
	retryer, err := retry.NewRetryer(retryCfg)
	if err != nil {
		return nil, err
	}

	err = retryer.Do(ctx, func(ctx context.Context) error {
		err := adapter.Connect(ctx, cfg)
		if errors.Is(err, context.Canceled) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Type, err)
	}
	return adapter, nil
}

// createConfigTemplate creates a sample configuration file
func createConfigTemplate(dbType, path string) {
	config, err := CreateSampleConfig(dbType)
	if err != nil {
		fatal("%v", err)
	}

	if err := SaveConfig(path, config); err != nil {
		fatal("Failed to save config: %v", err)
	}

	fmt.Printf("✓ Created sample %s config: %s\n", dbType, path)
	fmt.Println("Edit the file with your database credentials and run:")
	fmt.Printf("  tdtpread --config %s --query \"SELECT 1\"\n", path)
}

// commandWasSpecified checks if any command was specified
func commandWasSpecified(flags *Flags) bool {
	return *flags.Query != "" ||
		*flags.Procedure != "" ||
		*flags.ReadXLSX != ""
}

// fatal prints error and exits
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
