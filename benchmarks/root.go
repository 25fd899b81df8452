package benchmarks

import (
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"github.com/zeu5/affordances-options/config"
)

var (
	saveFile   string
	configFile string
	seed       uint64
	logLevel   string
	cpuprofile string
	memprofile string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "affordances-options",
		Short:         "Tabular planning over options with affordances",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file, defaults are used when empty")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed for tie-breaking and rollouts, overrides the configuration when non zero")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "write cpu profile to `file`")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "write memory profile to `file`")
	// adding the subcommands here
	rootCommand.AddCommand(GridOptionsCommand())
	rootCommand.AddCommand(ServeCommand())
	return rootCommand
}

func newLogger() log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, level.Allow(level.ParseDefault(logLevel, level.InfoValue())))
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

// loadConfig reads the configuration and applies the flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if seed != 0 {
		cfg.Planner.Seed = seed
	}
	return cfg, nil
}
