package benchmarks

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"github.com/zeu5/affordances-options/server"
)

func ServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Plan over the configured grid and serve the policies over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()
			plan, err := solveGrid(cfg, logger, nil)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			s := server.NewPlanServer(ctx, port, plan, logger)
			s.Start()
			level.Info(logger).Log("msg", "serving plan", "port", port)
			<-ctx.Done()
			return nil
		},
	}
	cmd.PersistentFlags().IntVar(&port, "port", 8080, "Port to serve on")
	return cmd
}
