package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	rrrArm "rrr_arm"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over HTTP",
	Long:  `Starts an HTTP server exposing /state, /solve, /workspace, /trajectory, /history, /scene.svg and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadArmConfig(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		delay, _ := cmd.Flags().GetDuration("delay")

		sim, err := rrrArm.NewSimulator(cfg, logger, rrrArm.WithFrameDelay(delay))
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           rrrArm.NewHandler(sim, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Infof("Listening on %s", addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "server failed")
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().Duration("delay", rrrArm.DefaultFrameDelay, "Pause between trajectory frames")
}
