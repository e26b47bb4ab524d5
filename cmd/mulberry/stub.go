package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mulberryleaf/mulberry-cli/internal/stub"
	"github.com/mulberryleaf/mulberry-cli/internal/ui"
)

var stubAddr string

// stubCmd represents the stub command
var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run a local stand-in for the inference service",
	Long: `Serve /health, /predict/leaf-quality and /predict/yield with deterministic
results, plus Prometheus metrics at /metrics. Point the other commands at it
with --api-url http://localhost:8000.`,
	Args: cobra.NoArgs,
	RunE: runStub,
}

func init() {
	stubCmd.Flags().StringVar(&stubAddr, "addr", ":8000", "Listen address")
	viper.BindPFlag("stub.addr", stubCmd.Flags().Lookup("addr"))
}

func runStub(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if !s.quiet() {
		stub.SetLogger(cmd.ErrOrStderr())
	}

	addr := viper.GetString("stub.addr")
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serveStub(ctx, cmd, s, ln)
}

// serveStub serves until ctx is done, then shuts down gracefully.
func serveStub(ctx context.Context, cmd *cobra.Command, s runSettings, ln net.Listener) error {
	srv := &http.Server{
		Handler:           stub.New().Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if !s.quiet() {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Success.Render("✓ Stub inference service listening on ")+ui.Secondary.Render("http://"+ln.Addr().String()))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
