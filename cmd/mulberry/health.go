package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mulberryleaf/mulberry-cli/internal/ui"
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the inference service is reachable",
	Long:  "Call GET /health on the configured inference service. Exits 1 when the service is unavailable.",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	spin := startSpinner(cmd, s, "Contacting "+client.BaseURL())
	h, err := client.Health(cmd.Context())
	spin.Stop()

	if err != nil {
		if !s.text() {
			if werr := writeStructured(cmd.OutOrStdout(), s.format, newHealthOutput(client.BaseURL(), nil)); werr != nil {
				return werr
			}
		}
		return presentFailure(cmd.ErrOrStderr(), s, client.BaseURL(), err)
	}

	if !s.text() {
		return writeStructured(cmd.OutOrStdout(), s.format, newHealthOutput(client.BaseURL(), &h))
	}
	ui.NewResultUI(cmd.OutOrStdout(), s.quiet()).PrintHealth(healthView(client.BaseURL(), h))
	return nil
}
