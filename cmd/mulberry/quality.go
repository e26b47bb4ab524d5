package cmd

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/mulberryleaf/mulberry-cli/internal/api"
	"github.com/mulberryleaf/mulberry-cli/internal/apperr"
	"github.com/mulberryleaf/mulberry-cli/internal/ui"
)

// qualityCmd represents the quality command
var qualityCmd = &cobra.Command{
	Use:   "quality <image>",
	Short: "Classify the quality of a mulberry leaf photo",
	Long:  "Upload a leaf photo to the inference service and print the predicted quality class with its confidence.",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuality,
}

func runQuality(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	res, err := predictQuality(cmd, s, client, args[0])
	if err != nil {
		return err
	}

	if !s.text() {
		return writeStructured(cmd.OutOrStdout(), s.format, newQualityOutput(args[0], res))
	}
	ui.NewResultUI(cmd.OutOrStdout(), s.quiet()).PrintQuality(qualityView(res))
	return nil
}

// predictQuality runs the upload with a spinner and maps failures for
// presentation. A missing image is reported as a usage error.
func predictQuality(cmd *cobra.Command, s runSettings, client *api.Client, image string) (*api.QualityResult, error) {
	spin := startSpinner(cmd, s, "Analyzing leaf image")
	res, err := client.PredictQuality(cmd.Context(), image)
	spin.Stop()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Userf("image %s does not exist", image)
		}
		return nil, presentFailure(cmd.ErrOrStderr(), s, client.BaseURL(), err)
	}
	return res, nil
}
