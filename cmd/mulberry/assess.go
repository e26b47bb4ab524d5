package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mulberryleaf/mulberry-cli/internal/reading"
	"github.com/mulberryleaf/mulberry-cli/internal/ui"
)

var (
	assessTemperature string
	assessHumidity    string
)

// assessCmd represents the assess command
var assessCmd = &cobra.Command{
	Use:   "assess <image>",
	Short: "Classify a leaf photo, then forecast cocoon yield from it",
	Long: `Check the service, classify the leaf photo, and carry its confidence into a
yield forecast as the average leaf quality.

With --temperature and --humidity the forecast runs straight away. Otherwise,
on a terminal, you are asked whether to continue and the yield form opens
pre-filled with the quality score.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().StringVar(&assessTemperature, "temperature", "", "Temperature in °C")
	assessCmd.Flags().StringVar(&assessHumidity, "humidity", "", "Relative humidity in %")
}

func runAssess(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	client, err := newAPIClient()
	if err != nil {
		return err
	}
	errOut := cmd.ErrOrStderr()
	results := ui.NewResultUI(cmd.OutOrStdout(), s.quiet())

	if _, err := client.Health(cmd.Context()); err != nil {
		return presentFailure(errOut, s, client.BaseURL(), err)
	}
	logStep(errOut, s, "Service reachable at %s", client.BaseURL())

	res, err := predictQuality(cmd, s, client, args[0])
	if err != nil {
		return err
	}
	out := assessOutput{Quality: newQualityOutput(args[0], res)}
	if s.text() {
		results.PrintQuality(qualityView(res))
	}

	inputs := ui.YieldInputs{
		Quality:     reading.Format(res.Confidence),
		Temperature: assessTemperature,
		Humidity:    assessHumidity,
	}

	haveConditions := assessTemperature != "" && assessHumidity != ""
	if !haveConditions {
		if !stdinIsTerminal(cmd) {
			logStep(errOut, s, "Pass --temperature and --humidity to forecast cocoon yield.")
			return finishAssess(cmd, s, out)
		}
		proceed, err := ui.Confirm("Predict cocoon yield?", "The leaf quality score will be pre-filled from this analysis.")
		if err != nil {
			return err
		}
		if !proceed {
			return finishAssess(cmd, s, out)
		}
		if err := ui.YieldForm(&inputs, reading.Validator); err != nil {
			return err
		}
	}

	in, err := reading.ParseAll(inputs.Quality, inputs.Temperature, inputs.Humidity)
	if err != nil {
		return err
	}
	kg, err := predictYield(cmd, s, client, in)
	if err != nil {
		return err
	}
	y := newYieldOutput(in, kg)
	out.Yield = &y
	if s.text() {
		results.PrintYield(yieldView(in, kg))
	}
	return finishAssess(cmd, s, out)
}

func finishAssess(cmd *cobra.Command, s runSettings, out assessOutput) error {
	if s.text() {
		return nil
	}
	return writeStructured(cmd.OutOrStdout(), s.format, out)
}
