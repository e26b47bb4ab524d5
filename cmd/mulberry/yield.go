package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mulberryleaf/mulberry-cli/internal/api"
	"github.com/mulberryleaf/mulberry-cli/internal/reading"
	"github.com/mulberryleaf/mulberry-cli/internal/ui"
)

var (
	yieldQuality     string
	yieldTemperature string
	yieldHumidity    string
	yieldInteractive bool
)

// yieldCmd represents the yield command
var yieldCmd = &cobra.Command{
	Use:   "yield",
	Short: "Forecast cocoon yield from leaf quality and conditions",
	Long: `Forecast cocoon yield (kg) from average leaf quality, temperature (°C) and humidity (%).

Values are passed to the service unchanged. Use --interactive to enter them in a form.`,
	Args: cobra.NoArgs,
	RunE: runYield,
}

func init() {
	yieldCmd.Flags().StringVar(&yieldQuality, "quality", "", "Average leaf quality score (0-1)")
	yieldCmd.Flags().StringVar(&yieldTemperature, "temperature", "", "Temperature in °C")
	yieldCmd.Flags().StringVar(&yieldHumidity, "humidity", "", "Relative humidity in %")
	yieldCmd.Flags().BoolVarP(&yieldInteractive, "interactive", "i", false, "Enter the values in an interactive form")

	viper.BindPFlag("yield.quality", yieldCmd.Flags().Lookup("quality"))
	viper.BindPFlag("yield.temperature", yieldCmd.Flags().Lookup("temperature"))
	viper.BindPFlag("yield.humidity", yieldCmd.Flags().Lookup("humidity"))
}

func runYield(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	inputs := ui.YieldInputs{
		Quality:     viper.GetString("yield.quality"),
		Temperature: viper.GetString("yield.temperature"),
		Humidity:    viper.GetString("yield.humidity"),
	}
	if yieldInteractive {
		if err := ui.YieldForm(&inputs, reading.Validator); err != nil {
			return err
		}
	}
	in, err := reading.ParseAll(inputs.Quality, inputs.Temperature, inputs.Humidity)
	if err != nil {
		return err
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}
	kg, err := predictYield(cmd, s, client, in)
	if err != nil {
		return err
	}

	if !s.text() {
		return writeStructured(cmd.OutOrStdout(), s.format, newYieldOutput(in, kg))
	}
	ui.NewResultUI(cmd.OutOrStdout(), s.quiet()).PrintYield(yieldView(in, kg))
	return nil
}

func predictYield(cmd *cobra.Command, s runSettings, client *api.Client, in api.YieldRequest) (float64, error) {
	spin := startSpinner(cmd, s, "Forecasting cocoon yield")
	kg, err := client.PredictYield(cmd.Context(), in)
	spin.Stop()
	if err != nil {
		return 0, presentFailure(cmd.ErrOrStderr(), s, client.BaseURL(), err)
	}
	return kg, nil
}
