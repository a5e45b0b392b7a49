package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/nimbuscode/internal/config"
	"github.com/quocvuong92/nimbuscode/internal/display"
	clierrors "github.com/quocvuong92/nimbuscode/internal/errors"
	"github.com/quocvuong92/nimbuscode/internal/logging"
	"github.com/quocvuong92/nimbuscode/internal/prompt"
)

const (
	minTemperature = 0.0
	maxTemperature = 2.0
)

func (app *App) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Save the API key and default settings",
		Long: `Update the persisted configuration or show it.

The file lives at $XDG_CONFIG_HOME/nimbuscode/config.yaml (or the platform
equivalent) unless NIMBUSCODE_CONFIG points elsewhere.`,
		Example: `  nimbuscode config --api-key sk-or-v1-...
  nimbuscode config --model meta-llama/llama-3.1-8b-instruct:free --temperature 0.2
  nimbuscode config --show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := prompt.NewCommandRequest(prompt.SubcommandConfig, nil, changedFlags(cmd.LocalFlags()))
			app.exitCode = app.Dispatch(cmd.Context(), req)
			return nil
		},
	}

	cmd.Flags().String(prompt.FlagAPIKey, "", "OpenRouter API key to store")
	cmd.Flags().String(prompt.FlagModel, "", "Default model ID")
	cmd.Flags().Int(prompt.FlagMaxTokens, 0, "Default maximum tokens per response")
	cmd.Flags().Float64(prompt.FlagTemperature, 0, "Default sampling temperature (0-2)")
	cmd.Flags().Bool(prompt.FlagShow, false, "Show the current configuration")

	return cmd
}

// runConfig applies the config flags to the file and optionally prints it
func (app *App) runConfig(req prompt.CommandRequest) error {
	if len(req.Flags) == 0 {
		return clierrors.NewInputError("config needs at least one of --api-key, --model, --max-tokens, --temperature or --show", nil)
	}

	update, err := parseConfigUpdate(req)
	if err != nil {
		return err
	}

	store, err := app.configStore()
	if err != nil {
		return err
	}
	fc := app.fileConfig()

	if !update.IsEmpty() {
		fc.Merge(update)
		if err := store.Save(fc); err != nil {
			return err
		}
		app.logger.Debug("config saved", logging.Fields{"path": store.Path()})
		display.ShowSuccess(app.stdout, fmt.Sprintf("Configuration saved to %s", store.Path()))
	}

	if show, _ := strconv.ParseBool(req.Flag(prompt.FlagShow)); show {
		display.ShowSettings(app.stdout, store.Path(), settingsRows(fc))
	}
	return nil
}

// parseConfigUpdate converts the flag strings into a partial FileConfig
func parseConfigUpdate(req prompt.CommandRequest) (*config.FileConfig, error) {
	update := &config.FileConfig{}

	if v, ok := req.Flags[prompt.FlagAPIKey]; ok {
		key := strings.TrimSpace(v)
		if key == "" {
			return nil, clierrors.NewInputError("--api-key must not be empty", nil)
		}
		update.APIKey = key
	}
	if v, ok := req.Flags[prompt.FlagModel]; ok {
		update.DefaultModel = strings.TrimSpace(v)
	}
	if v, ok := req.Flags[prompt.FlagMaxTokens]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, clierrors.NewInputError(fmt.Sprintf("--max-tokens must be a positive integer, got %q", v), nil)
		}
		update.MaxTokens = n
	}
	if v, ok := req.Flags[prompt.FlagTemperature]; ok {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t < minTemperature || t > maxTemperature {
			return nil, clierrors.NewInputError(fmt.Sprintf("--temperature must be between %.0f and %.0f, got %q", minTemperature, maxTemperature, v), nil)
		}
		update.Temperature = &t
	}
	return update, nil
}

func settingsRows(fc *config.FileConfig) [][2]string {
	model := fc.DefaultModel
	if model == "" {
		model = config.DefaultModel + " (default)"
	}
	maxTokens := strconv.Itoa(config.DefaultMaxTokens) + " (default)"
	if fc.MaxTokens > 0 {
		maxTokens = strconv.Itoa(fc.MaxTokens)
	}
	temperature := strconv.FormatFloat(config.DefaultTemperature, 'g', -1, 64) + " (default)"
	if fc.Temperature != nil {
		temperature = strconv.FormatFloat(*fc.Temperature, 'g', -1, 64)
	}
	return [][2]string{
		{"api_key", config.MaskKey(fc.APIKey)},
		{"default_model", model},
		{"max_tokens", maxTokens},
		{"temperature", temperature},
	}
}
