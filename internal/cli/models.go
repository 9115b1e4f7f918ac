package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ishaan812/gitscribe/internal/config"
	"github.com/ishaan812/gitscribe/internal/constants"
	"github.com/ishaan812/gitscribe/internal/llm"
)

var (
	modelsSetAPIKey string
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage model configuration",
	Long: `View and configure the model provider, model and API key.

Examples:
  gitscribe models                                  # Show current config
  gitscribe models list                             # List installed Ollama models
  gitscribe models set --model qwen2.5-coder        # Change the model
  gitscribe models set --provider gemini --api-key ...`,
	PersistentPreRunE: skipConfigLoad,
	RunE:              runModelsShow,
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available providers and models",
	RunE:  runModelsList,
}

var modelsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set provider, model and API key",
	Long: `Set the provider, model and API key with the global --provider and
--model flags. The result is saved to the config file.`,
	RunE: runModelsSet,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsSetCmd)

	modelsSetCmd.Flags().StringVar(&modelsSetAPIKey, "api-key", "", "Gemini API key")
}

func runModelsShow(cmd *cobra.Command, args []string) error {
	infoColor := color.New(color.FgHiWhite)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println()
	titleColor.Println("  Model Configuration")
	fmt.Println()

	successColor.Print("  Provider:  ")
	infoColor.Println(cfg.Provider)
	successColor.Print("  Model:     ")
	infoColor.Println(cfg.Model())

	switch cfg.Provider {
	case string(constants.ProviderGemini):
		if cfg.GeminiAPIKey != "" {
			successColor.Print("  API Key:   ")
			dimColor.Println(maskSecret(cfg.GeminiAPIKey))
		} else {
			warnColor.Println("  API Key:   not set (GEMINI_API_KEY)")
		}
	default:
		dimColor.Printf("  Base URL:  %s\n", cfg.OllamaBaseURL)
	}

	fmt.Println()
	return nil
}

func runModelsList(cmd *cobra.Command, args []string) error {
	accentColor := color.New(color.FgHiMagenta)
	infoColor := color.New(color.FgHiWhite)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println()
	titleColor.Println("  Available Providers & Models")
	fmt.Println()

	for _, p := range constants.AllProviders {
		accentColor.Printf("  %s", p.Name)
		dimColor.Printf("  %s\n", p.Description)

		provider, _ := constants.ParseProvider(p.Name)
		if provider != constants.ProviderOllama {
			infoColor.Printf("    %s\n", constants.GetDefaultModel(provider))
			fmt.Println()
			continue
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		client := llm.NewOllamaClientWithOptions(llm.WithBaseURL(cfg.OllamaBaseURL), llm.WithModel(cfg.OllamaModel))
		models, err := client.ListModels(ctx)
		cancel()
		if err != nil {
			warnColor.Printf("    Could not reach Ollama at %s: %v\n", cfg.OllamaBaseURL, err)
		} else if len(models) == 0 {
			dimColor.Println("    (no models installed; run 'ollama pull <model>')")
		}
		for _, m := range models {
			marker := " "
			if m == cfg.OllamaModel {
				marker = "*"
			}
			infoColor.Printf("  %s %s\n", marker, m)
		}
		fmt.Println()
	}

	dimColor.Println("  Use 'gitscribe models set --provider <name> --model <model>' to configure.")
	fmt.Println()
	return nil
}

func runModelsSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("provider") && !flags.Changed("model") && modelsSetAPIKey == "" {
		return fmt.Errorf("nothing to set; pass --provider, --model or --api-key, or run 'gitscribe configure'")
	}

	cfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if flags.Changed("provider") {
		cfg.Provider = providerFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if flags.Changed("model") {
		cfg.SetModel(modelFlag)
	}
	if modelsSetAPIKey != "" {
		cfg.GeminiAPIKey = modelsSetAPIKey
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	successColor.Printf("Model config updated (%s / %s)\n", cfg.Provider, cfg.Model())
	return nil
}
