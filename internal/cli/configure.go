package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ishaan812/gitscribe/internal/config"
	"github.com/ishaan812/gitscribe/internal/constants"
	"github.com/ishaan812/gitscribe/internal/tui"
)

var (
	configureLegacy bool
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure gitscribe settings",
	Long: `Configure the model provider, model, output language and streaming.

Settings are stored in ~/.gitscribe/config.json. Environment variables
(OLLAMA_HOST, GEMINI_API_KEY, GITSCRIBE_PROVIDER, GITSCRIBE_MODEL,
GITSCRIBE_LANGUAGE) and a .env file in the working directory override them.

Examples:
  gitscribe configure              # Interactive TUI configuration
  gitscribe configure --legacy     # Text-based configuration`,
	PersistentPreRunE: skipConfigLoad,
	RunE:              runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
	configureCmd.Flags().BoolVar(&configureLegacy, "legacy", false, "Use legacy text-based configuration")
}

// skipConfigLoad replaces the root hook for commands that edit the saved
// config and must start from the file alone.
func skipConfigLoad(cmd *cobra.Command, args []string) error {
	return nil
}

func runConfigure(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !configureLegacy && isInteractive() {
		_, err := tui.RunConfigure(cfg, (*config.Config).Save)
		if err != nil {
			if err.Error() == "configuration canceled" {
				fmt.Println("Configuration canceled.")
				return nil
			}
			fmt.Println("Falling back to text-based configuration...")
			return runConfigureLegacy(cfg, os.Stdin)
		}
		return nil
	}

	return runConfigureLegacy(cfg, os.Stdin)
}

func runConfigureLegacy(cfg *config.Config, in io.Reader) error {
	reader := bufio.NewReader(in)

	promptColor := color.New(color.FgHiYellow)
	infoColor := color.New(color.FgHiWhite)
	accentColor := color.New(color.FgHiMagenta)

	fmt.Println()
	titleColor.Println("gitscribe Configuration")
	displayCurrentSettings(cfg)

	for {
		fmt.Println()
		titleColor.Println("What would you like to configure?")
		dimColor.Println(strings.Repeat("─", 40))
		fmt.Println()

		options := []struct {
			key  string
			name string
			desc string
		}{
			{"1", "Provider", "Change model provider and credentials"},
			{"2", "Model", "Change the model of the current provider"},
			{"3", "Language", "Change the output language"},
			{"4", "Streaming", "Toggle streaming of model output"},
			{"5", "Workers", "Change how many diffs are analyzed at once"},
			{"6", "View Settings", "Display current configuration"},
			{"7", "Save & Exit", "Save changes and exit"},
			{"0", "Exit without saving", "Discard changes and exit"},
		}

		for _, opt := range options {
			accentColor.Printf("  [%s] ", opt.key)
			infoColor.Printf("%-22s", opt.name)
			dimColor.Printf(" - %s\n", opt.desc)
		}

		fmt.Println()
		promptColor.Print("Select option: ")
		choice, err := reader.ReadString('\n')
		if err != nil && strings.TrimSpace(choice) == "" {
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			configureProvider(cfg, reader)
		case "2":
			if v := readLine(reader, "Model", cfg.Model()); v != "" {
				cfg.SetModel(v)
			}
		case "3":
			if v := readLine(reader, "Language", cfg.Language); v != "" {
				cfg.Language = v
			}
		case "4":
			cfg.Streaming = !cfg.Streaming
			successColor.Printf("Streaming %s\n", onOff(cfg.Streaming))
		case "5":
			v := readLine(reader, "Workers", strconv.Itoa(cfg.Workers))
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				cfg.Workers = n
			} else if v != "" {
				dimColor.Println("Workers must be a positive number.")
			}
		case "6":
			displayCurrentSettings(cfg)
		case "7":
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Println()
			successColor.Println("Configuration saved successfully!")
			return nil
		case "0":
			fmt.Println()
			infoColor.Println("Configuration canceled. Changes not saved.")
			return nil
		default:
			dimColor.Println("Invalid option. Please try again.")
		}
	}
}

func configureProvider(cfg *config.Config, reader *bufio.Reader) {
	fmt.Println()
	titleColor.Println("Configure Provider")
	dimColor.Println(strings.Repeat("─", 40))
	for i, p := range constants.AllProviders {
		fmt.Printf("  [%d] %-10s %s\n", i+1, p.Name, dimColor.Sprint(p.Description))
	}

	v := readLine(reader, "Provider", cfg.Provider)
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= len(constants.AllProviders) {
		v = constants.AllProviders[n-1].Name
	}
	p, ok := constants.ParseProvider(v)
	if !ok {
		dimColor.Printf("Unknown provider %q.\n", v)
		return
	}
	cfg.Provider = string(p)

	switch p {
	case constants.ProviderGemini:
		if key := readLine(reader, "Gemini API key", maskSecret(cfg.GeminiAPIKey)); key != "" && key != maskSecret(cfg.GeminiAPIKey) {
			cfg.GeminiAPIKey = key
		}
	case constants.ProviderOllama:
		if url := readLine(reader, "Ollama URL", cfg.OllamaBaseURL); url != "" {
			cfg.OllamaBaseURL = url
		}
	}
	successColor.Printf("Provider set to %s\n", p)
}

// readLine prompts with the current value shown and returns the trimmed
// answer, or "" when the user just pressed enter.
func readLine(reader *bufio.Reader, label, current string) string {
	if current != "" {
		color.New(color.FgHiYellow).Printf("%s [%s]: ", label, current)
	} else {
		color.New(color.FgHiYellow).Printf("%s: ", label)
	}
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func displayCurrentSettings(cfg *config.Config) {
	infoColor := color.New(color.FgHiWhite)

	fmt.Println()
	titleColor.Println("Current Settings:")
	dimColor.Println(strings.Repeat("─", 40))
	infoColor.Printf("  Provider:  %s\n", cfg.Provider)
	infoColor.Printf("  Model:     %s\n", cfg.Model())
	if cfg.Provider == string(constants.ProviderOllama) {
		dimColor.Printf("  URL:       %s\n", cfg.OllamaBaseURL)
	}
	if cfg.GeminiAPIKey != "" {
		dimColor.Printf("  API key:   %s\n", maskSecret(cfg.GeminiAPIKey))
	}
	infoColor.Printf("  Language:  %s\n", cfg.Language)
	infoColor.Printf("  Streaming: %s\n", onOff(cfg.Streaming))
	infoColor.Printf("  Workers:   %d\n", cfg.Workers)
	dimColor.Printf("  File:      %s\n", config.GetConfigPath())
}

func maskSecret(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
