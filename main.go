package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cichat/client"
	"cichat/config"
	"cichat/model"
	"cichat/plain"
	"cichat/ui"
)

const Version = "v0.01.00"

type flags struct {
	server  string
	plain   bool
	theme   string
	timeout time.Duration
}

func main() {
	var f flags

	rootCmd := &cobra.Command{
		Use:     "cichat",
		Short:   "Terminal client for the Competitive Intelligence chatbot",
		Version: Version,
		Long: `cichat talks to a Competitive Intelligence chatbot service. It loads the
server-side conversation history on start, sends questions and shows the
advisor's answers, with search, suggestion chips and transcript export.

Configuration lives in the data directory (config.toml, keybindings.toml)
and can be overridden with CICHAT_* environment variables or flags.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	rootCmd.Flags().StringVarP(&f.server, "server", "s", "", "Chatbot server URL (overrides config and CICHAT_SERVER_URL)")
	rootCmd.Flags().BoolVar(&f.plain, "plain", false, "Line-oriented mode for pipes and dumb terminals")
	rootCmd.Flags().StringVar(&f.theme, "theme", "", "Color theme: dark or light")
	rootCmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Per-request timeout, e.g. 30s")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, f flags) error {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		if f.plain {
			return err
		}
		showError("Configuration Error", fmt.Sprintf("Failed to load config:\n\n%v", err))
		return err
	}

	if cmd.Flags().Changed("server") {
		cfg.ServerURL = f.server
	}
	if cmd.Flags().Changed("theme") {
		cfg.Theme = config.NormalizeTheme(f.theme)
	}
	if cmd.Flags().Changed("timeout") && f.timeout > 0 {
		cfg.RequestTimeout = f.timeout
	}

	config.InitDebugLog(cfg.DataDir())
	config.Log.Info().
		Str("server", cfg.ServerURL).
		Dur("timeout", cfg.RequestTimeout).
		Bool("plain", f.plain).
		Msg("starting")

	c, err := client.NewClient(cfg.ServerURL, cfg.RequestTimeout)
	if err != nil {
		if !f.plain {
			showError("Invalid Server URL", err.Error())
		}
		return err
	}

	session := model.NewSession(c, model.Options{
		Greeting:    cfg.Greeting,
		Theme:       cfg.Theme,
		Suggestions: cfg.Suggestions,
	})

	if f.plain {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		runner := plain.NewRunner(session, os.Stdin, os.Stdout, plain.Options{
			Server:    cfg.ServerURL,
			Markdown:  true,
			SaveTheme: cfg.SaveTheme,
		})
		return runner.Run(ctx)
	}

	p := tea.NewProgram(ui.NewAppView(cfg, session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running cichat: %w", err)
	}
	return nil
}

// showError blocks on a standalone modal so startup failures are readable
// before the program exits.
func showError(title, message string) {
	p := tea.NewProgram(ui.NewErrorModal(title, message), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
