package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markusylisiurunen/wavetracker/internal/config"
	"github.com/markusylisiurunen/wavetracker/internal/logger"
	"github.com/markusylisiurunen/wavetracker/internal/tui"
	"github.com/markusylisiurunen/wavetracker/toolkit/cell"
	"github.com/markusylisiurunen/wavetracker/toolkit/llm"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

//go:embed prompts/wavebuddy.txt
var wavebuddyPrompt string

type app struct {
	cfg     config.Config
	logger  logger.Logger
	logFile *os.File
	cell    *cell.Client
	relay   *llm.Relay
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(ctx, envconfig.OsLookuper())
	if err != nil {
		return err
	}
	a.cfg = cfg
	// if in debug mode, create a debug log file
	a.logger = logger.NoOp()
	if cfg.Debug {
		if err := os.MkdirAll(".wavetracker/logs", 0755); err != nil {
			return fmt.Errorf("error creating debug folder: %w", err)
		}
		debugLogFile := time.Now().Format("2006-01-02T15:04:05") + ".log"
		f, err := os.OpenFile(".wavetracker/logs/"+debugLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("error opening log file: %w", err)
		}
		a.logFile = f
		a.logger = logger.New(f)
		a.logger.SetEnabled(true)
		a.logger.SetLevel("debug")
	}
	a.cell = cell.NewClient(a.logger, cfg.Cell.Key, cfg.Cell.BaseURL,
		cell.WithTimeout(cfg.Cell.Timeout),
	)
	chat := llm.NewChatCompletions(a.logger, cfg.Chat.Key, cfg.Chat.Model,
		llm.WithBaseURL(cfg.Chat.BaseURL),
		llm.WithTimeout(cfg.Chat.Timeout),
	)
	a.relay, err = llm.NewRelay(chat, llm.WithTemplate(wavebuddyPrompt))
	if err != nil {
		return fmt.Errorf("error creating chat relay: %w", err)
	}
	a.logger.Info("wavetracker started (tower database: %s, chat model: %s)", cfg.Cell.BaseURL, cfg.Chat.Model)
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var panel string
	root := &cobra.Command{
		Use:           "wavetracker",
		Short:         "WaveTracker - network troubleshooting",
		Long:          "WaveTracker looks up cell towers, estimates the internet speed they can offer and relays network questions to WaveBuddy.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipSetup(cmd) {
				return nil
			}
			return a.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			model := tui.Initial(a.logger, a.cell, a.relay, tui.WithPanel(panel))
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("error running program: %w", err)
			}
			return nil
		},
	}
	root.Flags().StringVar(&panel, "panel", "network", "panel to open first: network or buddy")
	root.AddCommand(newLookupCmd(a), newAskCmd(a))
	return root
}

// skipSetup reports whether cmd is one of cobra's built-in commands, which
// run without configuration.
func skipSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
