// Command readline-demo is an interactive prompt exercising the readline library:
// line editing, continuation lines, history recall and a persistent history file.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/readline"
	"github.com/lixenwraith/readline/terminal"
)

var rootCmd = &cobra.Command{
	Use:   "readline-demo",
	Short: "Interactive line editing demo",
	Long: `Reads lines from the terminal and echoes them back.

Commands:
  history   list previously entered lines
  exit      leave (also quit, Ctrl+D on an empty line)

Keys:
  Ctrl+C          discard the current line
  Alt+Enter       continue on a new line
  Up/Down         recall history
  Ctrl+A/E/K/U/W  emacs-style motion and kills`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runDemo,
}

func init() {
	rootCmd.Flags().StringP("config", "c", "", "TOML config file")
	rootCmd.Flags().Bool("debug", false, "write debug log to "+logDir+"/"+logFileName)
	rootCmd.Flags().Int("history-size", 0, "maximum history entries (default from config, 100)")
	rootCmd.Flags().String("history-file", "", "load history from and save it to this file")
}

func main() {
	// Panic Recovery: Ensure terminal is reset even if the demo crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset()
			fmt.Fprintf(os.Stderr, "\r\nREADLINE-DEMO CRASHED: %v\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	debugLog, _ := cmd.Flags().GetBool("debug")

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("history-size") {
		cfg.HistorySize, _ = cmd.Flags().GetInt("history-size")
	}
	if cmd.Flags().Changed("history-file") {
		cfg.HistoryFile, _ = cmd.Flags().GetString("history-file")
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	bindings, err := cfg.keyBindings()
	if err != nil {
		return err
	}

	log, logFile := setupLogging(debugLog)
	if logFile != nil {
		defer logFile.Close()
	}
	defer log.Sync()

	rl := readline.New(
		readline.WithLogger(log),
		readline.WithPrompt(readline.Prompt{
			Prompt:      cfg.Prompt,
			AltPrompt:   cfg.AltPrompt,
			Placeholder: cfg.Placeholder,
		}),
		readline.WithHistory(cfg.HistorySize),
		readline.WithKeyBindings(bindings),
	)
	defer rl.Close()

	if cfg.HistoryFile != "" {
		entries, err := loadHistory(cfg.HistoryFile)
		if err != nil {
			log.Warn("history file not loaded", zap.String("path", cfg.HistoryFile), zap.Error(err))
		}
		for _, line := range entries {
			rl.AddHistory(line)
		}
	}

	runErr := repl(rl, cmd.OutOrStdout(), log)

	if cfg.HistoryFile != "" {
		if err := saveHistory(cfg.HistoryFile, rl.History()); err != nil {
			log.Warn("history file not saved", zap.String("path", cfg.HistoryFile), zap.Error(err))
		}
	}
	return runErr
}

// lineReader is the part of a readline session the loop drives
type lineReader interface {
	Readline() (string, error)
	History() []string
}

// repl runs the read-echo loop until exit or end of input.
// The terminal stays raw between reads, so every line ends in \r\n.
func repl(rl lineReader, out io.Writer, log *zap.Logger) error {
	fmt.Fprint(out, "readline demo. Type 'exit' or press Ctrl+D to leave, 'history' to list entries.\r\n")

	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			fmt.Fprint(out, "^C\r\n")
			continue
		case errors.Is(err, readline.ErrEOF):
			fmt.Fprint(out, "Goodbye!\r\n")
			return nil
		case err != nil:
			return fmt.Errorf("read line: %w", err)
		}

		cmd := strings.TrimSpace(line)
		log.Debug("line read", zap.String("command", cmd))

		switch cmd {
		case "":
		case "exit", "quit":
			fmt.Fprint(out, "Goodbye!\r\n")
			return nil
		case "history":
			for i, entry := range rl.History() {
				fmt.Fprintf(out, "%4d  %s\r\n", i+1, strings.ReplaceAll(entry, "\n", "\r\n      "))
			}
		default:
			fmt.Fprintf(out, "You entered: %s\r\n", strings.ReplaceAll(cmd, "\n", "\r\n"))
		}
	}
}
