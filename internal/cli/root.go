package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danieljhkim/mapbench/internal/config"
	"github.com/danieljhkim/mapbench/internal/logging"
)

var (
	// Global flags
	jsonOutput  bool
	sessionFlag string
	verbose     bool

	// Set by the root PersistentPreRunE
	paths  *config.Paths
	cfg    *config.Config
	logger = zap.NewNop()

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// rootCmd is the root command for mapbench.
var rootCmd = &cobra.Command{
	Use:     "mapbench",
	Version: "dev",
	Short:   "Map workbench with drag-to-reorder layers",
	Long: `mapbench keeps named sessions of map layers and their stacking order.

Layers can be reordered by index, nudged up or down, pinned to the top,
hidden, or faded. The interactive workbench (mapbench ui) lets you pick a
layer up and drop it somewhere else in the stack.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// setup resolves paths, loads config.yaml, and builds the stderr logger.
// The ui command replaces the logger with a file logger.
func setup(cmd *cobra.Command) error {
	var err error
	paths, err = config.DefaultPaths()
	if err != nil {
		return fmt.Errorf("failed to get config paths: %w", err)
	}

	cfg, err = config.Load(paths.Config)
	if err != nil {
		return err
	}

	logger, err = logging.New(cfg.Log.Level, verbose)
	if err != nil {
		return err
	}
	logger.Debug("config loaded",
		zap.String("root", paths.Root),
		zap.String("backend", cfg.State.Backend),
		zap.String("command", cmd.CommandPath()))
	return nil
}

// sessionName returns --session, falling back to the configured default.
func sessionName() string {
	if sessionFlag != "" {
		return sessionFlag
	}
	if cfg != nil && cfg.DefaultSession != "" {
		return cfg.DefaultSession
	}
	return config.DefaultConfig().DefaultSession
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// customHelpFunc returns a custom help function that colors group titles
func customHelpFunc(cmd *cobra.Command, args []string) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	}

	help.WriteString(sectionTitleColor.Sprint("Usage:"))
	help.WriteString("\n")
	fmt.Fprintf(&help, "  %s\n\n", cmd.UseLine())

	for _, group := range cmd.Groups() {
		help.WriteString(groupTitleColor.Sprint(group.Title))
		help.WriteString("\n")

		for _, c := range cmd.Commands() {
			if c.GroupID == group.ID && !c.Hidden {
				fmt.Fprintf(&help, "  %-11s %s\n", c.Name(), c.Short)
			}
		}
		help.WriteString("\n")
	}

	// Ungrouped commands, including subcommands of "session"
	hasUngrouped := false
	for _, c := range cmd.Commands() {
		if c.GroupID == "" && !c.Hidden {
			if !hasUngrouped {
				help.WriteString(sectionTitleColor.Sprint("Additional Commands:"))
				help.WriteString("\n")
				hasUngrouped = true
			}
			fmt.Fprintf(&help, "  %-11s %s\n", c.Name(), c.Short)
		}
	}
	if hasUngrouped {
		help.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailablePersistentFlags() {
		help.WriteString(sectionTitleColor.Sprint("Flags:"))
		help.WriteString("\n")
		help.WriteString(cmd.LocalFlags().FlagUsages())
		help.WriteString(cmd.InheritedFlags().FlagUsages())
		help.WriteString("\n")
	}

	fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())

	fmt.Fprint(cmd.OutOrStdout(), help.String())
}

func init() {
	rootCmd.SetHelpFunc(customHelpFunc)

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&sessionFlag, "session", "s", "", "Session to operate on (default from config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "sessions",
		Title: "Sessions:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "layers",
		Title: "Layers:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "ordering",
		Title: "Ordering:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "interactive",
		Title: "Interactive:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	// CLI & Tooling commands
	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the mapbench CLI version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		// Skips config loading
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	helpCmd := &cobra.Command{
		Use:     "help [command]",
		Short:   "Help about any command",
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Root().Help()
		},
	}
	rootCmd.SetHelpCommand(helpCmd)

	completionCmd := &cobra.Command{
		Use:     "completion",
		Short:   "Generate the autocompletion script for the specified shell",
		GroupID: "cli-tooling",
		Long: `Generate the autocompletion script for mapbench for the specified shell.
See each sub-command's help for details on how to use the generated script.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "bash",
		Short:                 "Generate the autocompletion script for bash",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "zsh",
		Short:                 "Generate the autocompletion script for zsh",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "fish",
		Short:                 "Generate the autocompletion script for fish",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "powershell",
		Short:                 "Generate the autocompletion script for powershell",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		},
	})
	rootCmd.AddCommand(completionCmd)

	// Sessions
	initCmd.GroupID = "sessions"
	sessionCmd.GroupID = "sessions"
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(sessionCmd)

	// Layers
	addCmd.GroupID = "layers"
	rmCmd.GroupID = "layers"
	lsCmd.GroupID = "layers"
	showCmd.GroupID = "layers"
	hideCmd.GroupID = "layers"
	opacityCmd.GroupID = "layers"
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(hideCmd)
	rootCmd.AddCommand(opacityCmd)

	// Ordering
	moveCmd.GroupID = "ordering"
	moveCmd.SetFlagErrorFunc(negativeIndexError)
	raiseCmd.GroupID = "ordering"
	lowerCmd.GroupID = "ordering"
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(raiseCmd)
	rootCmd.AddCommand(lowerCmd)

	// Interactive
	uiCmd.GroupID = "interactive"
	rootCmd.AddCommand(uiCmd)
}

// Execute executes the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
	}
	return err
}
