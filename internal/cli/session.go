package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/mapbench/internal/engine"
)

var initForce bool

// initCmd creates a session.
var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create an empty session",
	Long: `Create an empty session. Without a name the current session
(--session or default_session from config.yaml) is created.

A default config.yaml is written to the data root if none exists.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := sessionName()
		if len(args) == 1 {
			name = args[0]
		}

		eng, closeEng, err := newEngine(logger)
		if err != nil {
			return err
		}
		defer closeEng()

		if _, err := os.Stat(paths.Config); os.IsNotExist(err) {
			if err := cfg.Save(paths.Config); err != nil {
				return err
			}
		}

		result, err := eng.SessionInit(context.Background(), &engine.SessionInitRequest{
			Name:  name,
			Force: initForce,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.Replaced {
			PrintWarning(fmt.Sprintf("Replaced session %s with an empty one", result.Name))
		} else {
			PrintSuccess(fmt.Sprintf("Created session %s", result.Name))
		}
		return nil
	},
}

// sessionCmd groups session management subcommands.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage sessions",
	Long:  `List, inspect, and delete sessions.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEng, err := newEngine(logger)
		if err != nil {
			return err
		}
		defer closeEng()

		result, err := eng.SessionList(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Sessions")
		if len(result.Sessions) == 0 {
			PrintEmptyState("No sessions found; create one with 'mapbench init'")
			return nil
		}

		current := sessionName()
		rows := make([][]string, 0, len(result.Sessions))
		for _, s := range result.Sessions {
			marker := ""
			if s.Name == current {
				marker = "*"
			}
			rows = append(rows, []string{
				marker,
				s.Name,
				PrintCount(s.LayerCount, "layer", "layers"),
				s.UpdatedAt.Local().Format(time.DateTime),
			})
		}
		PrintTable([]string{"", "Name", "Layers", "Updated"}, rows)
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEng, err := newEngine(logger)
		if err != nil {
			return err
		}
		defer closeEng()

		result, err := eng.SessionDelete(context.Background(), &engine.SessionDeleteRequest{Name: args[0]})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		PrintSuccess(fmt.Sprintf("Deleted session %s", result.Name))
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a session and its layers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := sessionName()
		if len(args) == 1 {
			name = args[0]
		}

		eng, closeEng, err := newEngine(logger)
		if err != nil {
			return err
		}
		defer closeEng()

		result, err := eng.SessionShow(context.Background(), &engine.SessionShowRequest{Name: name})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection(fmt.Sprintf("Session %s", result.Name))
		PrintLabelValue("Revision", result.Revision)
		PrintLabelValue("Created", result.CreatedAt.Local().Format(time.DateTime))
		PrintLabelValue("Updated", result.UpdatedAt.Local().Format(time.DateTime))
		PrintLabelValue("Layers", PrintCount(len(result.Layers), "layer", "layers"))
		fmt.Println()
		PrintLayers(result.Layers)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Replace an existing session")

	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionCmd.AddCommand(sessionShowCmd)
}
