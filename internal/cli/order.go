package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/mapbench/internal/engine"
	"github.com/danieljhkim/mapbench/internal/order"
)

// moveCmd is the command-line form of a drag.
var moveCmd = &cobra.Command{
	Use:   "move <old-index> <new-index>",
	Short: "Move the layer at one position to another",
	Long: `Move the layer at <old-index> to <new-index>. Index 0 is the top of
the stack; 'mapbench ls' shows the current positions.

A layer cannot pass a pinned layer. When one is in the way the layer stops
next to it and the reached position is reported.

Negative indexes are rejected as out of range.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldIndex, err := parseIndex("old-index", args[0])
		if err != nil {
			return err
		}
		newIndex, err := parseIndex("new-index", args[1])
		if err != nil {
			return err
		}

		eng, closeEng, err := newEngine(logger)
		if err != nil {
			return err
		}
		defer closeEng()

		result, err := eng.LayerMove(context.Background(), &engine.LayerMoveRequest{
			Session:  sessionName(),
			OldIndex: oldIndex,
			NewIndex: newIndex,
		})
		if err != nil {
			return err
		}
		return printMove(result)
	},
}

var raiseCmd = &cobra.Command{
	Use:   "raise <layer-id>",
	Short: "Move a layer one position up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEng, err := newEngine(logger)
		if err != nil {
			return err
		}
		defer closeEng()

		result, err := eng.LayerRaise(context.Background(), &engine.LayerRefRequest{
			Session: sessionName(),
			Ref:     args[0],
		})
		if err != nil {
			return err
		}
		return printMove(result)
	},
}

var lowerCmd = &cobra.Command{
	Use:   "lower <layer-id>",
	Short: "Move a layer one position down",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEng, err := newEngine(logger)
		if err != nil {
			return err
		}
		defer closeEng()

		result, err := eng.LayerLower(context.Background(), &engine.LayerRefRequest{
			Session: sessionName(),
			Ref:     args[0],
		})
		if err != nil {
			return err
		}
		return printMove(result)
	},
}

// negativeIndexError reports "move -1 0" as an invalid index. pflag reads a
// negative number as a shorthand flag and fails before the args are seen.
func negativeIndexError(cmd *cobra.Command, err error) error {
	msg := err.Error()
	if !strings.HasPrefix(msg, "unknown shorthand flag") {
		return err
	}
	i := strings.LastIndex(msg, " in ")
	if i < 0 {
		return err
	}
	n, convErr := strconv.Atoi(msg[i+len(" in "):])
	if convErr != nil || n >= 0 {
		return err
	}
	return fmt.Errorf("%w: index %d is negative, positions start at 0", order.ErrInvalidIndex, n)
}

func parseIndex(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", engine.ErrValidation, name, s)
	}
	return v, nil
}

func printMove(result *engine.LayerMoveResult) error {
	if jsonOutput {
		return outputJSON(result)
	}

	switch {
	case !result.Moved && result.Diverged:
		PrintWarning(fmt.Sprintf("%s cannot move past a pinned layer; it stays at %d", result.Layer.Name, result.ActualIndex))
	case !result.Moved:
		PrintInfo(fmt.Sprintf("%s is already at %d", result.Layer.Name, result.ActualIndex))
	case result.Diverged:
		PrintWarning(fmt.Sprintf("%s stopped at %d (requested %d): a pinned layer is in the way",
			result.Layer.Name, result.ActualIndex, result.RequestedIndex))
	default:
		PrintSuccess(fmt.Sprintf("Moved %s from %d to %d", result.Layer.Name, result.OldIndex, result.ActualIndex))
	}
	fmt.Println()
	PrintLayers(result.Layers)
	return nil
}
