package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/mapbench/internal/engine"
	"github.com/danieljhkim/mapbench/internal/layers"
)

var (
	addKind      string
	addURL       string
	addKeepOnTop bool
)

// addCmd adds a layer to the session.
var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a layer to the session",
	Long: `Add a layer to the current session.

New layers go on top of the unpinned layers. Layers added with --keep-on-top
are pinned above every unpinned layer and cannot be moved below them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEng, err := newEngine(logger)
		if err != nil {
			return err
		}
		defer closeEng()

		result, err := eng.LayerAdd(context.Background(), &engine.LayerAddRequest{
			Session:   sessionName(),
			Name:      args[0],
			Kind:      addKind,
			URL:       addURL,
			KeepOnTop: addKeepOnTop,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		PrintSuccess(fmt.Sprintf("Added %s (%s) at position %d", result.Layer.Name, result.Layer.ShortID, result.Layer.Index))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <layer-id>",
	Short: "Remove a layer from the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEng, err := newEngine(logger)
		if err != nil {
			return err
		}
		defer closeEng()

		result, err := eng.LayerRemove(context.Background(), &engine.LayerRefRequest{
			Session: sessionName(),
			Ref:     args[0],
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		PrintSuccess(fmt.Sprintf("Removed %s (%s)", result.Layer.Name, result.Layer.ShortID))
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the session's layers, top first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeEng, err := newEngine(logger)
		if err != nil {
			return err
		}
		defer closeEng()

		result, err := eng.LayerList(context.Background(), &engine.LayerListRequest{Session: sessionName()})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		PrintSection(fmt.Sprintf("Layers in %s", result.Session))
		PrintLayers(result.Layers)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <layer-id>",
	Short: "Make a layer visible",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetVisibility(args[0], true)
	},
}

var hideCmd = &cobra.Command{
	Use:   "hide <layer-id>",
	Short: "Hide a layer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetVisibility(args[0], false)
	},
}

func runSetVisibility(ref string, visible bool) error {
	eng, closeEng, err := newEngine(logger)
	if err != nil {
		return err
	}
	defer closeEng()

	result, err := eng.LayerSetVisibility(context.Background(), &engine.LayerVisibilityRequest{
		Session: sessionName(),
		Ref:     ref,
		Visible: visible,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(result)
	}
	state := "hidden"
	if visible {
		state = "visible"
	}
	PrintSuccess(fmt.Sprintf("%s is %s", result.Layer.Name, state))
	return nil
}

var opacityCmd = &cobra.Command{
	Use:   "opacity <layer-id> <value>",
	Short: "Set a layer's opacity (0-1 or 0%-100%)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opacity, err := parseOpacity(args[1])
		if err != nil {
			return err
		}

		eng, closeEng, err := newEngine(logger)
		if err != nil {
			return err
		}
		defer closeEng()

		result, err := eng.LayerSetOpacity(context.Background(), &engine.LayerOpacityRequest{
			Session: sessionName(),
			Ref:     args[0],
			Opacity: opacity,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		PrintSuccess(fmt.Sprintf("%s opacity is %.0f%%", result.Layer.Name, result.Layer.Opacity*100))
		return nil
	},
}

// parseOpacity accepts a fraction ("0.4") or a percentage ("40%").
func parseOpacity(s string) (float64, error) {
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: opacity %q is not a number", engine.ErrValidation, s)
	}
	if pct {
		v /= 100
	}
	return v, nil
}

func init() {
	kinds := make([]string, 0, len(layers.Kinds))
	for _, k := range layers.Kinds {
		kinds = append(kinds, string(k))
	}
	addCmd.Flags().StringVarP(&addKind, "kind", "k", string(layers.KindGeoJSON), "Data source type ("+strings.Join(kinds, ", ")+")")
	addCmd.Flags().StringVar(&addURL, "url", "", "URL of the layer data")
	addCmd.Flags().BoolVar(&addKeepOnTop, "keep-on-top", false, "Pin the layer above all unpinned layers")
}
