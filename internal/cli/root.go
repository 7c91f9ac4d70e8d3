// Package cli defines the floorplan-sandbox command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ironsheep/floorplan-sandbox/internal/analysis"
	"github.com/ironsheep/floorplan-sandbox/internal/config"
	"github.com/ironsheep/floorplan-sandbox/internal/imaging"
	"github.com/ironsheep/floorplan-sandbox/internal/rooms"
)

// NewRootCmd builds the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "floorplan-sandbox",
		Short: "Room detection sandbox for floorplan pages",
		Long: `floorplan-sandbox detects rooms on floorplan page images.

Detection runs through a hosted segmentation model, a local OCR pass, a
wall-enclosure region finder or a deterministic mock. Results can be served over HTTP, exposed as MCP tools,
or produced one page at a time from the command line.

Configuration is read from FLOORPLAN_* environment variables; a .env file
in the working directory is loaded first if present.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(
		newServeCmd(),
		newMCPCmd(),
		newMockCmd(),
		newExtractCmd(),
		newOverlayCmd(),
	)

	return cmd
}

// runtime is what the long-running commands share.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	analyzer *analysis.Service
	overlay  imaging.OverlayOptions
}

func newRuntime(stderr io.Writer) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger(stderr)

	seg, err := cfg.NewSegmenter()
	if err != nil {
		return nil, fmt.Errorf("segmenter %q: %w", cfg.Segmenter, err)
	}

	overlay := imaging.DefaultOverlayOptions()
	overlay.MaxWidth = cfg.OverlayMaxWidth

	logger.Debug("Configuration loaded",
		"segmenter", cfg.Segmenter,
		"segment_url", cfg.SegmentURL,
		"segment_timeout", cfg.SegmentTimeout,
		"overlay_max_width", cfg.OverlayMaxWidth)

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		analyzer: analysis.NewService(seg, logger),
		overlay:  overlay,
	}, nil
}

// loadTypes reads custom room types from path, or returns nil for "".
func loadTypes(path string) ([]rooms.TypeDefinition, error) {
	if path == "" {
		return nil, nil
	}
	return rooms.LoadCustomTypes(path)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
