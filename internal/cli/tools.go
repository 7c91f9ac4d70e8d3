package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/floorplan-sandbox/internal/imaging"
	"github.com/ironsheep/floorplan-sandbox/internal/mask"
	"github.com/ironsheep/floorplan-sandbox/internal/mock"
	"github.com/ironsheep/floorplan-sandbox/internal/rooms"
)

func newMockCmd() *cobra.Command {
	var (
		page           int
		classification string
		typesPath      string
	)

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Print the mock detector's rooms for one page",
		Example: `  floorplan-sandbox mock --page 3 --classification commercial
  floorplan-sandbox mock --page 0 --types room-types.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 0 {
				return fmt.Errorf("--page must be >= 0, got %d", page)
			}
			ct, err := rooms.ParseConstructionType(classification)
			if err != nil {
				return err
			}
			custom, err := loadTypes(typesPath)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), mock.Analyze(page, ct, custom))
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 0, "Zero-based page index")
	cmd.Flags().StringVarP(&classification, "classification", "c", string(rooms.Residential), "residential or commercial")
	cmd.Flags().StringVarP(&typesPath, "types", "t", "", "YAML or JSON file of custom room types")

	return cmd
}

func newExtractCmd() *cobra.Command {
	var (
		label     string
		score     float64
		page      int
		ordinal   int
		typesPath string
	)

	cmd := &cobra.Command{
		Use:   "extract MASK",
		Short: "Turn a segmentation mask image into a room detection",
		Long: `Reads a mask image and prints the room detection it describes. The
boundary is the bounding box of every pixel with non-zero alpha.

Exits with an error if the mask cannot be decoded. An empty mask prints
null.`,
		Example: `  floorplan-sandbox extract kitchen-mask.png --label kitchen --score 0.91`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read mask: %w", err)
			}
			custom, err := loadTypes(typesPath)
			if err != nil {
				return err
			}
			d, ok, err := mask.Extract(data, label, score, page, ordinal, custom)
			if err != nil {
				return err
			}
			if !ok {
				return writeJSON(cmd.OutOrStdout(), nil)
			}
			return writeJSON(cmd.OutOrStdout(), d)
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "Model label for the segment")
	cmd.Flags().Float64VarP(&score, "score", "s", 0.5, "Model score")
	cmd.Flags().IntVarP(&page, "page", "p", 0, "Page index used in the detection ID")
	cmd.Flags().IntVar(&ordinal, "ordinal", 0, "Segment position used in the detection ID")
	cmd.Flags().StringVarP(&typesPath, "types", "t", "", "YAML or JSON file of custom room types")

	return cmd
}

func newOverlayCmd() *cobra.Command {
	var (
		roomsPath      string
		outPath        string
		page           int
		classification string
		maxWidth       int
	)

	cmd := &cobra.Command{
		Use:   "overlay IMAGE",
		Short: "Draw room boundaries over a page image",
		Long: `Renders room outlines and fills over IMAGE and writes a PNG.

Rooms come from --rooms, a JSON array of detections. Without it the mock
detector's rooms for --page and --classification are drawn.`,
		Example: `  floorplan-sandbox overlay page-1.png --rooms rooms.json -o page-1-overlay.png
  floorplan-sandbox overlay page-1.png --page 1 -o mock-overlay.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			img, _, err := imaging.Decode(data)
			if err != nil {
				return err
			}

			var dets []rooms.Detection
			if roomsPath != "" {
				raw, err := os.ReadFile(roomsPath)
				if err != nil {
					return fmt.Errorf("failed to read rooms: %w", err)
				}
				if err := json.Unmarshal(raw, &dets); err != nil {
					return fmt.Errorf("failed to parse rooms %s: %w", roomsPath, err)
				}
			} else {
				ct, err := rooms.ParseConstructionType(classification)
				if err != nil {
					return err
				}
				dets = mock.Analyze(page, ct, nil)
			}

			opts := imaging.DefaultOverlayOptions()
			opts.MaxWidth = maxWidth
			out, err := imaging.EncodePNG(imaging.RenderOverlay(img, dets, opts))
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("failed to write overlay: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rooms to %s\n", len(dets), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&roomsPath, "rooms", "r", "", "JSON file with an array of room detections")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output PNG path (default stdout)")
	cmd.Flags().IntVarP(&page, "page", "p", 0, "Mock page index when --rooms is not given")
	cmd.Flags().StringVarP(&classification, "classification", "c", string(rooms.Residential), "Mock classification when --rooms is not given")
	cmd.Flags().IntVar(&maxWidth, "max-width", imaging.DefaultOverlayOptions().MaxWidth, "Scale wider pages down to this width (0 keeps full size)")

	return cmd
}
