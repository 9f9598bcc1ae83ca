package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	// Register decoders for source images.
	_ "image/gif"
	_ "image/jpeg"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gogpu/jigsaw"
	"github.com/gogpu/jigsaw/internal/config"
	"github.com/gogpu/jigsaw/internal/preview"
)

// manifest describes a cut board on disk.
type manifest struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	Created    time.Time       `json:"created"`
	Rows       int             `json:"rows"`
	Columns    int             `json:"columns"`
	Scale      float64         `json:"scale"`
	Seed       uint64          `json:"seed,omitempty"`
	UnitWidth  float64         `json:"unit_width"`
	UnitHeight float64         `json:"unit_height"`
	Pieces     []manifestPiece `json:"pieces"`
}

type manifestPiece struct {
	File   string    `json:"file"`
	Row    int       `json:"row"`
	Column int       `json:"column"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Edges  [4]string `json:"edges"`
}

type cutFlags struct {
	rows, cols int
	seed       uint64
	scale      float64
	workers    int
	out        string
	preview    bool
	labels     bool
	gap        float64
	thumb      int
}

func newCutCmd(a *app) *cobra.Command {
	var f cutFlags

	cmd := &cobra.Command{
		Use:   "cut <image>",
		Short: "Cut an image into puzzle pieces",
		Long: `Cut an image into a rows x columns grid of interlocking pieces.

One PNG per piece is written to the output directory together with a
manifest.json describing where every piece belongs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyCutFlags(cmd, a.cfg, f)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return runCut(a, args[0], f)
		},
	}

	cmd.Flags().IntVarP(&f.rows, "rows", "r", 4, "number of rows")
	cmd.Flags().IntVarP(&f.cols, "cols", "c", 4, "number of columns")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for reproducible tabs (0 = random)")
	cmd.Flags().Float64Var(&f.scale, "scale", 1, "pixels per point of the source image")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "pieces composited at once (0 = GOMAXPROCS)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "pieces", "output directory")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "also write preview.png with the laid out board")
	cmd.Flags().BoolVar(&f.labels, "labels", false, "label cells in the preview")
	cmd.Flags().Float64Var(&f.gap, "gap", 0, "spacing between pieces in the preview, in points")
	cmd.Flags().IntVar(&f.thumb, "thumb", 0, "shrink the preview so its longest side fits in this many pixels (0 = full size)")
	return cmd
}

// applyCutFlags overrides config values with the flags set on the command
// line.
func applyCutFlags(cmd *cobra.Command, cfg *config.Config, f cutFlags) {
	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Grid.Rows = f.rows
	}
	if flags.Changed("cols") {
		cfg.Grid.Columns = f.cols
	}
	if flags.Changed("seed") {
		cfg.Grid.Seed = f.seed
	}
	if flags.Changed("scale") {
		cfg.Render.Scale = f.scale
	}
	if flags.Changed("workers") {
		cfg.Render.Workers = f.workers
	}
}

func runCut(a *app, path string, f cutFlags) error {
	img, err := decodeImage(path)
	if err != nil {
		return err
	}

	opts, err := a.cfg.Options()
	if err != nil {
		return err
	}
	src := jigsaw.Source{Image: img, Scale: a.cfg.Render.Scale}
	start := time.Now()
	board, err := jigsaw.New(opts...).Generate(src, a.cfg.Grid.Rows, a.cfg.Grid.Columns)
	if err != nil {
		return fmt.Errorf("cutting %s: %w", path, err)
	}
	a.logger.Info("cut puzzle",
		"source", path,
		"pieces", len(board.Pieces()),
		"elapsed", time.Since(start).Round(time.Millisecond))

	if err := os.MkdirAll(f.out, 0755); err != nil {
		return err
	}

	m := manifest{
		ID:         uuid.NewString(),
		Source:     filepath.Base(path),
		Created:    time.Now().UTC(),
		Rows:       board.Rows,
		Columns:    board.Columns,
		Scale:      a.cfg.Render.Scale,
		Seed:       a.cfg.Grid.Seed,
		UnitWidth:  board.UnitSize.Width,
		UnitHeight: board.UnitSize.Height,
	}
	for _, el := range board.Pieces() {
		name := fmt.Sprintf("piece_%02d_%02d.png", el.Row, el.Column)
		if err := writePNG(filepath.Join(f.out, name), el.Image); err != nil {
			return err
		}
		b := el.Image.Bounds()
		m.Pieces = append(m.Pieces, manifestPiece{
			File:   name,
			Row:    el.Row,
			Column: el.Column,
			X:      el.Position.X,
			Y:      el.Position.Y,
			Width:  b.Dx(),
			Height: b.Dy(),
			Edges:  edgeShapes(el.Unit),
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(f.out, "manifest.json"), data, 0644); err != nil {
		return err
	}

	if f.preview {
		canvas, err := preview.Compose(board, preview.Options{
			Scale:  a.cfg.Render.Scale,
			Gap:    f.gap,
			Labels: f.labels,
		})
		if err != nil {
			return err
		}
		if err := writePNG(filepath.Join(f.out, "preview.png"), preview.Thumbnail(canvas, f.thumb)); err != nil {
			return err
		}
	}

	a.logger.Info("wrote pieces", "dir", f.out, "id", m.ID)
	return nil
}

// edgeShapes names the shape of every side: flat, out or in.
func edgeShapes(u *jigsaw.Unit) [4]string {
	shape := func(s jigsaw.Segment) string {
		switch {
		case s.IsFlat():
			return "flat"
		case s.OuterHeight() > 0:
			return "out"
		default:
			return "in"
		}
	}
	return [4]string{shape(u.Top), shape(u.Right), shape(u.Bottom), shape(u.Left)}
}

func decodeImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return file.Close()
}
