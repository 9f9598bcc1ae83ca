// Package server exposes puzzle generation over HTTP.
//
// Routes:
//
//	GET  /healthz              liveness probe
//	POST /v1/puzzles           cut the uploaded image, JSON response
//	POST /v1/puzzles/preview   cut the uploaded image, PNG of the laid out board
//
// The request body is the raw image (PNG, JPEG or GIF). Grid size and seed
// come from the rows, cols and seed query parameters. Seeded JSON responses
// are deterministic and kept in an LRU cache keyed by image digest and grid.
//
// Requests are bounded before any work starts: rows and cols by
// server.max_grid (400), the upload by server.max_upload_mb (413) and the
// decoded image area by server.max_pixels (413, checked from the header
// before decoding). The preview gap must lie in [0, maxPreviewGap] points and
// max_side shrinks the preview to fit.
package server

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	// Register decoders for uploaded images.
	_ "image/gif"
	_ "image/jpeg"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/gogpu/jigsaw"
	"github.com/gogpu/jigsaw/internal/cache"
	"github.com/gogpu/jigsaw/internal/config"
	"github.com/gogpu/jigsaw/internal/preview"
)

// maxPreviewGap bounds the preview gap query parameter, in points.
const maxPreviewGap = 256

// Server handles puzzle requests.
type Server struct {
	cfg    *config.Config
	opts   []jigsaw.Option
	logger *slog.Logger
	cuts   *cache.Cache[cacheKey, *cut] // nil when disabled
}

// cut is the cacheable part of a PuzzleResponse.
type cut struct {
	unitWidth  float64
	unitHeight float64
	pieces     []PieceResponse
}

// cacheKey identifies a deterministic cut.
type cacheKey struct {
	digest     [sha256.Size]byte
	rows, cols int
	seed       uint64
}

// New creates a server from cfg. Maker options are resolved once.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, opts: opts, logger: logger}
	if n := cfg.Server.CacheEntries; n > 0 {
		s.cuts = cache.New[cacheKey, *cut](n)
	}
	return s, nil
}

// CacheStats reports response cache usage. It is zero when caching is off.
func (s *Server) CacheStats() cache.Stats {
	if s.cuts == nil {
		return cache.Stats{}
	}
	return s.cuts.Stats()
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/puzzles", func(r chi.Router) {
		r.Post("/", s.handleGenerate)
		r.Post("/preview", s.handlePreview)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// PuzzleResponse is the JSON body returned by POST /v1/puzzles.
type PuzzleResponse struct {
	ID         string          `json:"id"`
	Rows       int             `json:"rows"`
	Columns    int             `json:"columns"`
	UnitWidth  float64         `json:"unit_width"`
	UnitHeight float64         `json:"unit_height"`
	Pieces     []PieceResponse `json:"pieces"`
}

// PieceResponse describes one piece. Image is a base64 encoded PNG.
type PieceResponse struct {
	Row    int     `json:"row"`
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Image  string  `json:"image"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": jigsaw.Version})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parse(w, r)
	if !ok {
		return
	}

	var c *cut
	key, seeded := req.key()
	if seeded && s.cuts != nil {
		c, _ = s.cuts.Get(key)
	}
	if c == nil {
		board, ok := s.generate(w, req)
		if !ok {
			return
		}
		pieces, err := encodePieces(board)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		c = &cut{unitWidth: board.UnitSize.Width, unitHeight: board.UnitSize.Height, pieces: pieces}
		if seeded && s.cuts != nil {
			s.cuts.Set(key, c)
		}
	}

	writeJSON(w, http.StatusOK, PuzzleResponse{
		ID:         uuid.NewString(),
		Rows:       req.rows,
		Columns:    req.cols,
		UnitWidth:  c.unitWidth,
		UnitHeight: c.unitHeight,
		Pieces:     c.pieces,
	})
}

func encodePieces(board *jigsaw.Board) ([]PieceResponse, error) {
	pieces := make([]PieceResponse, 0, board.Rows*board.Columns)
	for _, el := range board.Pieces() {
		var buf bytes.Buffer
		if err := png.Encode(&buf, el.Image); err != nil {
			return nil, err
		}
		b := el.Image.Bounds()
		pieces = append(pieces, PieceResponse{
			Row:    el.Row,
			Column: el.Column,
			X:      el.Position.X,
			Y:      el.Position.Y,
			Width:  b.Dx(),
			Height: b.Dy(),
			Image:  base64.StdEncoding.EncodeToString(buf.Bytes()),
		})
	}
	return pieces, nil
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	gap, err := queryFloat(r, "gap", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !(gap >= 0 && gap <= maxPreviewGap) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("gap must be between 0 and %d, got %v", maxPreviewGap, gap))
		return
	}
	maxSide, err := queryInt(r, "max_side", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if maxSide < 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("max_side must not be negative, got %d", maxSide))
		return
	}
	req, ok := s.parse(w, r)
	if !ok {
		return
	}
	board, ok := s.generate(w, req)
	if !ok {
		return
	}

	img, err := preview.Compose(board, preview.Options{
		Scale:  s.scale(),
		Gap:    gap,
		Labels: r.URL.Query().Get("labels") == "true",
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if err := png.Encode(w, preview.Thumbnail(img, maxSide)); err != nil {
		s.logger.Warn("writing preview", "err", err)
	}
}

// request is a parsed cut request.
type request struct {
	rows, cols int
	seed       uint64
	seeded     bool
	digest     [sha256.Size]byte
	img        image.Image
}

// key returns the cache key and whether the request is deterministic.
func (q *request) key() (cacheKey, bool) {
	return cacheKey{digest: q.digest, rows: q.rows, cols: q.cols, seed: q.seed}, q.seeded
}

// parse reads the query parameters and decodes the uploaded image. On failure
// it writes the error response and returns false.
func (s *Server) parse(w http.ResponseWriter, r *http.Request) (*request, bool) {
	rows, err := queryInt(r, "rows", s.cfg.Grid.Rows)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	cols, err := queryInt(r, "cols", s.cfg.Grid.Columns)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	if limit := s.cfg.Server.MaxGrid; rows > limit || cols > limit {
		writeError(w, http.StatusBadRequest, fmt.Errorf("grid %dx%d exceeds the limit of %d rows or columns", rows, cols, limit))
		return nil, false
	}

	req := &request{rows: rows, cols: cols, seed: s.cfg.Grid.Seed, seeded: s.cfg.Grid.Seed != 0}
	if v := r.URL.Query().Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid seed %q", v))
			return nil, false
		}
		req.seed, req.seeded = seed, true
	}

	limit := int64(s.cfg.Server.MaxUploadMB) << 20
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
		} else {
			writeError(w, http.StatusBadRequest, fmt.Errorf("reading image: %w", err))
		}
		return nil, false
	}
	hdr, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding image: %w", err))
		return nil, false
	}
	if area := int64(hdr.Width) * int64(hdr.Height); area > int64(s.cfg.Server.MaxPixels) {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Errorf("image %dx%d exceeds the limit of %d pixels", hdr.Width, hdr.Height, s.cfg.Server.MaxPixels))
		return nil, false
	}
	if req.img, _, err = image.Decode(bytes.NewReader(data)); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding image: %w", err))
		return nil, false
	}
	req.digest = sha256.Sum256(data)
	return req, true
}

// generate cuts the request image. On failure it writes the error response
// and returns false.
func (s *Server) generate(w http.ResponseWriter, req *request) (*jigsaw.Board, bool) {
	opts := s.opts
	if req.seeded {
		opts = append(opts[:len(opts):len(opts)], jigsaw.WithSeed(req.seed))
	}
	src := jigsaw.Source{Image: req.img, Scale: s.scale()}
	board, err := jigsaw.New(opts...).Generate(src, req.rows, req.cols)
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, false
	}
	return board, true
}

func (s *Server) scale() float64 {
	if s.cfg.Render.Scale <= 0 {
		return 1
	}
	return s.cfg.Render.Scale
}

// statusFor maps generation errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, jigsaw.ErrInvalidGridSize), errors.Is(err, jigsaw.ErrInvalidImageSize):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
