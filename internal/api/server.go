package api

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"

	"github.com/samcharles93/descale/internal/descale"
	"github.com/samcharles93/descale/internal/filter"
	"github.com/samcharles93/descale/internal/logger"
	"github.com/samcharles93/descale/internal/plane"
)

// Server exposes the descaler over HTTP.
type Server struct {
	log     logger.Logger
	limiter *rate.Limiter
}

// NewServer creates a server. rps bounds the accepted request rate; 0
// disables limiting.
func NewServer(log logger.Logger, rps float64) *Server {
	s := &Server{log: log}
	if rps > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(rps), int(math.Ceil(rps)))
	}
	return s
}

// Register installs the routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/descale", s.handleDescale, s.rateLimit)
}

func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		if s.limiter != nil && !s.limiter.Allow() {
			return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
		}
		return next(c)
	}
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDescale(c *echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable body"})
	}
	var req DescaleRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed JSON: " + err.Error()})
	}

	pix, err := decodeSamples(req.Data, req.Width, req.Height)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	f, err := buildFilter(&req)
	if err != nil {
		return s.buildError(c, err)
	}

	src := &plane.Frame{Planes: []plane.Plane{plane.FromData(req.Width, req.Height, pix)}}
	dst, err := f.Process(src)
	if err != nil {
		return s.buildError(c, err)
	}

	out := &dst.Planes[0]
	resp := DescaleResponse{
		ID:     uuid.NewString(),
		Width:  out.W,
		Height: out.H,
		Data:   encodeSamples(out.Pix),
	}
	s.log.Info("descaled plane",
		"id", resp.ID,
		"kernel", req.Kernel,
		"src", req.Width*req.Height,
		"dst", out.W*out.H)

	payload, err := json.Marshal(resp)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.Blob(http.StatusOK, "application/json", payload)
}

func (s *Server) buildError(c *echo.Context, err error) error {
	status := http.StatusInternalServerError
	if errors.Is(err, descale.ErrShape) || errors.Is(err, descale.ErrParameter) || errors.Is(err, descale.ErrKernel) {
		status = http.StatusBadRequest
	}
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}

func buildFilter(req *DescaleRequest) (*filter.Filter, error) {
	mode, err := filter.KernelByName(req.Kernel)
	if err != nil {
		return nil, err
	}
	border, err := filter.BorderByName(req.Border)
	if err != nil {
		return nil, err
	}
	opt, err := filter.OptByName(req.Opt)
	if err != nil {
		return nil, err
	}

	p := filter.Params{
		Width:     req.DstWidth,
		Height:    req.DstHeight,
		B:         0.0,
		C:         0.5,
		Taps:      3,
		SrcLeft:   req.SrcLeft,
		SrcTop:    req.SrcTop,
		SrcWidth:  req.SrcWidth,
		SrcHeight: req.SrcHeight,
		Blur:      req.Blur,
		Border:    border,
		PostConv:  req.PostConv,
		Opt:       opt,
		Upscale:   req.Upscale,
	}
	if req.B != nil {
		p.B = *req.B
	}
	if req.C != nil {
		p.C = *req.C
	}
	if req.Taps != nil {
		p.Taps = *req.Taps
	}

	return filter.New(mode, req.Width, req.Height, 0, 0, p)
}

func decodeSamples(data string, w, h int) ([]float32, error) {
	if w < 1 || h < 1 {
		return nil, descale.NewShapeError("width and height must be greater than 0")
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.New("data is not valid base64")
	}
	if len(raw) != w*h*4 {
		return nil, descale.NewShapeError("data length does not match width*height")
	}
	pix := make([]float32, w*h)
	for i := range pix {
		pix[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return pix, nil
}

func encodeSamples(pix []float32) string {
	raw := make([]byte, len(pix)*4)
	for i, v := range pix {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	return base64.StdEncoding.EncodeToString(raw)
}
