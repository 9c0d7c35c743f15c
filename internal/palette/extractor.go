// Package palette extracts a small set of dominant colors from cover art.
package palette

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/podabio/podabio/pkg/colormath"
)

// DefaultCount is the number of colors returned when none is requested.
const DefaultCount = 5

const (
	quantStep     = 16   // per-channel bucket width
	minDistance   = 30.0 // RGB distance below which two colors are duplicates
	sampleTarget  = 10000
	defaultMaxDim = 200
	// Decoded pixel budget; a small compressed file can declare a huge canvas.
	defaultMaxPixels = 40_000_000
)

// defaultPalette is the blue-scale fallback, darkest first.
var defaultPalette = []string{"#1e3a8a", "#1d4ed8", "#3b82f6", "#93c5fd", "#dbeafe"}

var fallbacks = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "podabio_palette_fallbacks_total",
		Help: "Color extractions that returned the default palette, by reason.",
	},
	[]string{"reason"},
)

func init() {
	prometheus.MustRegister(fallbacks)
}

// DefaultPalette returns the first n fallback colors (fewer if n exceeds the
// palette size).
func DefaultPalette(n int) []string {
	if n <= 0 {
		n = DefaultCount
	}
	if n > len(defaultPalette) {
		n = len(defaultPalette)
	}
	return append([]string(nil), defaultPalette[:n]...)
}

// Config controls fetching and sampling.
type Config struct {
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	MaxDimension int           `mapstructure:"max_dimension"`
	MaxBytes     int64         `mapstructure:"max_bytes"`
	MaxPixels    int           `mapstructure:"max_pixels"`
}

// DefaultConfig returns the settings used for unset fields.
func DefaultConfig() Config {
	return Config{
		FetchTimeout: 10 * time.Second,
		MaxDimension: defaultMaxDim,
		MaxBytes:     10 << 20,
		MaxPixels:    defaultMaxPixels,
	}
}

// Extractor picks dominant colors from images. Every Extract method returns
// a palette; failures are logged and yield the default palette.
type Extractor struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// NewExtractor creates an Extractor. A nil client uses one that refuses to
// dial loopback, private and link-local addresses.
func NewExtractor(cfg Config, client *http.Client, logger *zap.Logger) *Extractor {
	def := DefaultConfig()
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = def.FetchTimeout
	}
	if cfg.MaxDimension <= 0 {
		cfg.MaxDimension = def.MaxDimension
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = def.MaxBytes
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = def.MaxPixels
	}
	if client == nil {
		client = publicClient()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{cfg: cfg, client: client, logger: logger}
}

// ExtractFromURL fetches an image and extracts count colors from it.
func (e *Extractor) ExtractFromURL(ctx context.Context, rawURL string, count int) []string {
	data, err := e.fetch(ctx, rawURL)
	if err != nil {
		return e.fallback("fetch", count, zap.String("url", rawURL), zap.Error(err))
	}
	return e.ExtractFromBytes(data, count)
}

// ExtractFromReader decodes an image from r and extracts count colors.
func (e *Extractor) ExtractFromReader(r io.Reader, count int) []string {
	data, err := io.ReadAll(io.LimitReader(r, e.cfg.MaxBytes+1))
	if err != nil {
		return e.fallback("read", count, zap.Error(err))
	}
	if int64(len(data)) > e.cfg.MaxBytes {
		return e.fallback("too_large", count, zap.Int64("max_bytes", e.cfg.MaxBytes))
	}
	return e.ExtractFromBytes(data, count)
}

// ExtractFromBytes decodes an encoded image and extracts count colors.
// Images declaring more than MaxPixels are rejected before decoding.
func (e *Extractor) ExtractFromBytes(data []byte, count int) []string {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return e.fallback("decode", count, zap.Error(err))
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > int64(e.cfg.MaxPixels) {
		return e.fallback("too_large", count,
			zap.Int("width", cfg.Width), zap.Int("height", cfg.Height),
			zap.Int("max_pixels", e.cfg.MaxPixels))
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return e.fallback("decode", count, zap.Error(err))
	}
	e.logger.Debug("decoded image", zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return e.ExtractFromImage(img, count)
}

// ExtractFromImage returns exactly count colors (fewer only when count
// exceeds the default palette) as lowercase "#rrggbb", most frequent first.
// The result depends only on the image and count.
func (e *Extractor) ExtractFromImage(img image.Image, count int) []string {
	if count <= 0 {
		count = DefaultCount
	}
	if img == nil || img.Bounds().Empty() {
		return e.fallback("empty", count)
	}

	img = downscale(img, e.cfg.MaxDimension)
	out := selectColors(rankBuckets(img), count)

	for len(out) < count && len(out) < len(defaultPalette) {
		out = append(out, defaultPalette[len(out)])
	}
	return out
}

func (e *Extractor) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := checkScheme(rawURL); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, e.cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > e.cfg.MaxBytes {
		return nil, errors.New("image exceeds size limit")
	}
	return data, nil
}

var errBlockedAddress = errors.New("address not allowed")

// checkScheme accepts only absolute http and https URLs.
func checkScheme(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url has no host")
	}
	return nil
}

// publicClient returns an HTTP client whose dialer rejects non-public
// addresses. The check runs on the resolved IP, so DNS names pointing at
// internal hosts and redirects to them are refused too.
func publicClient() *http.Client {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: func(_, address string, _ syscall.RawConn) error {
			return checkPublicAddress(address)
		},
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			return checkScheme(req.URL.String())
		},
	}
}

// checkPublicAddress rejects host:port addresses whose IP is loopback,
// private, link-local, multicast or unspecified.
func checkPublicAddress(address string) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", errBlockedAddress, address)
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast() {
		return fmt.Errorf("%w: %s", errBlockedAddress, host)
	}
	return nil
}

func (e *Extractor) fallback(reason string, count int, fields ...zap.Field) []string {
	fallbacks.WithLabelValues(reason).Inc()
	e.logger.Warn("color extraction failed, using default palette",
		append([]zap.Field{zap.String("reason", reason)}, fields...)...)
	if count <= 0 {
		count = DefaultCount
	}
	return DefaultPalette(count)
}

// downscale shrinks img so neither side exceeds maxDim, keeping the aspect
// ratio. Smaller images are returned as is.
func downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	scale := float64(maxDim) / float64(max(w, h))
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

type bucket struct {
	r, g, b uint8 // first pixel seen in the bucket
	count   int
}

// rankBuckets samples img on a stride grid, buckets pixels on a 16-level
// grid per channel and returns the buckets by descending frequency. Ties
// keep first-seen order.
func rankBuckets(img image.Image) []*bucket {
	b := img.Bounds()
	stride := max(1, int(math.Sqrt(float64(b.Dx()*b.Dy())/sampleTarget)))

	index := make(map[uint32]*bucket)
	var order []*bucket
	for y := b.Min.Y; y < b.Max.Y; y += stride {
		for x := b.Min.X; x < b.Max.X; x += stride {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			key := uint32(c.R/quantStep)<<16 | uint32(c.G/quantStep)<<8 | uint32(c.B/quantStep)
			bk, ok := index[key]
			if !ok {
				bk = &bucket{r: c.R, g: c.G, b: c.B}
				index[key] = bk
				order = append(order, bk)
			}
			bk.count++
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].count > order[j].count })
	return order
}

// selectColors walks buckets in rank order, skipping any color closer than
// minDistance to one already chosen.
func selectColors(buckets []*bucket, count int) []string {
	var chosen []*bucket
	for _, bk := range buckets {
		if len(chosen) == count {
			break
		}
		dup := false
		for _, c := range chosen {
			if colormath.Distance(bk.r, bk.g, bk.b, c.r, c.g, c.b) < minDistance {
				dup = true
				break
			}
		}
		if !dup {
			chosen = append(chosen, bk)
		}
	}

	out := make([]string, 0, count)
	for _, c := range chosen {
		out = append(out, colormath.RGBToHex(c.r, c.g, c.b))
	}
	return out
}
