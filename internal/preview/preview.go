// Package preview assembles preview cards from upstream data. Every upstream
// failure is replaced by a default so a card can always be drawn.
package preview

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shruggr/go-txpreview/internal/cache"
	"github.com/shruggr/go-txpreview/internal/metrics"
	"github.com/shruggr/go-txpreview/internal/noves"
	"github.com/shruggr/go-txpreview/internal/render"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultType        = "Send Token"
	DefaultDescription = "No description available"

	chainsCacheKey = "chains:evm"
)

var chainPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FallbackChains is served when the upstream chain list is unavailable.
var FallbackChains = []noves.Chain{
	{Name: "eth", Ecosystem: "evm"},
	{Name: "polygon", Ecosystem: "evm"},
}

type Reference struct {
	Chain  string
	TxHash string
}

func (r Reference) key() string {
	return "summary:" + strings.ToLower(r.Chain) + ":" + strings.ToLower(r.TxHash)
}

type Summary struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	From        string `json:"from"`
	To          string `json:"to"`
}

func DefaultSummary() Summary {
	return Summary{Type: DefaultType, Description: DefaultDescription}
}

// LogoSource reports and downloads hosted chain logos.
type LogoSource interface {
	Exists(ctx context.Context, chain string) bool
	Fetch(ctx context.Context, chain string) (image.Image, error)
}

type Service struct {
	translator noves.Translator
	logos      LogoSource
	cache      *cache.RedisCache
	ttl        time.Duration
	background image.Image
}

func New(translator noves.Translator, logos LogoSource, redisCache *cache.RedisCache, ttl time.Duration, background image.Image) *Service {
	return &Service{
		translator: translator,
		logos:      logos,
		cache:      redisCache,
		ttl:        ttl,
		background: background,
	}
}

// LoadBackground decodes the image at path, or returns nil so the renderer
// falls back to its gradient.
func LoadBackground(path string) image.Image {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		slog.Info("Background image unavailable, using gradient", "path", path, "error", err)
		metrics.Fallbacks.WithLabelValues("background").Inc()
		return nil
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		slog.Warn("Background image unreadable, using gradient", "path", path, "error", err)
		metrics.Fallbacks.WithLabelValues("background").Inc()
		return nil
	}
	return img
}

func ValidChain(chain string) bool {
	return chainPattern.MatchString(chain)
}

// Capitalize upper-cases the first letter and lower-cases the rest ("ETH" -> "Eth").
func Capitalize(chain string) string {
	if chain == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(chain)
	return string(unicode.ToUpper(r)) + strings.ToLower(chain[size:])
}

func (s *Service) Chains(ctx context.Context) []noves.Chain {
	var chains []noves.Chain
	if s.cache.GetJSON(ctx, chainsCacheKey, &chains) && len(chains) > 0 {
		return chains
	}

	chains, err := s.translator.Chains(ctx)
	if err != nil || len(chains) == 0 {
		slog.Warn("Chain list unavailable, using fallback", "error", err)
		metrics.Fallbacks.WithLabelValues("chains").Inc()
		return append([]noves.Chain(nil), FallbackChains...)
	}

	s.cache.SetJSON(ctx, chainsCacheKey, chains, s.ttl)
	return chains
}

func (s *Service) Transaction(ctx context.Context, ref Reference) (*noves.Transaction, error) {
	return s.translator.Transaction(ctx, ref.Chain, ref.TxHash)
}

// Summary returns the text shown on a card. The boolean is false when any
// default was substituted because upstream data was unavailable.
func (s *Service) Summary(ctx context.Context, ref Reference) (Summary, bool) {
	summary := DefaultSummary()
	if ref.TxHash == "" || !ValidChain(ref.Chain) {
		return summary, false
	}

	if s.cache.GetJSON(ctx, ref.key(), &summary) {
		return summary, true
	}

	tx, err := s.translator.Transaction(ctx, ref.Chain, ref.TxHash)
	if err != nil {
		slog.Warn("Transaction lookup failed, using default text", "chain", ref.Chain, "txHash", ref.TxHash, "error", err)
		metrics.Fallbacks.WithLabelValues("summary").Inc()
		return DefaultSummary(), false
	}

	if cd := tx.ClassificationData; cd != nil {
		if cd.Description != "" {
			summary.Description = cd.Description
		}
		if cd.Type != "" {
			summary.Type = noves.FormatType(cd.Type)
		}
	}
	if raw := tx.RawTransactionData; raw != nil {
		if raw.FromAddress != "" {
			summary.From = noves.ShortenAddress(raw.FromAddress)
		}
		if raw.ToAddress != "" {
			summary.To = noves.ShortenAddress(raw.ToAddress)
		}
	}

	if summary.Description == DefaultDescription {
		desc, err := s.translator.Describe(ctx, ref.Chain, ref.TxHash)
		if err != nil || desc.Description == "" {
			slog.Warn("Describe lookup failed, using default description", "chain", ref.Chain, "txHash", ref.TxHash, "error", err)
			metrics.Fallbacks.WithLabelValues("summary").Inc()
			return summary, false
		}
		summary.Description = desc.Description
		if summary.Type == DefaultType && desc.Type != "" {
			summary.Type = noves.FormatType(desc.Type)
		}
	}

	s.cache.SetJSON(ctx, ref.key(), summary, s.ttl)
	return summary, true
}

func (s *Service) logo(ctx context.Context, chain string) image.Image {
	if !ValidChain(chain) || !s.logos.Exists(ctx, chain) {
		metrics.Fallbacks.WithLabelValues("icon").Inc()
		return nil
	}
	img, err := s.logos.Fetch(ctx, chain)
	if err != nil {
		slog.Warn("Failed to fetch chain icon", "chain", chain, "error", err)
		metrics.Fallbacks.WithLabelValues("icon").Inc()
		return nil
	}
	return img
}

// Card gathers the summary and chain logo concurrently and returns a card
// ready to render, plus whether the summary came from upstream.
func (s *Service) Card(ctx context.Context, ref Reference) (render.Card, bool) {
	var (
		summary Summary
		ok      bool
		logo    image.Image
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, ok = s.Summary(gCtx, ref)
		return nil
	})
	g.Go(func() error {
		logo = s.logo(gCtx, ref.Chain)
		return nil
	})
	_ = g.Wait()

	return render.Card{
		ChainID:     ref.Chain,
		ChainName:   Capitalize(ref.Chain),
		Title:       summary.Type,
		Description: summary.Description,
		From:        summary.From,
		To:          summary.To,
		Icon:        logo,
		Background:  s.background,
	}, ok
}
