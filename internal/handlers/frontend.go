package handlers

import (
	"context"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shruggr/go-txpreview/frontend"
	"github.com/shruggr/go-txpreview/internal/icons"
	"github.com/shruggr/go-txpreview/internal/preview"
	"github.com/shruggr/go-txpreview/internal/render"
	"golang.org/x/sync/errgroup"
)

const (
	iconLookupTimeout = 3 * time.Second
	iconLookupWorkers = 8
)

type FrontendHandler struct {
	templates *template.Template
	previews  *preview.Service
	resolver  *icons.Resolver
	baseURL   string
}

type ChainOption struct {
	Name      string
	Ecosystem string
	IconURL   template.URL
}

type PageData struct {
	Chains []ChainOption
}

type TransactionPageData struct {
	Title       string
	Description string
	PageURL     string
	ImageURL    string
	TweetURL    string
	Width       int
	Height      int
}

func NewFrontendHandler(previews *preview.Service, resolver *icons.Resolver, baseURL string) (*FrontendHandler, error) {
	tmpl, err := template.ParseFS(frontend.Pages, "pages/*.html")
	if err != nil {
		return nil, err
	}

	return &FrontendHandler{
		templates: tmpl,
		previews:  previews,
		resolver:  resolver,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}, nil
}

// PageURL is the shareable address of a transaction's preview page.
func PageURL(baseURL string, ref preview.Reference) string {
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(ref.Chain) + "/" + url.PathEscape(ref.TxHash)
}

func ImageURL(baseURL string, ref preview.Reference) string {
	return PageURL(baseURL, ref) + "/og-image"
}

func TweetURL(pageURL string) string {
	return "https://twitter.com/intent/tweet?url=" + url.QueryEscape(pageURL)
}

func (h *FrontendHandler) RenderIndex(c *fiber.Ctx) error {
	chains := h.previews.Chains(c.UserContext())

	ctx, cancel := context.WithTimeout(c.UserContext(), iconLookupTimeout)
	defer cancel()

	options := make([]ChainOption, len(chains))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(iconLookupWorkers)
	for i, chain := range chains {
		g.Go(func() error {
			options[i] = ChainOption{
				Name:      chain.Name,
				Ecosystem: chain.Ecosystem,
				IconURL:   template.URL(h.resolver.Resolve(gCtx, chain.Name)),
			}
			return nil
		})
	}
	_ = g.Wait()

	c.Set("Content-Type", "text/html; charset=utf-8")
	return h.templates.ExecuteTemplate(c, "index.html", PageData{Chains: options})
}

func (h *FrontendHandler) RenderTransaction(c *fiber.Ctx) error {
	ref := referenceFromParams(c)
	if ref.Chain == "" || ref.TxHash == "" {
		return h.Render404(c)
	}

	chainName := preview.Capitalize(ref.Chain)
	pageURL := PageURL(h.baseURL, ref)
	data := TransactionPageData{
		Title:       "Transaction on " + chainName,
		Description: "View transaction details on " + chainName,
		PageURL:     pageURL,
		ImageURL:    ImageURL(h.baseURL, ref),
		TweetURL:    TweetURL(pageURL),
		Width:       render.Width,
		Height:      render.Height,
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return h.templates.ExecuteTemplate(c, "transaction.html", data)
}

func (h *FrontendHandler) Render404(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	c.Set("Content-Type", "text/html; charset=utf-8")
	return h.templates.ExecuteTemplate(c, "404.html", nil)
}
