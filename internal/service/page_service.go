package service

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/projyotish/internal/content"
	"github.com/projyotish/internal/logging"
	"github.com/projyotish/internal/render"
	"github.com/projyotish/internal/sections"
	"github.com/projyotish/internal/view"
)

// ErrPageNotFound 表示请求的路径没有对应页面。
var ErrPageNotFound = content.ErrPageNotFound

const notFoundTitle = "Page Not Found - ProJyotish"

// PageOptions 配置页面骨架。
type PageOptions struct {
	BaseURL string
	PixelID string
	Logger  *zap.Logger
}

// PageService renders landing pages: the persistent header and footer
// around the ordered section list of a page descriptor.
type PageService struct {
	lib      *content.Library
	catalog  *sections.Catalog
	renderer *render.Renderer
	tmpl     *template.Template
	baseURL  string
	pixelID  string
	logger   *zap.Logger
	now      func() time.Time
}

// NewPageService parses the shell templates under site/ in templates.
func NewPageService(lib *content.Library, catalog *sections.Catalog, renderer *render.Renderer, templates fs.FS, opts PageOptions) (*PageService, error) {
	tmpl, err := template.ParseFS(templates, "site/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse shell templates: %w", err)
	}
	return &PageService{
		lib:      lib,
		catalog:  catalog,
		renderer: renderer,
		tmpl:     tmpl,
		baseURL:  opts.BaseURL,
		pixelID:  opts.PixelID,
		logger:   logging.OrNop(opts.Logger).Named("page"),
		now:      time.Now,
	}, nil
}

// Pages 返回全部页面描述，按注册顺序。
func (s *PageService) Pages() []content.PageDescriptor {
	return s.lib.Pages()
}

// Lookup 按路径查找页面。
func (s *PageService) Lookup(path string) (content.PageDescriptor, error) {
	return s.lib.PageByPath(path)
}

type shellData struct {
	PageKey     string
	Meta        view.Meta
	Nav         []view.RenderedNavItem
	Footer      []view.RenderedNavItem
	SwapScript  template.JS
	FloatingCTA template.HTML
	PixelID     string
	NoIndex     bool
	Year        int
}

func (s *PageService) shell(page content.PageDescriptor) shellData {
	data := shellData{
		PageKey:    page.Key,
		Meta:       view.BuildMeta(page, s.baseURL),
		Nav:        view.BuildNav(view.MainNav, page.Path),
		Footer:     view.BuildNav(view.FooterNav, page.Path),
		SwapScript: template.JS(render.SwapScript),
		PixelID:    s.pixelID,
		Year:       s.now().Year(),
	}
	if page.Key == "home" {
		data.FloatingCTA = s.catalog.FloatingCTA(page.Path)
	}
	return data
}

func (s *PageService) resolver(page content.PageDescriptor) render.ResolveFunc {
	return func(ctx context.Context, ref content.SectionRef) (template.HTML, error) {
		return s.catalog.Resolve(ctx, page, ref)
	}
}

// Stream writes page progressively: the shell and eager sections first,
// then each deferred section as soon as it and every earlier one settled.
func (s *PageService) Stream(ctx context.Context, w io.Writer, page content.PageDescriptor) ([]render.SlotReport, error) {
	pass := s.renderer.Begin(ctx, page.Sections, s.resolver(page))
	data := s.shell(page)

	if err := s.tmpl.ExecuteTemplate(w, "site_head", data); err != nil {
		return nil, err
	}
	if err := pass.WriteBody(w); err != nil {
		return pass.Report(), err
	}
	if err := s.tmpl.ExecuteTemplate(w, "site_footer", data); err != nil {
		return pass.Report(), err
	}
	render.Flush(w)

	if err := pass.StreamDeferred(ctx, w); err != nil {
		return pass.Report(), err
	}
	if err := s.tmpl.ExecuteTemplate(w, "site_end", data); err != nil {
		return pass.Report(), err
	}
	return pass.Report(), nil
}

// Export writes page with every section settled in place.
func (s *PageService) Export(ctx context.Context, w io.Writer, page content.PageDescriptor) ([]render.SlotReport, error) {
	pass := s.renderer.Begin(ctx, page.Sections, s.resolver(page))
	data := s.shell(page)

	if err := s.tmpl.ExecuteTemplate(w, "site_head", data); err != nil {
		return nil, err
	}
	if err := pass.WriteSettled(ctx, w); err != nil {
		return pass.Report(), err
	}
	if err := s.tmpl.ExecuteTemplate(w, "site_footer", data); err != nil {
		return pass.Report(), err
	}
	if err := s.tmpl.ExecuteTemplate(w, "site_end", data); err != nil {
		return pass.Report(), err
	}
	return pass.Report(), nil
}

// NotFound renders the 404 page through the same shell.
func (s *PageService) NotFound(w io.Writer, requestPath string) error {
	page := content.PageDescriptor{
		Key:         "not-found",
		Path:        requestPath,
		Title:       notFoundTitle,
		Description: "The page you are looking for does not exist.",
	}
	data := s.shell(page)
	data.NoIndex = true
	data.Meta.Canonical = ""
	data.Meta.OG.Image = view.BuildMeta(content.PageDescriptor{Key: "home", Path: "/"}, s.baseURL).OG.Image
	data.Meta.Twitter.Image = data.Meta.OG.Image

	for _, step := range []struct {
		name string
		data any
	}{
		{"site_head", data},
		{"not_found", requestPath},
		{"site_footer", data},
		{"site_end", data},
	} {
		if err := s.tmpl.ExecuteTemplate(w, step.name, step.data); err != nil {
			return err
		}
	}
	return nil
}
