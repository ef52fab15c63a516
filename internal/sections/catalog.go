// Package sections renders the page sections of the landing site. Each
// section id maps to a builder that reads its copy from the content library.
package sections

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	g "maragu.dev/gomponents"

	"github.com/projyotish/internal/content"
	"github.com/projyotish/internal/outbound"
)

var (
	// ErrUnknownSection 表示区块 id 没有对应的组件。
	ErrUnknownSection = errors.New("unknown section")
	// ErrMissingContent 表示区块所需的文案不存在。
	ErrMissingContent = errors.New("section content missing")
)

type builder func(ctx context.Context, page content.PageDescriptor) (g.Node, error)

// Catalog maps section ids to their builders.
type Catalog struct {
	lib      *content.Library
	links    outbound.Links
	builders map[string]builder

	legalGroup singleflight.Group
	legalCache sync.Map
}

// NewCatalog 创建区块目录。
func NewCatalog(lib *content.Library, links outbound.Links) *Catalog {
	c := &Catalog{lib: lib, links: links}
	c.builders = map[string]builder{
		"hero":         c.hero,
		"how-it-works": c.howItWorks,
		"use-cases":    c.useCases,
		"benefits":     c.benefits,
		"problem":      c.problem,
		"testimonials": c.testimonials,
		"founders":     c.founders,
		"cta":          c.closing,
		"pricing":      c.pricing,
		"contact":      c.contact,
		"legal":        c.legal,
	}
	return c
}

// Has 判断区块 id 是否已登记。
func (c *Catalog) Has(id string) bool {
	_, ok := c.builders[id]
	return ok
}

// Resolve renders one section of page.
func (c *Catalog) Resolve(ctx context.Context, page content.PageDescriptor, ref content.SectionRef) (template.HTML, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	build, ok := c.builders[ref.ID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSection, ref.ID)
	}
	node, err := build(ctx, page)
	if err != nil {
		return "", fmt.Errorf("section %s: %w", ref.ID, err)
	}
	return renderNode(node)
}

// FloatingCTA renders the mobile-only call to action pinned to the viewport.
func (c *Catalog) FloatingCTA(pagePath string) template.HTML {
	html, err := renderNode(floatingCTA(c.links.ForPage(pagePath)))
	if err != nil {
		return ""
	}
	return html
}

func renderNode(node g.Node) (template.HTML, error) {
	if node == nil {
		return "", nil
	}
	var b strings.Builder
	if err := node.Render(&b); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}
