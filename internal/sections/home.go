package sections

import (
	"context"
	"fmt"
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/projyotish/internal/content"
)

func (c *Catalog) hero(_ context.Context, page content.PageDescriptor) (g.Node, error) {
	hero := c.lib.Copy(page.Key).Hero
	if strings.TrimSpace(hero.Headline) == "" {
		return nil, fmt.Errorf("%w: hero for %s", ErrMissingContent, page.Key)
	}

	return Section(Class("hero"),
		Div(Class("container hero-inner"),
			H1(Class("hero-title"),
				g.Text(hero.Headline),
				g.If(hero.Highlight != "", g.Group([]g.Node{Br(), Span(Class("text-gradient"), g.Text(hero.Highlight))})),
			),
			g.Group(g.Map(hero.Lines, func(line string) g.Node {
				return P(Class("hero-line"), g.Text(line))
			})),
			ctaButton(c.links.ForPage(page.Path), hero.CTA),
		),
	), nil
}

func (c *Catalog) howItWorks(_ context.Context, page content.PageDescriptor) (g.Node, error) {
	steps := c.lib.Copy(page.Key).Steps
	if len(steps) == 0 {
		return nil, nil
	}

	items := make([]g.Node, 0, len(steps))
	for i, step := range steps {
		items = append(items, Li(Class("card step"),
			Span(Class("step-number"), g.Textf("%d", i+1)),
			H3(g.Text(step.Title)),
			P(g.Text(step.Description)),
		))
	}

	return Section(ID("how-it-works"), Class("section"),
		Div(Class("container"),
			H2(Class("section-title"), g.Text("How It Works")),
			Ol(Class("grid grid-3"), g.Group(items)),
		),
	), nil
}

func (c *Catalog) useCases(_ context.Context, page content.PageDescriptor) (g.Node, error) {
	cases := c.lib.Copy(page.Key).UseCases
	if len(cases) == 0 {
		return nil, nil
	}

	return Section(ID("use-cases"), Class("section section-muted"),
		Div(Class("container"),
			H2(Class("section-title"), g.Text("What You Can Ask")),
			Ul(Class("checklist"),
				g.Group(g.Map(cases, func(item string) g.Node {
					return Li(Span(Class("icon"), icon("check")), g.Text(item))
				})),
			),
		),
	), nil
}

func (c *Catalog) founders(_ context.Context, page content.PageDescriptor) (g.Node, error) {
	founders := c.lib.Copy(page.Key).Founders
	if len(founders) == 0 {
		return nil, nil
	}

	return Section(ID("founders"), Class("section"),
		Div(Class("container"),
			H2(Class("section-title"), g.Text("Meet the Founders")),
			Div(Class("grid grid-2"),
				g.Group(g.Map(founders, func(f content.Founder) g.Node {
					return Div(Class("card founder"),
						Div(Class("avatar avatar-lg"), g.Text(initial(f.Name))),
						H3(g.Text(f.Name)),
						g.If(f.Role != "", P(Class("muted"), g.Text(f.Role))),
						P(g.Text(f.Bio)),
					)
				})),
			),
		),
	), nil
}

func (c *Catalog) closing(_ context.Context, page content.PageDescriptor) (g.Node, error) {
	closing := c.lib.Copy(page.Key).Closing
	if strings.TrimSpace(closing.Title) == "" {
		return nil, fmt.Errorf("%w: closing call to action for %s", ErrMissingContent, page.Key)
	}

	return Section(ID("get-started"), Class("section section-cta"),
		Div(Class("container text-center"),
			H2(Class("section-title"), g.Text(closing.Title)),
			g.If(closing.Body != "", P(Class("lead"), g.Text(closing.Body))),
			ctaButton(c.links.ForPage(page.Path), closing.CTA),
		),
	), nil
}
