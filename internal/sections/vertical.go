package sections

import (
	"context"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/projyotish/internal/content"
)

func (c *Catalog) benefits(_ context.Context, page content.PageDescriptor) (g.Node, error) {
	benefits := c.lib.Benefits(page.Key)
	if len(benefits) == 0 {
		return nil, nil
	}

	return Section(ID("benefits"), Class("section"),
		Div(Class("container"),
			H2(Class("section-title"), g.Text("Why ProJyotish")),
			Div(Class("grid grid-3"),
				g.Group(g.Map(benefits, func(b content.Benefit) g.Node {
					return Div(Class("card benefit"),
						Div(Class("benefit-icon"), icon(b.Icon)),
						H3(g.Text(b.Title)),
						P(g.Text(b.Description)),
					)
				})),
			),
		),
	), nil
}

func (c *Catalog) problem(_ context.Context, page content.PageDescriptor) (g.Node, error) {
	problem := c.lib.Copy(page.Key).Problem
	if problem.Title == "" && len(problem.Points) == 0 {
		return nil, nil
	}

	return Section(ID("problem"), Class("section section-muted"),
		Div(Class("container narrow"),
			H2(Class("section-title"), g.Text(problem.Title)),
			g.If(problem.Subtitle != "", P(Class("lead text-center"), g.Text(problem.Subtitle))),
			Ul(Class("checklist"),
				g.Group(g.Map(problem.Points, func(point string) g.Node {
					return Li(Span(Class("icon"), icon("check")), g.Text(point))
				})),
			),
		),
	), nil
}
