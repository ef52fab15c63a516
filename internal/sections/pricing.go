package sections

import (
	"context"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/projyotish/internal/content"
)

func (c *Catalog) pricing(_ context.Context, page content.PageDescriptor) (g.Node, error) {
	links := c.links.ForPage(page.Path)
	plans := c.lib.Plans()
	if len(plans) == 0 {
		return nil, ErrMissingContent
	}

	return Section(ID("pricing"), Class("section"),
		Div(Class("container"),
			H1(Class("section-title"), g.Text("Simple, Transparent Pricing")),
			P(Class("lead text-center"), g.Text("Start with a free trial. Upgrade when the guidance proves itself.")),
			Div(Class("grid grid-3"),
				g.Group(g.Map(plans, func(plan content.Plan) g.Node {
					class := "card plan"
					if plan.Featured {
						class += " plan-featured"
					}
					return Div(Class(class),
						g.If(plan.Featured, Span(Class("badge"), g.Text("Most Popular"))),
						H3(g.Text(plan.Name)),
						P(Class("plan-price"), g.Text(plan.Price), Span(Class("muted"), g.Text(" "+plan.Period))),
						Ul(Class("checklist"),
							g.Group(g.Map(plan.Features, func(feature string) g.Node {
								return Li(Span(Class("icon"), icon("check")), g.Text(feature))
							})),
						),
						CTALink(links, plan.CTA, "btn btn-primary btn-block"),
					)
				})),
			),
		),
	), nil
}
