package sections

import (
	"context"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/projyotish/internal/content"
)

func (c *Catalog) testimonials(_ context.Context, page content.PageDescriptor) (g.Node, error) {
	items := c.lib.Testimonials(page.Key)
	if len(items) == 0 {
		return nil, nil
	}

	return Section(ID("testimonials"), Class("section"),
		Div(Class("container"),
			H2(Class("section-title"), g.Text("What Our Users Say")),
			Div(Class("grid grid-3"), g.Group(g.Map(items, testimonialCard))),
		),
	), nil
}

func testimonialCard(t content.Testimonial) g.Node {
	who := t.Display()
	avatarClass := "avatar"
	if who.Anonymous {
		avatarClass += " avatar-anonymous"
	}

	return Figure(Class("card testimonial"),
		Div(Class("stars"), g.Attr("aria-label", "5 out of 5"),
			icon("star"), icon("star"), icon("star"), icon("star"), icon("star"),
		),
		BlockQuote(Span(Class("quote-icon"), icon("quote")), P(g.Text(t.Quote))),
		Div(Class("attribution"),
			Span(Class(avatarClass), g.Attr("aria-hidden", "true"), g.Text(who.Avatar)),
			Div(
				P(Class("attribution-name"), g.Text(who.Label)),
				g.If(who.Location != "", P(Class("muted"), g.Text(who.Location))),
			),
		),
	)
}
