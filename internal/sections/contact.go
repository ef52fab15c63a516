package sections

import (
	"context"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/projyotish/internal/content"
)

func (c *Catalog) contact(_ context.Context, page content.PageDescriptor) (g.Node, error) {
	info := c.lib.Copy(page.Key).Contact
	if info.Intro == "" && info.Email == "" {
		return nil, ErrMissingContent
	}

	return Section(ID("contact"), Class("section"),
		Div(Class("container narrow text-center"),
			H1(Class("section-title"), g.Text("Contact Us")),
			P(Class("lead"), g.Text(info.Intro)),
			ctaButton(c.links.ForPage(page.Path), info.CTA),
			g.If(info.Email != "",
				P(Class("muted"), g.Text("Or email us at "), A(Href("mailto:"+info.Email), g.Text(info.Email))),
			),
		),
	), nil
}
