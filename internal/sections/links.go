package sections

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/projyotish/internal/content"
	"github.com/projyotish/internal/outbound"
	"github.com/projyotish/internal/view"
)

// FloatingContentName names the floating mobile call to action.
const FloatingContentName = "Floating WhatsApp CTA"

// CTALink renders an outbound anchor. The chat opens in a new tab and
// receives no opener or referrer.
func CTALink(links outbound.Links, cta content.CallToAction, class string, children ...g.Node) g.Node {
	label := cta.Label
	if label == "" {
		label = "Chat on WhatsApp"
	}
	nodes := []g.Node{
		Href(links.Href(cta)),
		Target("_blank"),
		Rel("noopener noreferrer"),
		g.Attr("referrerpolicy", "no-referrer"),
		g.Attr("data-track", string(outbound.EventLead)),
		g.If(cta.ContentName != "", g.Attr("data-content-name", cta.ContentName)),
		Class(class),
	}
	if len(children) == 0 {
		children = []g.Node{
			Span(Class("icon"), g.Raw(string(view.IconSVG("message-circle")))),
			Span(g.Text(label)),
		}
	}
	return A(append(nodes, children...)...)
}

func floatingCTA(links outbound.Links) g.Node {
	return Div(Class("floating-cta"),
		CTALink(links, content.CallToAction{
			Label:       "Get Started",
			ContentName: FloatingContentName,
			Message:     links.DefaultText,
		}, "btn btn-primary btn-pill"),
	)
}

func ctaButton(links outbound.Links, cta content.CallToAction) g.Node {
	return Div(Class("cta-group"),
		CTALink(links, cta, "btn btn-primary btn-lg"),
		g.If(cta.Note != "", P(Class("cta-note"), g.Text(cta.Note))),
	)
}
