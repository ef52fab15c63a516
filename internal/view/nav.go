package view

import "github.com/projyotish/internal/content"

// NavItem is a link in the header or footer navigation.
type NavItem struct {
	Path  string
	Label string
}

// RenderedNavItem 是模板使用的导航视图模型。
type RenderedNavItem struct {
	Href   string
	Label  string
	Active bool
}

// MainNav is the header navigation.
var MainNav = []NavItem{
	{Path: "/", Label: "Home"},
	{Path: "/business/", Label: "Business"},
	{Path: "/career/", Label: "Career"},
	{Path: "/health/", Label: "Health"},
	{Path: "/love/", Label: "Love"},
	{Path: "/wealth/", Label: "Wealth"},
	{Path: "/pricing/", Label: "Pricing"},
}

// FooterNav 是页脚导航。
var FooterNav = []NavItem{
	{Path: "/pricing/", Label: "Pricing"},
	{Path: "/contact/", Label: "Contact"},
	{Path: "/privacy/", Label: "Privacy Policy"},
	{Path: "/terms/", Label: "Terms & Conditions"},
}

// BuildNav marks the item whose path equals the current path as active.
// Paths are compared after trailing-slash normalization, so "/love" and
// "/love/" are the same page while "/" never matches "/love/".
func BuildNav(items []NavItem, currentPath string) []RenderedNavItem {
	current := content.NormalizePath(currentPath)
	out := make([]RenderedNavItem, 0, len(items))
	for _, item := range items {
		href := content.NormalizePath(item.Path)
		out = append(out, RenderedNavItem{
			Href:   href,
			Label:  item.Label,
			Active: IsActive(href, current),
		})
	}
	return out
}

// IsActive 判断导航链接是否对应当前页面。
func IsActive(itemPath, currentPath string) bool {
	return content.NormalizePath(itemPath) == content.NormalizePath(currentPath)
}
