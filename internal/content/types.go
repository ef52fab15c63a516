package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Loading 描述区块的加载策略。
type Loading int

const (
	// Eager 区块随首屏同步渲染。
	Eager Loading = iota
	// Deferred 区块先输出占位符，异步解析后再替换。
	Deferred
)

func (l Loading) String() string {
	if l == Deferred {
		return "deferred"
	}
	return "eager"
}

// UnmarshalYAML 支持 eager / deferred 两种写法，空值视为 eager。
func (l *Loading) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(strings.TrimSpace(value.Value)) {
	case "", "eager":
		*l = Eager
	case "deferred", "lazy":
		*l = Deferred
	default:
		return fmt.Errorf("unknown loading strategy %q (line %d)", value.Value, value.Line)
	}
	return nil
}

// DefaultPlaceholderHeight is used for deferred sections that do not declare one.
const DefaultPlaceholderHeight = "h-96"

// Placeholder describes what is shown while a deferred section resolves.
// An empty Height renders nothing.
type Placeholder struct {
	Height string
}

// Empty reports whether the placeholder renders no visible skeleton.
func (p Placeholder) Empty() bool {
	return strings.TrimSpace(p.Height) == ""
}

// SectionRef 是区块注册表中的一项。
type SectionRef struct {
	ID          string
	Loading     Loading
	Placeholder Placeholder
}

// PageDescriptor 描述一个路由对应的页面元数据与有序区块列表。
type PageDescriptor struct {
	Key         string
	Path        string
	Title       string
	Description string
	Sections    []SectionRef
}

// Testimonial 是一条用户评价，署名字段均为可选。
type Testimonial struct {
	Quote    string `yaml:"quote"`
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
}

const (
	// AnonymousLabel 替代缺失的署名。
	AnonymousLabel = "Verified ProJyotish user"
	// AnonymousGlyph 是匿名评价使用的通用头像。
	AnonymousGlyph = "★"
)

// Attribution is the display form of a testimonial's author.
type Attribution struct {
	Label     string
	Location  string
	Avatar    string
	Anonymous bool
}

// Display 生成署名展示信息；名字缺失时回退到匿名标签与通用字形。
func (t Testimonial) Display() Attribution {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return Attribution{Label: AnonymousLabel, Avatar: AnonymousGlyph, Anonymous: true}
	}
	first, _ := utf8.DecodeRuneInString(name)
	return Attribution{
		Label:    name,
		Location: strings.TrimSpace(t.Location),
		Avatar:   strings.ToUpper(string(first)),
	}
}

// Benefit 是垂直页面上的卖点条目。
type Benefit struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// CallToAction describes one outbound WhatsApp button.
type CallToAction struct {
	Label       string `yaml:"label"`
	ContentName string `yaml:"content_name"`
	Message     string `yaml:"message"`
	Note        string `yaml:"note"`
}

// Hero 是首屏文案。
type Hero struct {
	Headline  string       `yaml:"headline"`
	Highlight string       `yaml:"highlight"`
	Lines     []string     `yaml:"lines"`
	CTA       CallToAction `yaml:"cta"`
}

// Step 描述 how-it-works 区块中的一步。
type Step struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Problem 是“痛点 → 解决方案”区块的文案。
type Problem struct {
	Title    string   `yaml:"title"`
	Subtitle string   `yaml:"subtitle"`
	Points   []string `yaml:"points"`
}

// Founder 是创始人介绍。
type Founder struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
	Bio  string `yaml:"bio"`
}

// Closing 是页面底部的行动号召文案。
type Closing struct {
	Title string       `yaml:"title"`
	Body  string       `yaml:"body"`
	CTA   CallToAction `yaml:"cta"`
}

// Contact 是联系页文案。
type Contact struct {
	Intro string       `yaml:"intro"`
	Email string       `yaml:"email"`
	CTA   CallToAction `yaml:"cta"`
}

// PageCopy holds the marketing copy of one page key.
type PageCopy struct {
	Hero     Hero      `yaml:"hero"`
	Steps    []Step    `yaml:"steps"`
	UseCases []string  `yaml:"use_cases"`
	Problem  Problem   `yaml:"problem"`
	Founders []Founder `yaml:"founders"`
	Closing  Closing   `yaml:"closing"`
	Contact  Contact   `yaml:"contact"`
}

// Plan 是定价方案。
type Plan struct {
	Name     string       `yaml:"name"`
	Price    string       `yaml:"price"`
	Period   string       `yaml:"period"`
	Features []string     `yaml:"features"`
	Featured bool         `yaml:"featured"`
	CTA      CallToAction `yaml:"cta"`
}

// LegalDoc 是带 YAML front matter 的 markdown 文档。
type LegalDoc struct {
	Key     string
	Title   string
	Updated string
	Body    string
}
