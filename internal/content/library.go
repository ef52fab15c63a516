package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/projyotish/internal/logging"
)

var (
	// ErrPageNotFound 表示注册表中不存在该页面。
	ErrPageNotFound = errors.New("page not found")
	// ErrLegalNotFound 表示不存在对应的法律文档。
	ErrLegalNotFound = errors.New("legal document not found")
	// ErrMissingMetadata 表示路由缺少 title 或 description。
	ErrMissingMetadata = errors.New("page metadata is required")
)

var sectionIDPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

const (
	pagesFile        = "pages.yaml"
	testimonialsFile = "testimonials.yaml"
	benefitsFile     = "benefits.yaml"
	copyFile         = "copy.yaml"
	pricingFile      = "pricing.yaml"
	legalDir         = "legal"
)

type pagesDocument struct {
	Pages []pageRecord `yaml:"pages"`
}

type pageRecord struct {
	Key         string          `yaml:"key"`
	Path        string          `yaml:"path"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Sections    []sectionRecord `yaml:"sections"`
}

type sectionRecord struct {
	ID          string  `yaml:"id"`
	Loading     Loading `yaml:"loading"`
	Placeholder *string `yaml:"placeholder"`
}

type legalFrontMatter struct {
	Title   string `yaml:"title"`
	Updated string `yaml:"updated"`
}

// Library 是只读的内容源：页面注册表、评价、卖点、文案、定价与法律文档。
type Library struct {
	pages        []PageDescriptor
	byKey        map[string]int
	byPath       map[string]int
	testimonials map[string][]Testimonial
	benefits     map[string][]Benefit
	copy         map[string]PageCopy
	plans        []Plan
	legal        map[string]LegalDoc
}

// Load 从 fsys 读取全部内容文件。pages.yaml 必须存在，其余文件缺失时视为空。
func Load(fsys fs.FS, logger *zap.Logger) (*Library, error) {
	logger = logging.OrNop(logger).Named("content")

	var doc pagesDocument
	if err := readYAML(fsys, pagesFile, &doc, false); err != nil {
		return nil, err
	}

	lib := &Library{
		byKey:        make(map[string]int, len(doc.Pages)),
		byPath:       make(map[string]int, len(doc.Pages)),
		testimonials: map[string][]Testimonial{},
		benefits:     map[string][]Benefit{},
		copy:         map[string]PageCopy{},
		legal:        map[string]LegalDoc{},
	}

	for _, record := range doc.Pages {
		page, err := buildPage(record, logger)
		if err != nil {
			return nil, err
		}
		if _, exists := lib.byKey[page.Key]; exists {
			return nil, fmt.Errorf("content: duplicate page key %q", page.Key)
		}
		if _, exists := lib.byPath[page.Path]; exists {
			return nil, fmt.Errorf("content: duplicate page path %q", page.Path)
		}
		lib.byKey[page.Key] = len(lib.pages)
		lib.byPath[page.Path] = len(lib.pages)
		lib.pages = append(lib.pages, page)
	}

	if err := readYAML(fsys, testimonialsFile, &lib.testimonials, true); err != nil {
		return nil, err
	}
	for key, items := range lib.testimonials {
		kept := items[:0]
		for _, item := range items {
			if strings.TrimSpace(item.Quote) == "" {
				logger.Warn("dropping testimonial without quote", zap.String("page", key))
				continue
			}
			kept = append(kept, item)
		}
		lib.testimonials[key] = kept
	}

	if err := readYAML(fsys, benefitsFile, &lib.benefits, true); err != nil {
		return nil, err
	}
	if err := readYAML(fsys, copyFile, &lib.copy, true); err != nil {
		return nil, err
	}

	var pricing struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := readYAML(fsys, pricingFile, &pricing, true); err != nil {
		return nil, err
	}
	lib.plans = pricing.Plans

	if err := lib.loadLegal(fsys); err != nil {
		return nil, err
	}

	return lib, nil
}

func buildPage(record pageRecord, logger *zap.Logger) (PageDescriptor, error) {
	key := strings.TrimSpace(record.Key)
	if key == "" {
		return PageDescriptor{}, errors.New("content: page key is required")
	}

	page := PageDescriptor{
		Key:         key,
		Path:        NormalizePath(record.Path),
		Title:       strings.TrimSpace(record.Title),
		Description: strings.TrimSpace(record.Description),
	}
	if page.Title == "" || page.Description == "" {
		return PageDescriptor{}, fmt.Errorf("content: route %s: %w", page.Path, ErrMissingMetadata)
	}

	seen := make(map[string]struct{}, len(record.Sections))
	for _, section := range record.Sections {
		id := strings.ToLower(strings.TrimSpace(section.ID))
		if !sectionIDPattern.MatchString(id) {
			logger.Warn("dropping section with invalid id", zap.String("page", key), zap.String("section", section.ID))
			continue
		}
		if _, dup := seen[id]; dup {
			logger.Warn("dropping duplicate section", zap.String("page", key), zap.String("section", id))
			continue
		}
		seen[id] = struct{}{}

		ref := SectionRef{ID: id, Loading: section.Loading}
		switch {
		case section.Placeholder != nil:
			ref.Placeholder = Placeholder{Height: strings.TrimSpace(*section.Placeholder)}
		case ref.Loading == Deferred:
			ref.Placeholder = Placeholder{Height: DefaultPlaceholderHeight}
		}
		page.Sections = append(page.Sections, ref)
	}

	if len(page.Sections) > 0 && page.Sections[0].Loading != Eager {
		logger.Warn("first section promoted to eager", zap.String("page", key), zap.String("section", page.Sections[0].ID))
		page.Sections[0].Loading = Eager
	}

	return page, nil
}

func (l *Library) loadLegal(fsys fs.FS) error {
	matches, err := fs.Glob(fsys, path.Join(legalDir, "*.md"))
	if err != nil {
		return fmt.Errorf("content: list legal documents: %w", err)
	}
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("content: read %s: %w", name, err)
		}
		fm, body := splitFrontMatter(string(data))
		var front legalFrontMatter
		if strings.TrimSpace(fm) != "" {
			if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
				return fmt.Errorf("content: parse front matter %s: %w", name, err)
			}
		}
		key := strings.TrimSuffix(path.Base(name), ".md")
		l.legal[key] = LegalDoc{
			Key:     key,
			Title:   strings.TrimSpace(front.Title),
			Updated: strings.TrimSpace(front.Updated),
			Body:    body,
		}
	}
	return nil
}

// Pages 按注册顺序返回全部页面描述。
func (l *Library) Pages() []PageDescriptor {
	out := make([]PageDescriptor, len(l.pages))
	for i, page := range l.pages {
		out[i] = clonePage(page)
	}
	return out
}

// Page 按页面 key 查找描述。
func (l *Library) Page(key string) (PageDescriptor, error) {
	idx, ok := l.byKey[strings.TrimSpace(key)]
	if !ok {
		return PageDescriptor{}, ErrPageNotFound
	}
	return clonePage(l.pages[idx]), nil
}

// PageByPath 按路由路径查找描述，末尾斜杠可有可无。
func (l *Library) PageByPath(p string) (PageDescriptor, error) {
	idx, ok := l.byPath[NormalizePath(p)]
	if !ok {
		return PageDescriptor{}, ErrPageNotFound
	}
	return clonePage(l.pages[idx]), nil
}

// Testimonials 返回页面的评价列表，保持编写顺序。
func (l *Library) Testimonials(key string) []Testimonial {
	return slices.Clone(l.testimonials[key])
}

// Benefits 返回页面的卖点列表，保持编写顺序。
func (l *Library) Benefits(key string) []Benefit {
	return slices.Clone(l.benefits[key])
}

// Copy returns the marketing copy for a page key; unknown keys yield zero copy.
func (l *Library) Copy(key string) PageCopy {
	return l.copy[key]
}

// Plans returns the pricing plans in authored order.
func (l *Library) Plans() []Plan {
	return slices.Clone(l.plans)
}

// Legal 返回法律文档。
func (l *Library) Legal(key string) (LegalDoc, error) {
	doc, ok := l.legal[key]
	if !ok {
		return LegalDoc{}, ErrLegalNotFound
	}
	return doc, nil
}

// NormalizePath 统一路由路径为带末尾斜杠的形式，首页为 "/"。
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return "/"
	}
	cleaned := path.Clean("/" + strings.Trim(p, "/"))
	if cleaned == "/" {
		return "/"
	}
	return cleaned + "/"
}

func clonePage(page PageDescriptor) PageDescriptor {
	page.Sections = slices.Clone(page.Sections)
	return page
}

func readYAML(fsys fs.FS, name string, dst any, optional bool) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("content: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("content: parse %s: %w", name, err)
	}
	return nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}
