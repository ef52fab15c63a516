package app

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/projyotish/internal/content"
	"github.com/projyotish/internal/render"
	"github.com/projyotish/web"
)

// ExportSummary 汇总一次静态导出的结果。
type ExportSummary struct {
	Pages          int
	Images         int
	StaticFiles    int
	FailedSections int
}

// Export writes every page as <dir>/<path>/index.html with all sections
// settled in place, plus share images, a 404 page and the static assets.
func (a *App) Export(ctx context.Context, dir string) (ExportSummary, error) {
	var (
		summary ExportSummary
		images  atomic.Int64
		failed  atomic.Int64
	)

	pages := a.Pages.Pages()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, page := range pages {
		g.Go(func() error {
			n, err := a.exportPage(ctx, dir, page)
			failed.Add(int64(n))
			return err
		})
		g.Go(func() error {
			data, err := a.Images.PNG(page.Key, page.Title)
			if err != nil {
				return fmt.Errorf("og image %s: %w", page.Key, err)
			}
			images.Add(1)
			return writeFile(filepath.Join(dir, "og", page.Key+".png"), data)
		})
	}

	g.Go(func() error {
		var buf bytes.Buffer
		if err := a.Pages.NotFound(&buf, "/404/"); err != nil {
			return fmt.Errorf("not found page: %w", err)
		}
		return writeFile(filepath.Join(dir, "404.html"), buf.Bytes())
	})

	g.Go(func() error {
		n, err := copyTree(web.Static(), filepath.Join(dir, "static"))
		summary.StaticFiles = n
		return err
	})

	if err := g.Wait(); err != nil {
		return summary, err
	}

	summary.Pages = len(pages)
	summary.Images = int(images.Load())
	summary.FailedSections = int(failed.Load())
	return summary, nil
}

func (a *App) exportPage(ctx context.Context, dir string, page content.PageDescriptor) (int, error) {
	var buf bytes.Buffer
	reports, err := a.Pages.Export(ctx, &buf, page)
	if err != nil {
		return 0, fmt.Errorf("export %s: %w", page.Path, err)
	}

	failed := 0
	for _, report := range reports {
		if report.State == render.StateFailed {
			failed++
			a.Logger.Warn("section left out of export",
				zap.String("page", page.Key),
				zap.String("section", report.ID),
				zap.Error(report.Err),
			)
		}
	}

	target := filepath.Join(dir, filepath.FromSlash(strings.Trim(page.Path, "/")), "index.html")
	return failed, writeFile(target, buf.Bytes())
}

func copyTree(src fs.FS, dst string) (int, error) {
	count := 0
	err := fs.WalkDir(src, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(src, name)
		if err != nil {
			return err
		}
		count++
		return writeFile(filepath.Join(dst, filepath.FromSlash(name)), data)
	})
	return count, err
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	return os.WriteFile(name, data, 0o644)
}
