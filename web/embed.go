package web

import (
	"embed"
	"io/fs"
)

//go:embed content template static
var files embed.FS

// Content 返回内容文件（页面注册表、评价、文案与法律文档）。
func Content() fs.FS {
	return mustSub("content")
}

// Templates 返回页面骨架与后台模板。
func Templates() fs.FS {
	return mustSub("template")
}

// Static 返回样式与脚本等静态资源。
func Static() fs.FS {
	return mustSub("static")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
