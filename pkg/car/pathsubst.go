package car

import (
	"path"
	"strings"
)

// PathSubst moves p into a sibling directory: the file name and its
// immediate parent are removed, dir is appended, then the file name again.
// A non-empty ext replaces the file extension.
//
//	PathSubst("/old/file.ext", "path", "ext2") == "/path/file.ext2"
func PathSubst(p, dir, ext string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	parent, file := path.Split(p)
	base := path.Dir(path.Clean(parent))
	if ext != "" {
		file = strings.TrimSuffix(file, path.Ext(file)) + "." + strings.TrimPrefix(ext, ".")
	}
	return path.Join(base, dir, file)
}

// sibling returns the path of name placed next to the file at p.
func sibling(p, name string) string {
	return path.Join(path.Dir(p), name)
}
