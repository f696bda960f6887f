package posixfs

import "strings"

// Basename returns the path component after the last slash. A path ending
// in a slash has an empty basename.
func Basename(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// BaseExt returns the extension of the final path component, including the
// leading dot, or "" when the component has none.
func BaseExt(path string) string {
	name := Basename(path)
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i:]
	}
	return ""
}

// Dirname returns the directory portion of path: everything before the
// last slash, "/" for a top-level entry, and "." when there is no slash.
func Dirname(path string) string {
	i := strings.LastIndexByte(path, '/')
	switch {
	case i < 0:
		return "."
	case i == 0:
		return "/"
	default:
		return path[:i]
	}
}
