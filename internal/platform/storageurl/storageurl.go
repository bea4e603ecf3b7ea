package storageurl

import "strings"

// Public arma la URL pública de un objeto: base + "/" + path.
// path vacío => "" (la entidad no tiene imagen).
func Public(base, path string) string {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" {
		return ""
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return path
	}
	return base + "/" + path
}
