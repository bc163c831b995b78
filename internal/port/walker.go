package port

// FileWalker lists files under a root directory.
type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	// Path is absolute; RelPath is slash-separated and relative to the walked root.
	Path    string
	RelPath string
	ModTime int64
	Size    int64
}
