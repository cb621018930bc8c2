package ports

// FileSystem is the path policy the workflows depend on.
type FileSystem interface {
	SanitizeFilename(name string) string
	EnsureDir(path string) error
	ResolveOutputDir(raw string) (string, error)
	RemoveAll(path string) (existed bool, err error)
}

type DocumentValidator interface {
	Validate(path string) error
}
