package index

// FileIndex defines the interface for vault metadata index operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type FileIndex interface {
	UpsertFile(r FileRow) error
	DeleteFile(path string) error
	GetFile(path string) (*FileRow, error)
	GetChecksum(path string) (string, error)
	ListFiles(limit, offset int, program, course string) ([]FileRow, int, error)
	Search(query string, limit int) ([]FileRow, error)
	Stats() (*VaultStats, error)
	AllPaths() (map[string]struct{}, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies FileIndex at compile time.
var _ FileIndex = (*DB)(nil)
