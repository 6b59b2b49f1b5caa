package index

// OutputIndex defines the interface for output indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type OutputIndex interface {
	UpsertOutput(o OutputRow, body string) error
	DeleteOutput(name string) error
	GetChecksum(name string) (string, error)
	ListOutputs() ([]OutputRow, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies OutputIndex at compile time.
var _ OutputIndex = (*DB)(nil)
