package worker

// Directory is the read-only table of identities and their secrets.
type Directory interface {
	// List returns every worker sorted by ID
	List() []Worker

	// Exists reports whether the identity is registered
	Exists(id string) bool

	// Verify checks a password for the identity
	Verify(id string, password string) error
}
