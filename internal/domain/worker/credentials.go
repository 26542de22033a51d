package worker

import (
	"crypto/subtle"
	"fmt"
	"sort"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// CredentialTable is a static Directory loaded once at startup.
// Secrets are compared verbatim unless they look like bcrypt hashes.
type CredentialTable struct {
	secrets map[string]string
}

var _ Directory = (*CredentialTable)(nil)

func NewCredentialTable(secrets map[string]string) *CredentialTable {
	copied := make(map[string]string, len(secrets))
	for id, secret := range secrets {
		copied[id] = secret
	}
	return &CredentialTable{secrets: copied}
}

// ParseCredentials reads "ana:secret,luis:$2a$10$..." into a table.
func ParseCredentials(raw string) (*CredentialTable, error) {
	secrets := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, secret, ok := strings.Cut(entry, ":")
		id = strings.TrimSpace(id)
		if !ok || secret == "" || !validator.IsValidWorkerIdentity(id) {
			return nil, fmt.Errorf("%w: %q", ErrMalformedEntry, id)
		}
		if _, exists := secrets[id]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateWorker, id)
		}
		secrets[id] = secret
	}
	return &CredentialTable{secrets: secrets}, nil
}

func (t *CredentialTable) List() []Worker {
	workers := make([]Worker, 0, len(t.secrets))
	for id := range t.secrets {
		workers = append(workers, Worker{ID: id})
	}
	sort.Slice(workers, func(i, j int) bool { return workers[i].ID < workers[j].ID })
	return workers
}

func (t *CredentialTable) Exists(id string) bool {
	_, ok := t.secrets[id]
	return ok
}

func (t *CredentialTable) Verify(id string, password string) error {
	secret, ok := t.secrets[id]
	if !ok {
		return ErrInvalidCredentials
	}
	if isBcryptHash(secret) {
		if err := bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(password)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
