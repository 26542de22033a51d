package worker

// Worker is a selectable identity. ID is stable and never changes once created.
type Worker struct {
	ID string `json:"id"`
}
