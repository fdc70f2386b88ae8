package types

// SyncResult aggregates the outcome of one sync run. Errors keeps the
// per-repository failures in the order the repositories were returned.
type SyncResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
	Total   int      `json:"total"`
}

// NewSyncResult returns an empty result for a batch of total repositories.
func NewSyncResult(total int) *SyncResult {
	return &SyncResult{Errors: []string{}, Total: total}
}
