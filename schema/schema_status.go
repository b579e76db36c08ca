package schema

// StoreStatus represents the status of the commit store.
type StoreStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	SchemaVersion  uint             `json:"schema_version"`
	Dirty          bool             `json:"dirty"`
	Projects       []Project        `json:"projects"`
	TableSizes     map[string]int64 `json:"table_sizes"`
	LastCommitTime int64            `json:"last_commit_time"`
}
