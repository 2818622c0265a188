package entity

// EvictionEvent is published when retention enforcement removed a dataset.
type EvictionEvent struct {
	EventID    string
	DatasetID  int64
	Name       string
	UploadedAt int64 // unix seconds
	EvictedFor int64 // id of the dataset whose creation triggered the eviction
}
