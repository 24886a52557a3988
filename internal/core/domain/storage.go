package domain

// A StorageStatus describes the document store for the diagnostic endpoint.
type StorageStatus struct {
	Driver       string
	DatabaseName string
	Collections  []string
}
