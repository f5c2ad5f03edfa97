package db

// DatabaseProvider abstracts the key-value backend behind the settlement journal
type DatabaseProvider interface {
	// Get retrieves a value by key, nil when the key does not exist
	Get(key []byte) ([]byte, error)

	// Put stores a key-value pair
	Put(key, value []byte) error

	// Delete removes a key-value pair
	Delete(key []byte) error

	// Has checks if a key exists
	Has(key []byte) (bool, error)

	// IteratePrefix visits keys with the given prefix in key order.
	// The callback returns false to stop iteration.
	IteratePrefix(prefix []byte, callback func(key, value []byte) bool) error

	// Batch returns a new batch for atomic operations
	Batch() DatabaseBatch

	// Close closes the database connection
	Close() error
}

// DatabaseBatch collects writes that are committed together
type DatabaseBatch interface {
	Put(key, value []byte)
	Delete(key []byte)
	// Write commits all operations in the batch
	Write() error
	// Reset clears the batch
	Reset()
	// Close releases batch resources
	Close() error
}
