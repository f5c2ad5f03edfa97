package config

const (
	// DefaultVaultLabel seeds the derived custody address when the genesis file names none
	DefaultVaultLabel = "snapledger/reward-vault"

	DefaultStoreType      = "leveldb"
	DefaultStoreDirectory = "./data/journal"
	DefaultBufferSize     = 256
)
