package entities

// LoadEnvFile exports loadEnvFile for testing.
var LoadEnvFile = loadEnvFile //nolint:gochecknoglobals // test export
