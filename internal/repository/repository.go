// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, memory) and are selected by the backend package.
package repository

// Supported STORE_BACKEND values.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)
