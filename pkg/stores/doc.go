// Package stores provides the persistence layer for OpenMFG. It
// includes SQLite-based storage with WAL mode, embedded schema
// migrations, and CRUD operations for jobs, actions, resource
// allocations, and the event log.
package stores
