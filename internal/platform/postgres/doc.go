// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces (repositories) defined in the internal/store package.
// It handles the details of query construction, execution, and data mapping
// between domain entities and database records. All task queries are scoped
// to the owning user at this layer.
package postgres
