// Package service provides application-level services for managing users
// and tasks. Services own the business rules (ownership checks, partial
// updates, aggregate statistics) and orchestrate the store layer; they do
// not know about HTTP.
package service
