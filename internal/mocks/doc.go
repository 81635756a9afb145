// Package mocks provides shared mock implementations of service and store
// interfaces for use in tests across packages. Each mock exposes function
// fields so test cases can override individual behaviors, plus default
// value fields for the common case.
package mocks
