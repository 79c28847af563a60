// Package faults defines the error taxonomy shared by the clipreel packages.
//
// Every failure that ends a run carries exactly one sentinel marker so the CLI
// and the logs can classify it with errors.Is. Use Wrap to attach operation
// context without losing the marker or the underlying cause.
package faults
