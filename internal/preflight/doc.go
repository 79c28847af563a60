// Package preflight checks the environment before a render: directory
// access for the libraries, output, scratch space, and state files, plus the
// external binaries via the deps package. `clipreel status` prints the results.
package preflight
