// Package staging reclaims scratch space left behind by interrupted runs.
//
// A render normally removes its workspace and partial output on return, but
// a killed process cannot. CleanStale sweeps workspace directories in the
// temp directory, and CleanPartials sweeps hidden partial outputs in the
// output directory, once they are older than the configured age.
package staging
