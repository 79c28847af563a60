// Command clipreel builds compilation videos from a clip library.
//
// Running `clipreel` with no subcommand is the same as `clipreel generate`:
// pick clips by rotation (or take them from --clips), pick a background
// track, render the compilation, and record which clips were used. The
// `usage`, `history`, `status`, and `config` subcommands inspect and manage
// the state around that.
package main
