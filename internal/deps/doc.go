// Package deps reports whether the external binaries clipreel shells out to
// are installed.
package deps
