// Package toolchain resolves prerequisite build tools from the process
// search path.
//
// Ownership boundary:
// - PATH lookup of tool executables and their containing directories
//
// - interpreter selection via the PY environment variable
package toolchain
