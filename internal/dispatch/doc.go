// Package dispatch builds the child-scoped environment for the Pants
// orchestrator and runs the single codegen-export invocation.
//
// Ownership boundary:
// - environment override construction (tool directories, version pin,
//   backend package list)
//
// - orchestrator presence verification
//
// - child process execution and exit-code propagation
package dispatch
