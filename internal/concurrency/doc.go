// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker-side primitives for the load-aware pool: an unbounded FIFO inbox,
// a padded completion counter and the OS-thread-locked worker loop with
// optional CPU pinning.
//
// All implementations are cross-platform; pinning support comes from the
// affinity package.
package concurrency
