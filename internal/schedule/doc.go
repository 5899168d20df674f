// Package schedule runs delayed callbacks whose lifetime is bound to an owner.
//
// Controllers schedule their post-success navigation here and call Stop when
// they are torn down, so a pending navigation never fires against a screen
// that is no longer mounted.
//
// # What this package must NOT do
//
//   - Run callbacks after Stop returns (except one already executing).
//   - Retry or reschedule callbacks on its own.
package schedule
