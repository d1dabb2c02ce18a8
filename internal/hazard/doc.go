// Package hazard implements the side channel through which hazardous cargo
// containers report overfill attempts.
//
// Gas containers and hazardous liquid containers raise an Event before
// returning their OverfillError. The core never decides how events are
// displayed or kept: it only calls a Notifier. This package ships the
// sinks the CLI wires together:
//   - LogNotifier writes each event to a zap logger at warn level
//   - Recorder keeps a bounded in-memory history for the "hazards" command
//   - Multi fans an event out to several sinks
//   - Func adapts a plain function
//
// Notification is fire-and-forget. Notify recovers from a panicking sink so
// that the caller still reports its OverfillError.
package hazard
