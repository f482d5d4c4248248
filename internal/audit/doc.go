// Package audit carries the asynchronous security-audit pipeline: the Entry
// record, the Sink interface, and the buffered Dispatcher that decouples
// primary operations from sink latency. Emission is best-effort; under
// backpressure entries are dropped and counted, never blocked on.
package audit
