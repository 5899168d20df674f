// Package audit carries screen outcome events from the controllers to a
// caller-chosen Sink.
//
// A [Dispatcher] owns one delivery goroutine and a bounded queue. When the
// queue is full it either drops the event or makes the emitting controller
// wait, per [Config.DropIfFull]. Sinks are plain consumers: a channel, JSON
// lines on an io.Writer, a zerolog logger, or several of them at once.
//
// Which events exist is decided by the flow code, not here.
package audit
