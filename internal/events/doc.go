// Package events carries task lifecycle notifications to realtime subscribers.
//
// Services build an Event and hand it to a Publisher without knowing how it is
// delivered. RedisPublisher broadcasts on a Redis pub/sub channel, which is how
// connected clients learn about new tasks; InMemoryEventEmitter dispatches to
// in-process handlers and is used when no Redis address is configured.
//
// Delivery is best effort. Callers log publish failures and carry on.
package events
