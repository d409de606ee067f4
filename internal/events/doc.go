// Package events provides types and interfaces for an event-driven
// architecture.
//
// Session and account lifecycle transitions are published as SessionEvents.
// Services emit events without knowing which handlers will process them,
// which keeps the session engine decoupled from logging, analytics, and any
// future consumers.
//
// The primary components are:
// - SessionEvent: a lifecycle transition with a JSON payload
// - EventHandler: interface for components that can handle events
// - EventEmitter: interface for components that can emit events
package events
