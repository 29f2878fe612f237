// Package driving defines the interfaces through which the outside world
// drives the core (primary/inbound ports). The CLI consumes these; an
// HTTP surface would consume the same interfaces.
package driving
