// Package infra holds the technical adapters: row sources, cache backends,
// metrics sinks, the MQTT publisher and the Sentry monitor. Adapters depend on
// the interfaces defined in core and register themselves with its factories.
package infra
