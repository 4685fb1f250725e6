// Package events defines the events emitted on the event bus by the report
// service.
//
// Available event types:
//   - RunEvent: one timeline or clinical request finished
//   - DailyTotalsEvent: per-day grand totals of a freshly computed timeline
package events
