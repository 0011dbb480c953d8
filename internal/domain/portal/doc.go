// Package portal contains the supplier portal payload, the per-field validation
// result returned to callers and the record written to the results store.
package portal
