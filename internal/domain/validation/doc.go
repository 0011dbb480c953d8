// Package validation defines the rule configuration, rule results and reports
// produced when portal fields and supplier documents are checked.
package validation
