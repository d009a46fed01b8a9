// Package sanitizer normalizes free-text input before validation and
// persistence: names, locations, and labels arrive from web forms with
// inconsistent whitespace and casing.
package sanitizer
