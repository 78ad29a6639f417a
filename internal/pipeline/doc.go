// Package pipeline coordinates one publication run: resolve the price sheet,
// regenerate the HTML page, and record the result in version control.
package pipeline
