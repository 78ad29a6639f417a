// Package report renders the spot price sheet into the published HTML page:
// an hourly table from the current hour forward with a character bar graph
// scaled against the most expensive visible hour.
package report
