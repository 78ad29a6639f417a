// Package prices retrieves Finnish electricity spot prices from the
// porssisahko API and caches the raw payload on disk so the network is
// consulted at most once per publication window.
package prices
