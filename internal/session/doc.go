// Package session models one loaded qualifying session and provides the
// team and driver grouping lookups the collector needs: whether a driver took
// part, which team they drove for, who else drove for that team, the driver's
// abbreviation, and their fastest segment time.
//
// Name lookups ignore case and accents, so "Sergio Perez" finds
// "Sergio Pérez".
package session
