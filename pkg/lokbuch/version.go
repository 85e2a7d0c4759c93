// Package lokbuch holds module-wide constants for the lokbuch catalog.
package lokbuch

// Version is the current release of the lokbuch tool.
const Version = "0.3.0"
