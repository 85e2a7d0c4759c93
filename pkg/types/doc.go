// Package types defines the catalog entities (Lok, PreviewLok), their
// canonical ordering, the Store interface consumed by the resource manager,
// configuration, and the standard errors shared across lokbuch.
package types
