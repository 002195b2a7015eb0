// Package normalisers holds the format-specific converters that turn raw
// Drive content into positioned passages. Each subpackage handles one
// format (gdoc, sheet, pdf); text carries the whitespace and word helpers
// they share.
//
// Normalisers never talk to Drive. The gdrive readers fetch the content
// and hand it over, so every normaliser can be tested with plain values.
package normalisers
