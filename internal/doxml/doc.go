// Package doxml parses the permissive XML dialect emitted by Doxygen into an
// immutable node tree. It is schema-unaware: any tag or attribute name is
// accepted syntactically.
package doxml
