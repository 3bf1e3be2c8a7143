// Package header provides the tooling for dealing with email message headers.
// A Header keeps its fields in order and remembers the bytes each parsed field
// arrived with, so a header that is read and written back without changes
// comes out the same. Getters and setters cover the fields the MIME layer
// cares about: the parameterized Content-Type and Content-Disposition, the
// transfer encoding, address lists, dates and encoded-word subjects.
//
// Folding long lines on output is not done. Fields that are set are written
// on a single line.
package header
