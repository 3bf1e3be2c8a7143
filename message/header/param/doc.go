// Package param handles parameterized header values such as those found in
// the Content-Type and Content-Disposition headers. It also has a few helpers
// for breaking down media types.
package param
