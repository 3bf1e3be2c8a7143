// Package htmlconv holds the HTML helpers the decoder uses to render a body:
// a sanitizer for HTML parts, an auto-linker that turns plain text into HTML,
// and a converter from HTML back to plain text.
package htmlconv
