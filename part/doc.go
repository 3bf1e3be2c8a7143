// Package part provides the typed view of a MIME message that the decoder and
// encoder work with. Where the message package deals in headers, boundaries
// and bytes, a Part only knows whether it is text, HTML, an attachment or a
// container of other parts.
//
// FromMessage maps a parsed message tree onto a Part tree. Part.Message goes
// the other way, producing a tree that can be written out as MIME. The default
// Parser combines message.Parse with FromMessage.
package part
