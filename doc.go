// Package mailcore is a two-way MIME engine for mail clients that wrap
// message content in OpenPGP.
//
// Reading goes through the decode package. A raw message is recognized as
// MIME or as inline text. MIME input is parsed into a typed part tree (see
// package part), a body is selected from the tree in the caller's preferred
// encoding, and attachments are handed back one by one with their filenames
// made safe for HTML.
//
// Writing goes through the encode package. A compose request names one of
// four layouts: a plain mixed message with attachments, a PGP/MIME
// multipart/encrypted message, a single armored text part, or a mixed
// message whose attachments carry ids. Every layout is checked against a
// byte quota before anything is serialized.
//
// Both directions sit on top of the message package, which knows how to
// parse, build and write MIME trees while keeping the bytes of a parsed
// message intact on output. Headers live in message/header, and
// transfer encodings in message/transfer.
package mailcore
