// Package decode turns a raw message into the body a reader should see and the
// attachments that came with it.
//
// A message that starts with a MIME header is parsed into a part tree. The
// body is chosen from the tree according to the requested Encoding, and every
// attachment, however deeply nested, is handed to the caller. Anything else
// is treated as a legacy inline body and rendered directly.
//
// Results are delivered through Callbacks. Decode does not return until every
// callback has run.
package decode
