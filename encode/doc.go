// Package encode builds outgoing MIME messages from a Request.
//
// A Request names one of four modes:
//
//   - ModePlain builds a multipart/mixed message from a text body and
//     attachments, or returns the body as is when there are no attachments.
//   - ModePGPMIME wraps an ASCII-armored OpenPGP message in a
//     multipart/encrypted PGP/MIME structure.
//   - ModeArmoredText sends the armored message as a plain text part.
//   - ModeAnnotated works like ModePlain, but the message carries addressing
//     fields and each attachment carries an id it can be referenced by.
//
// Every mode counts the bytes going into the message against the Request's
// quota. When the quota is exceeded nothing is written and a *QuotaError is
// returned.
package encode
