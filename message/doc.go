// Package message provides objects for flexibly parsing email messages (that
// survive even when the input is not strictly correct) and for generating new
// messages that are strictly correct.
//
// Any message can be dealt with as an Opaque message: a header and a body
// held in memory. A Multipart message is a header with a list of parts, each
// of which is itself an Opaque or a Multipart. Parse() returns one or the
// other:
//
//	msg, err := message.Parse(raw, message.DecodeTransferEncoding())
//	if err != nil {
//	  panic(err)
//	}
//
//	if mm, isMultipart := msg.(*message.Multipart); isMultipart {
//	  for _, p := range mm.GetParts() {
//	    // ...
//	  }
//	}
//
// New messages are generated with a Buffer, either by writing a body to it
// and calling Opaque() or by adding parts to it and calling Multipart().
//
// Without DecodeTransferEncoding(), parsing and writing a message out again
// reproduces the input byte-for-byte.
package message
