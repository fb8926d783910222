// Package codec maps between byte sequences and character codes for the
// external formats a stream may carry.
//
// A Codec is driven by the stream's flag word. Decoding is incremental: when
// a buffer ends inside a character, Decode returns ErrNeedMore and the caller
// refills and retries. Some formats are stateful. The byte order mark
// formats pin their endianness on first use, and the multistate table format
// tracks which of its tables is active. That state lives in the Codec.
package codec
