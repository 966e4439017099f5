// Package sleigh holds the types shared by the typed record store: the
// coded Error, the ID handed out for auto-assigned keys and the Record
// contract that each persisted type implements.
//
// Storage engines live in the bolt and inmem packages, the store itself in
// kv, and key encodings in keyenc.
package sleigh
