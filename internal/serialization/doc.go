// Package serialization saves and loads named scalars in the SafeTensors
// format.
//
// Every entry is stored as a zero-dimensional F64 tensor:
//
//	[8 bytes: header size N (uint64 LE)]
//	[N bytes: JSON header, space padded to a multiple of 8]
//	[data: 8 bytes per entry (float64 LE), in header order]
//
// Entries are written in alphabetical order. The header's __metadata__
// object carries free-form string metadata plus a SHA-256 checksum of the
// data section, which Read verifies when present.
//
// Example usage:
//
//	state := nn.StateDict(model)
//	if err := serialization.WriteFile("model.safetensors", state, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	state, meta, err := serialization.ReadFile("model.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = nn.LoadStateDict(model, state)
package serialization
