// Package record models Bloom-filter encoded records and the parties that own them.
//
// A Record carries an opaque identifier, the block it was assigned to by its
// party, and a fixed-length bit vector. The linkage core only reads encodings;
// replacing them (enhanced privacy re-encoding) is reserved for the owning
// Party and always starts from the record's original encoding.
//
//	p := record.NewMemoryParty("hospital-a")
//	r, _ := record.New("a-17", "smith", 1024, []uint{3, 91, 402})
//	_ = p.Add(r)
package record
