// Package qbl converts between the qbl binary container and plain XML.
//
// A qbl file is three layers deep:
//
//	7E 00 <u32le len(crypt)+7> 7F 01 <u32le len(crypt)> crypt 7B   (envelope)
//	crypt = AES-128-CBC(PKCS7(lenxml)) with a fixed key and IV     (cipher)
//	lenxml = LEB128(len(xml)) xml                                  (length prefix)
//
// Each layer has an independent encode/decode pair. ToXML and FromXML compose
// them in order. All functions are pure: inputs are never modified and every
// result is a freshly allocated slice.
package qbl
