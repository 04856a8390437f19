package qbl

// ToXML decodes a complete qbl file into its XML payload.
func ToXML(qbl []byte) ([]byte, error) {
	crypt, err := DecodeEnvelope(qbl)
	if err != nil {
		return nil, err
	}
	lenxml, err := Decrypt(crypt)
	if err != nil {
		return nil, err
	}
	return DecodeLengthPrefix(lenxml)
}

// FromXML encodes an XML payload into a complete qbl file.
func FromXML(xml []byte) ([]byte, error) {
	return EncodeEnvelope(Encrypt(EncodeLengthPrefix(xml)))
}

// Convert converts in, whose format is from, into the other format.
func Convert(from FileType, in []byte) ([]byte, error) {
	switch from {
	case FileTypeQbl:
		return ToXML(in)
	case FileTypeXML:
		return FromXML(in)
	default:
		return nil, NewError(KindUnsupportedExtension, "QBL-EXT-002", "unknown file type")
	}
}
