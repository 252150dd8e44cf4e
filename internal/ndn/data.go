package ndn

// Data is a decoded NDN Data packet. SignedPortion holds the wire bytes the
// signature covers: the Name, MetaInfo, Content, and SignatureInfo elements.
type Data struct {
	Name           Name
	Content        []byte
	SignatureInfo  SignatureInfo
	SignatureValue []byte
	SignedPortion  []byte
}

// DecodeData decodes a Data packet from its TLV wire encoding. The MetaInfo
// element, if present, is covered by the signed portion but otherwise ignored.
func DecodeData(wire []byte) (Data, error) {
	outer := newTLVReader(wire)
	typ, value, err := outer.readElement()
	if err != nil {
		return Data{}, err
	}
	if typ != typeData {
		return Data{}, ErrMalformed
	}

	var data Data
	r := newTLVReader(value)

	typ, v, err := r.readElement()
	if err != nil {
		return Data{}, err
	}
	if typ != typeName {
		return Data{}, ErrMalformed
	}
	data.Name, err = decodeNameValue(v)
	if err != nil {
		return Data{}, err
	}

	sawSignatureInfo := false
	signedEnd := 0
	for !r.done() {
		typ, v, err := r.readElement()
		if err != nil {
			return Data{}, err
		}
		switch typ {
		case typeMetaInfo:
			// Freshness and content type have no meaning for stored packets.
		case typeContent:
			data.Content = make([]byte, len(v))
			copy(data.Content, v)
		case typeSignatureInfo:
			data.SignatureInfo, err = decodeSignatureInfoValue(v)
			if err != nil {
				return Data{}, err
			}
			sawSignatureInfo = true
			signedEnd = r.pos
		case typeSignatureValue:
			if !sawSignatureInfo {
				return Data{}, ErrMalformed
			}
			data.SignatureValue = make([]byte, len(v))
			copy(data.SignatureValue, v)
		default:
			return Data{}, ErrMalformed
		}
	}
	if !sawSignatureInfo || data.SignatureValue == nil {
		return Data{}, ErrMalformed
	}

	data.SignedPortion = make([]byte, signedEnd)
	copy(data.SignedPortion, value[:signedEnd])
	return data, nil
}

// Encode returns the TLV wire encoding of the packet. The signed portion is
// rebuilt from the current fields; SignatureValue must already hold a
// signature over that portion.
func (d Data) Encode() []byte {
	inner := d.signedPortion()
	inner = appendTLV(inner, typeSignatureValue, d.SignatureValue)
	return appendTLV(nil, typeData, inner)
}

// signedPortion encodes the elements covered by the signature.
func (d Data) signedPortion() []byte {
	var b []byte
	b = append(b, d.Name.Encode()...)
	if d.Content != nil {
		b = appendTLV(b, typeContent, d.Content)
	}
	b = append(b, d.SignatureInfo.Encode()...)
	return b
}
