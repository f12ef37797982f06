package ws

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects the wire format of a viewer's frames.
type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingMsgpack Encoding = "msgpack"
)

// ParseEncoding falls back to JSON for anything it does not recognise.
func ParseEncoding(s string) Encoding {
	if strings.EqualFold(strings.TrimSpace(s), string(EncodingMsgpack)) {
		return EncodingMsgpack
	}
	return EncodingJSON
}

// outgoing encodes a message at most once per format, however many viewers
// receive it.
type outgoing struct {
	v      interface{}
	text   []byte
	packed []byte
}

func newOutgoing(v interface{}) *outgoing {
	return &outgoing{v: v}
}

func (o *outgoing) encode(enc Encoding) ([]byte, error) {
	if enc == EncodingMsgpack {
		if o.packed == nil {
			b, err := marshalMsgpack(o.v)
			if err != nil {
				return nil, err
			}
			o.packed = b
		}
		return o.packed, nil
	}
	if o.text == nil {
		b, err := json.Marshal(o.v)
		if err != nil {
			return nil, err
		}
		o.text = b
	}
	return o.text, nil
}

// marshalMsgpack uses the json tags so both formats share field names.
func marshalMsgpack(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
