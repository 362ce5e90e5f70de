package settings

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var (
	dictEncMode cbor.EncMode
	dictDecMode cbor.DecMode
)

func init() {
	var err error

	// Canonical ordering keeps the encoded dictionary byte-stable.
	dictEncMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create dictionary CBOR encoder mode: %v", err))
	}

	dictDecMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create dictionary CBOR decoder mode: %v", err))
	}
}

// EncodeCBOR encodes the dictionary as a CBOR map of text keys to integers.
func EncodeCBOR(dict Dictionary) ([]byte, error) {
	return dictEncMode.Marshal(dict)
}

// DecodeCBOR decodes a dictionary written by EncodeCBOR.
func DecodeCBOR(data []byte) (Dictionary, error) {
	var dict Dictionary
	if err := dictDecMode.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("decoding dictionary: %w", err)
	}
	return dict, nil
}

// EncodeJSON encodes the message as a flat JSON object with sorted keys.
func EncodeJSON(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeJSON decodes submitted control values. Values may be JSON strings
// or numbers; the renderer sends slider positions as numbers.
func DecodeJSON(data []byte) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding submitted values: %w", err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
			continue
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			return nil, fmt.Errorf("decoding submitted value for %q: must be a string or a number", k)
		}
		out[k] = n.String()
	}
	return out, nil
}
