package entities

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrMalformedPayload is returned when an upstream body is not JSON
var ErrMalformedPayload = errors.New("malformed upstream payload")

// PayloadKind is the top-level JSON shape of an upstream body
type PayloadKind int

const (
	PayloadScalar PayloadKind = iota
	PayloadArray
	PayloadObject
)

// Payload is one upstream leg as received. The raw bytes are kept for passthrough.
type Payload struct {
	Kind  PayloadKind
	raw   json.RawMessage
	items []json.RawMessage
}

// ParsePayload classifies body; it fails only when body is not valid JSON
func ParsePayload(body []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return Payload{}, ErrMalformedPayload
	}
	raw := append(json.RawMessage(nil), trimmed...)

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Payload{}, ErrMalformedPayload
		}
		return Payload{Kind: PayloadArray, raw: raw, items: items}, nil
	case '{':
		return Payload{Kind: PayloadObject, raw: raw}, nil
	default:
		return Payload{Kind: PayloadScalar, raw: raw}, nil
	}
}

// Raw returns the body exactly as received
func (p Payload) Raw() json.RawMessage {
	if p.raw == nil {
		return json.RawMessage("null")
	}
	return p.raw
}

// Items returns the array elements, or nil when the payload is not an array
func (p Payload) Items() []json.RawMessage {
	return p.items
}

// First returns the canonical object: the first element of a wrapping array,
// or the whole payload when it is not an array
func (p Payload) First() json.RawMessage {
	if p.Kind == PayloadArray {
		if len(p.items) == 0 {
			return nil
		}
		return p.items[0]
	}
	return p.raw
}

// AssetList returns the asset collection: first.asset_list when it is an array,
// otherwise the bare array, otherwise nothing
func (p Payload) AssetList() []json.RawMessage {
	if first := p.First(); first != nil && bytes.HasPrefix(bytes.TrimSpace(first), []byte("{")) {
		var wrapped struct {
			AssetList json.RawMessage `json:"asset_list"`
		}
		if err := json.Unmarshal(first, &wrapped); err == nil {
			var list []json.RawMessage
			if len(wrapped.AssetList) > 0 && wrapped.AssetList[0] == '[' && json.Unmarshal(wrapped.AssetList, &list) == nil {
				return list
			}
		}
	}
	if p.Kind == PayloadArray {
		return p.items
	}
	return nil
}

// RawBundle holds the three legs fetched for one address
type RawBundle struct {
	Info   Payload
	Utxos  Payload
	Assets Payload
}

// RawResponse is the passthrough body for raw requests
type RawResponse struct {
	Info   json.RawMessage `json:"info"`
	Utxos  json.RawMessage `json:"utxos"`
	Assets json.RawMessage `json:"assets"`
}

// Passthrough returns the legs without any reshaping
func (b *RawBundle) Passthrough() RawResponse {
	return RawResponse{
		Info:   b.Info.Raw(),
		Utxos:  b.Utxos.Raw(),
		Assets: b.Assets.Raw(),
	}
}
