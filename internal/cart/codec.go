package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SchemaVersion is written into every persisted envelope.
const SchemaVersion = 1

type envelope struct {
	Version int        `json:"version"`
	Items   []LineItem `json:"items"`
}

// Encode serialises the line items in insertion order.
func Encode(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(envelope{Version: SchemaVersion, Items: items})
}

// Decode parses a persisted slot. Empty input is an empty cart. The bare array written by the
// storefront before the envelope existed is accepted as version 0.
func Decode(raw []byte) ([]LineItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	var items []LineItem
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, corrupt("legacy list", err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, corrupt("envelope", err)
		}
		if env.Version != SchemaVersion {
			return nil, corrupt(fmt.Sprintf("unsupported version %d", env.Version), nil)
		}
		items = env.Items
	default:
		return nil, corrupt("not json", nil)
	}
	for i := range items {
		if err := items[i].validate(); err != nil {
			return nil, corrupt(fmt.Sprintf("item %d", i), err)
		}
	}
	return items, nil
}
