// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// DecodeDocument decodes data as a JSON object.
func DecodeDocument(name string, data []byte) (Document, error) {
	var doc Document
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return nil, ErrMalformedContent.New("%s: %v", name, err)
	}
	if doc == nil {
		return nil, ErrMalformedContent.New("%s: not a JSON object", name)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, ErrMalformedContent.New("%s: unexpected data after the JSON object", name)
	}
	return doc, nil
}

// EncodeDocument encodes doc as indented JSON.
func EncodeDocument(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, ErrMalformedContent.Wrap(err)
	}
	return data, nil
}

// DecodeMapping decodes data as a JSON array of token IDs.
func DecodeMapping(data []byte) (Mapping, error) {
	var mapping Mapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, ErrMalformedContent.New("%s: %v", MappingPath, err)
	}
	if mapping == nil {
		return nil, ErrMalformedContent.New("%s: not a JSON array", MappingPath)
	}
	return mapping, nil
}

// EncodeMapping encodes the mapping as a JSON array.
func EncodeMapping(mapping Mapping) ([]byte, error) {
	if mapping == nil {
		mapping = Mapping{}
	}
	data, err := json.Marshal(mapping)
	return data, ErrMalformedContent.Wrap(err)
}

// DecodeABI checks that data is a JSON array and returns it untouched.
func DecodeABI(data []byte) (json.RawMessage, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, ErrMalformedContent.New("%s: %v", ABIPath, err)
	}
	return json.RawMessage(data), nil
}
