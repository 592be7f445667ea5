// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/semsearch/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalSequence serializes a link sequence number to bytes.
func MarshalSequence(seq uint64) []byte {
	buf := make([]byte, varint.Uint64.Size(seq))
	varint.Uint64.Marshal(seq, buf)
	return buf
}

// UnmarshalSequence deserializes a link sequence number from bytes.
func UnmarshalSequence(data []byte) (uint64, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: sequence: %w", ErrSerializationFailed, err)
	}
	return v, nil
}

// MarshalTerm serializes an OntologyTerm to bytes.
// Timestamps are stored with microsecond precision.
func MarshalTerm(term *core.OntologyTerm) []byte {
	buf := make([]byte, termSize(term))
	n := ord.String.Marshal(term.IRI, buf)
	n += ord.String.Marshal(term.Label, buf[n:])
	n += marshalStrings(term.Synonyms, buf[n:])
	n += ord.String.Marshal(term.Description, buf[n:])
	n += ord.String.Marshal(term.OntologyID, buf[n:])
	n += marshalStrings(term.Parents, buf[n:])
	n += varint.Int64.Marshal(unixMicro(term.InsertedAt), buf[n:])
	varint.Int64.Marshal(unixMicro(term.UpdatedAt), buf[n:])
	return buf
}

// UnmarshalTerm deserializes an OntologyTerm from bytes.
func UnmarshalTerm(data []byte) (*core.OntologyTerm, error) {
	var (
		term core.OntologyTerm
		n    int
		m    int
		err  error
	)
	if term.IRI, m, err = ord.String.Unmarshal(data); err != nil {
		return nil, termError("iri", err)
	}
	n += m
	if term.Label, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, termError("label", err)
	}
	n += m
	if term.Synonyms, m, err = unmarshalStrings(data[n:]); err != nil {
		return nil, termError("synonyms", err)
	}
	n += m
	if term.Description, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, termError("description", err)
	}
	n += m
	if term.OntologyID, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, termError("ontology", err)
	}
	n += m
	if term.Parents, m, err = unmarshalStrings(data[n:]); err != nil {
		return nil, termError("parents", err)
	}
	n += m
	inserted, m, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, termError("inserted", err)
	}
	n += m
	updated, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, termError("updated", err)
	}
	term.InsertedAt = fromUnixMicro(inserted)
	term.UpdatedAt = fromUnixMicro(updated)
	return &term, nil
}

func termSize(term *core.OntologyTerm) int {
	return ord.String.Size(term.IRI) +
		ord.String.Size(term.Label) +
		stringsSize(term.Synonyms) +
		ord.String.Size(term.Description) +
		ord.String.Size(term.OntologyID) +
		stringsSize(term.Parents) +
		varint.Int64.Size(unixMicro(term.InsertedAt)) +
		varint.Int64.Size(unixMicro(term.UpdatedAt))
}

func stringsSize(values []string) int {
	size := varint.Int.Size(len(values))
	for _, v := range values {
		size += ord.String.Size(v)
	}
	return size
}

func marshalStrings(values []string, bs []byte) int {
	n := varint.Int.Marshal(len(values), bs)
	for _, v := range values {
		n += ord.String.Marshal(v, bs[n:])
	}
	return n
}

func unmarshalStrings(bs []byte) ([]string, int, error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if count < 0 || count > len(bs)-n {
		return nil, n, ErrTruncatedData
	}
	if count == 0 {
		return nil, n, nil
	}
	values := make([]string, count)
	for i := range values {
		v, m, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, n, err
		}
		values[i] = v
		n += m
	}
	return values, n, nil
}

// Zero times are stored as 0 so they round-trip as the zero time.
func unixMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func fromUnixMicro(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMicro(v).UTC()
}

func termError(field string, err error) error {
	return fmt.Errorf("%w: term %s: %w", ErrSerializationFailed, field, err)
}
