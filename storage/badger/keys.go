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


package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/semsearch/core"
)

const (
	termRecordPrefix = "ontterm"
	termChildPrefix  = "ontchild"
	termTokenPrefix  = "onttok"
	termLinkSeq      = "ontchildseq"
)

func makeTermKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", termRecordPrefix, id))
}

func termKeyPrefix() []byte {
	return []byte(termRecordPrefix + ":")
}

// makeChildKey indexes a parent/child link. Both IDs are big-endian so all
// children of a parent share a prefix.
func makeChildKey(parentID, childID core.ID) []byte {
	prefix := termChildPrefix + ":"
	buf := make([]byte, len(prefix)+16) // 8 bytes for parentID + 8 bytes for childID
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(parentID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(childID))
	return buf
}

func makePartialChildKey(parentID core.ID) []byte {
	prefix := termChildPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(parentID))
	return buf
}

// makeTokenKey indexes a term under one of its search tokens. The zero byte
// terminates the token so "len" never matches the prefix of "length".
func makeTokenKey(token string, termID core.ID) []byte {
	prefix := makePartialTokenKey(token)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(termID))
	return buf
}

func makePartialTokenKey(token string) []byte {
	prefix := termTokenPrefix + ":"
	buf := make([]byte, len(prefix)+len(token)+1)
	offset := copy(buf, prefix)
	copy(buf[offset:], token)
	return buf
}
