// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "github.com/syndtr/goleveldb/leveldb/util"

// Bucket provides a logical key space on a kv store by prefixing all keys.
type Bucket string

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src GetPutter) GetPutter {
	return &bucketStore{src: src, prefix: []byte(b)}
}

type bucketStore struct {
	src    GetPutter
	prefix []byte
}

func (s *bucketStore) key(key []byte) []byte {
	return append(append([]byte(nil), s.prefix...), key...)
}

func (s *bucketStore) Get(key []byte) ([]byte, error) {
	return s.src.Get(s.key(key))
}

func (s *bucketStore) Has(key []byte) (bool, error) {
	return s.src.Has(s.key(key))
}

func (s *bucketStore) IsNotFound(err error) bool {
	return s.src.IsNotFound(err)
}

func (s *bucketStore) Put(key, value []byte) error {
	return s.src.Put(s.key(key), value)
}

func (s *bucketStore) Delete(key []byte) error {
	return s.src.Delete(s.key(key))
}

func (s *bucketStore) NewIterator(r Range) Iterator {
	from := append(append([]byte(nil), s.prefix...), r.From...)
	var to []byte
	if len(r.To) == 0 {
		to = util.BytesPrefix(s.prefix).Limit
	} else {
		to = append(append([]byte(nil), s.prefix...), r.To...)
	}
	return &bucketIterator{src: s.src.NewIterator(Range{From: from, To: to}), prefixLen: len(s.prefix)}
}

type bucketIterator struct {
	src       Iterator
	prefixLen int
}

func (i *bucketIterator) Next() bool { return i.src.Next() }

func (i *bucketIterator) Release() { i.src.Release() }

func (i *bucketIterator) Error() error { return i.src.Error() }

// Key strips the bucket prefix.
func (i *bucketIterator) Key() []byte { return i.src.Key()[i.prefixLen:] }

func (i *bucketIterator) Value() []byte { return i.src.Value() }
