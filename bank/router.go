// File: bank/router.go
package bank

import (
	"encoding/binary"
	"hash/fnv"
)

// ShardForCustomer maps a customer number to a shard index. Every message
// type that touches a customer number must route through this one function,
// keyed on the customer number itself: hashing on anything else (message
// identity, type) would let requests for the same customer land on different
// shards and race a duplicate account into existence.
func ShardForCustomer(customerNumber int, shardCount int) int {
	if shardCount <= 1 {
		return 0
	}
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], uint64(int64(customerNumber)))
	h := fnv.New32a()
	h.Write(key[:])
	return int(h.Sum32() % uint32(shardCount))
}
