package valueobject

import (
	"crypto/md5"
	"encoding/hex"
	"path"
	"strconv"
)

// StorageAddress is a sharded directory, relative to the storage base,
// cut from the leading characters of an MD5 hex digest.
type StorageAddress struct {
	Dir    string
	Digest string
}

func (a StorageAddress) Path(filename string) string {
	return path.Join(a.Dir, filename)
}

func (a StorageAddress) String() string {
	return "/" + a.Dir + "/"
}

// DeriveContentAddress shards on the content digest: h0h1/h2h3/h4h5.
// Identical bytes always land in the same directory.
func DeriveContentAddress(data []byte) StorageAddress {
	digest := md5Hex(data)
	return StorageAddress{
		Dir:    path.Join(digest[0:2], digest[2:4], digest[4:6]),
		Digest: digest,
	}
}

// DeriveKeyAddress shards on the digest of the logical preview key:
// h0/h1/{entityID}. The address is recoverable from identity alone.
func DeriveKeyAddress(entityID string, slot *int) StorageAddress {
	digest := md5Hex([]byte(KeyName(entityID, slot)))
	return StorageAddress{
		Dir:    path.Join(digest[0:1], digest[1:2], entityID),
		Digest: digest,
	}
}

// KeyName builds "{entityID}[_{slot}]_preview".
func KeyName(entityID string, slot *int) string {
	name := entityID
	if slot != nil {
		name += "_" + strconv.Itoa(*slot)
	}
	return name + "_preview"
}

func md5Hex(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
