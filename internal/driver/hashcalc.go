package driver

import (
	"crypto/sha256"
	"strconv"

	"crane/internal/version"
)

// Digest is a SHA-256 value.
type Digest [sha256.Size]byte

// combineDigest: H(content || part1 || part2 ...). Порядок частей значим.
func combineDigest(content [sha256.Size]byte, parts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// cacheKey связывает хеш содержимого файла со схемой кэша и версией тулчейна:
// новая сборка не читает деревья, построенные старой.
func cacheKey(fileHash [sha256.Size]byte) Digest {
	return combineDigest(fileHash,
		[]byte(strconv.Itoa(int(diskCacheSchemaVersion))),
		[]byte(version.Version),
	)
}
