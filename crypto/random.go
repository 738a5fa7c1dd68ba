package crypto

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/cometbft/osrand/crypto/osrand"
)

// This only uses the kernel's randomness
func randBytes(numBytes int) []byte {
	b := make([]byte, numBytes)
	if err := osrand.Fill(b); err != nil {
		panic(err)
	}
	return b
}

// CRandBytes returns requested number of bytes from the kernel's randomness.
// It panics if the kernel cannot provide them.
func CRandBytes(numBytes int) []byte {
	return randBytes(numBytes)
}

// CRandHex returns a hex encoded string that's floor(numDigits/2) * 2 long.
//
// Note: CRandHex(24) gives 96 bits of randomness that
// are usually strong enough for most purposes.
func CRandHex(numDigits int) string {
	return hex.EncodeToString(CRandBytes(numDigits / 2))
}

// CRandSeed returns a seed from the kernel's randomness.
func CRandSeed() int64 {
	return int64(binary.BigEndian.Uint64(randBytes(8)))
}

// CReader returns an io.Reader over the default kernel random source. Reads
// either fill the buffer completely or fail.
func CReader() io.Reader {
	return osrand.Default()
}
