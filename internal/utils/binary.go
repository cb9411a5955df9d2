package utils

import "bytes"

// IsBinary reports whether data contains a NUL byte. Sources in legacy encodings
// declared through a coding cookie are not binary.
func IsBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}
