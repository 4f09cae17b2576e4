// Package reader holds the Reader strategies that turn raw input files into
// Documents. A bad file never fails a batch: the reader logs a WARNING and
// moves on.
package reader

import (
	"encoding/base64"
	"time"
)

// decodeContent returns the base64-decoded content when the input is valid
// base64, otherwise the input unchanged. Upload clients send either.
func decodeContent(content []byte) []byte {
	decoded, err := base64.StdEncoding.DecodeString(string(content))
	if err != nil {
		return content
	}
	return decoded
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
