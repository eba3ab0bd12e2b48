package filemanager

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
)

const hashPrefix = "sha256:"

// HashBytes returns the prefixed sha256 digest of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hashPrefix + hex.EncodeToString(sum[:])
}

// HashFile streams the file at path through sha256.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hashPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// fileState is how a file on disk compares with rendered content.
type fileState int

const (
	stateMissing fileState = iota
	stateMatches
	stateDiffers
)

// compareFile reports whether path holds exactly want.
func compareFile(path string, want []byte) (fileState, error) {
	got, err := HashFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return stateMissing, nil
	}
	if err != nil {
		return stateMissing, err
	}
	if got != HashBytes(want) {
		return stateDiffers, nil
	}
	return stateMatches, nil
}
