package sample

import (
	"io"
	"sync"

	"golang.org/x/crypto/sha3"
)

const seedDomain = "TEXTBOOK-RSA-SEED"

// NewSeededReader returns a deterministic stream of bytes derived from seed.
//
// The stream is the SHAKE256 output of a domain tag followed by the seed, so
// two readers built from the same seed yield the same bytes. It is meant for
// reproducible tests and fixtures; keys derived from a known seed are not secret.
func NewSeededReader(seed []byte) io.Reader {
	h := sha3.NewShake256()
	_, _ = h.Write([]byte(seedDomain))
	_, _ = h.Write(seed)
	return h
}

// LockedReader serializes reads from an underlying reader so that it can be
// shared between goroutines.
type LockedReader struct {
	lock sync.Mutex
	r    io.Reader
}

// NewLockedReader wraps rand; a nil rand falls back to crypto/rand.
func NewLockedReader(rand io.Reader) *LockedReader {
	return &LockedReader{r: reader(rand)}
}

func (lr *LockedReader) Read(p []byte) (int, error) {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	return lr.r.Read(p)
}
