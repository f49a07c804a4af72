package params

const (
	// MinKeyBits is the smallest prime size accepted by the key pair builder.
	// Below it prime generation and exponent search become unreliable.
	MinKeyBits = 8

	// MinPrimeBits is the smallest bit length a prime can be sampled at.
	MinPrimeBits = 2

	// DefaultRounds is the default Miller-Rabin round count. The probability
	// that a composite passes is at most 4⁻⁶⁴ = 2⁻¹²⁸.
	DefaultRounds = 64

	// CiphertextRadix is the radix ciphertexts are rendered in.
	CiphertextRadix = 16

	// DefaultKeyBits is the prime size used when a configuration omits it.
	DefaultKeyBits = 1024
)
