package signature

import (
	"crypto"
	_ "crypto/md5"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	"interkassa-merchant/internal/domain"
	"interkassa-merchant/internal/domain/ports/adapter"
)

const (
	Prefix           = "ik_"
	SignField        = "ik_sign"
	DefaultAlgorithm = "md5"
)

var _ adapter.PaymentSigner = (*Signer)(nil)

var algorithms = map[string]crypto.Hash{
	"md5":    crypto.MD5,
	"sha1":   crypto.SHA1,
	"sha256": crypto.SHA256,
	"sha512": crypto.SHA512,
}

// Supported reports whether algo names a known digest.
func Supported(algo string) bool {
	_, ok := algorithms[strings.ToLower(algo)]
	return ok
}

// Pair is one outbound parameter. A slice of pairs may repeat a key, a map cannot.
type Pair struct {
	Key   string
	Value string
}

// SignPairs computes base64(digest(v1:v2:...:secret)) over the ik_ parameters
// ordered by key, then by value for equal keys. ik_sign never takes part.
func SignPairs(pairs []Pair, secret, algo string) (string, error) {
	h, ok := algorithms[strings.ToLower(algo)]
	if !ok {
		return "", fmt.Errorf("%w: unsupported sign algorithm %q", domain.ErrConfiguration, algo)
	}

	signed := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if strings.HasPrefix(p.Key, Prefix) && p.Key != SignField {
			signed = append(signed, p)
		}
	}
	sort.SliceStable(signed, func(i, j int) bool {
		if signed[i].Key != signed[j].Key {
			return signed[i].Key < signed[j].Key
		}
		return signed[i].Value < signed[j].Value
	})

	values := make([]string, 0, len(signed)+1)
	for _, p := range signed {
		values = append(values, p.Value)
	}
	values = append(values, secret)

	d := h.New()
	d.Write([]byte(strings.Join(values, ":")))
	return base64.StdEncoding.EncodeToString(d.Sum(nil)), nil
}

// SignMap is SignPairs over a map.
func SignMap(params map[string]string, secret, algo string) (string, error) {
	pairs := make([]Pair, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	return SignPairs(pairs, secret, algo)
}

// Signer holds both checkout secrets and picks one by environment:
// the test key in dev, the live key otherwise.
type Signer struct {
	secretKey string
	testKey   string
	algo      string
	dev       bool
}

func NewSigner(secretKey, testKey, algo string, dev bool) (*Signer, error) {
	if algo == "" {
		algo = DefaultAlgorithm
	}
	if !Supported(algo) {
		return nil, fmt.Errorf("%w: unsupported sign algorithm %q", domain.ErrConfiguration, algo)
	}
	key := secretKey
	if dev {
		key = testKey
	}
	if key == "" {
		return nil, fmt.Errorf("%w: signing key is empty (dev=%t)", domain.ErrConfiguration, dev)
	}
	return &Signer{secretKey: secretKey, testKey: testKey, algo: strings.ToLower(algo), dev: dev}, nil
}

func (s *Signer) Algorithm() string { return s.algo }

// Secret returns the key used for signing in the current environment.
func (s *Signer) Secret() string {
	if s.dev {
		return s.testKey
	}
	return s.secretKey
}

// Sign never fails: the algorithm was validated in NewSigner.
func (s *Signer) Sign(params map[string]string) string {
	sig, _ := SignMap(params, s.Secret(), s.algo)
	return sig
}

// Verify recomputes the signature of params and compares it with their ik_sign.
func (s *Signer) Verify(params map[string]string) bool {
	got, ok := params[SignField]
	if !ok || got == "" {
		return false
	}
	want := s.Sign(params)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
