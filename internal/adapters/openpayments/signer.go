package openpayments

import (
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// requestSigner produces RFC 9421 HTTP message signatures with ed25519, the
// scheme Open Payments servers verify against the wallet's registered key.
type requestSigner struct {
	keyID string
	key   ed25519.PrivateKey
}

func newRequestSigner(keyID string, key ed25519.PrivateKey) *requestSigner {
	return &requestSigner{keyID: keyID, key: key}
}

// Sign attaches Content-Digest (for bodies), Signature-Input and Signature
// headers covering the method, target URI and digest.
func (s *requestSigner) Sign(req *http.Request, body []byte) error {
	if len(s.key) != ed25519.PrivateKeySize {
		return fmt.Errorf("invalid ed25519 private key length %d", len(s.key))
	}

	components := []string{"@method", "@target-uri"}
	if len(body) > 0 {
		sum := sha512.Sum512(body)
		req.Header.Set("Content-Digest", "sha-512=:"+base64.StdEncoding.EncodeToString(sum[:])+":")
		components = append(components, "content-digest")
	}
	if auth := req.Header.Get("Authorization"); auth != "" {
		components = append(components, "authorization")
	}

	params := fmt.Sprintf("(%s);created=%d;keyid=%q;alg=\"ed25519\"",
		quoteJoin(components), time.Now().Unix(), s.keyID)

	var base strings.Builder
	for _, c := range components {
		fmt.Fprintf(&base, "%q: %s\n", c, s.componentValue(req, c))
	}
	fmt.Fprintf(&base, "%q: %s", "@signature-params", params)

	sig := ed25519.Sign(s.key, []byte(base.String()))

	req.Header.Set("Signature-Input", "sig1="+params)
	req.Header.Set("Signature", "sig1=:"+base64.StdEncoding.EncodeToString(sig)+":")
	return nil
}

func (s *requestSigner) componentValue(req *http.Request, component string) string {
	switch component {
	case "@method":
		return req.Method
	case "@target-uri":
		return req.URL.String()
	case "content-digest":
		return req.Header.Get("Content-Digest")
	case "authorization":
		return req.Header.Get("Authorization")
	default:
		return req.Header.Get(component)
	}
}

func quoteJoin(components []string) string {
	quoted := make([]string, len(components))
	for i, c := range components {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return strings.Join(quoted, " ")
}
