package services

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	slugTokenLength = 6
	slugTokenChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	slugNameMaxLen  = 30
)

// GenerateSlug produces the public URL identifier for a page, e.g.
// "for-ananya-x7K2pQ". Uniqueness is not re-checked here; the random token
// makes collisions vanishingly rare and the slug's unique constraint rejects
// the write if one ever happens.
func GenerateSlug(crushName string) string {
	return "for-" + cleanSlugName(crushName) + "-" + slugToken()
}

// cleanSlugName lower-cases the name, collapses runs of non-alphanumeric
// characters into single hyphens, trims edge hyphens and truncates. An empty
// result is allowed; the slug degenerates to "for--<token>".
func cleanSlugName(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	clean := b.String()
	if len(clean) > slugNameMaxLen {
		clean = clean[:slugNameMaxLen]
		clean = strings.TrimRight(clean, "-")
	}
	return clean
}

// slugToken generates a random 6-character base62 token
func slugToken() string {
	token := make([]byte, slugTokenLength)
	for i := range token {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(slugTokenChars))))
		token[i] = slugTokenChars[n.Int64()]
	}
	return string(token)
}
