package browser

import (
	"math/rand"
)

// defaultUserAgent is used when the configured pool is empty.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:115.0) Gecko/20100101 Firefox/115.0"

// RandomUserAgent picks a user-agent from the pool. Rotating the
// user-agent per session keeps requests from carrying one constant
// identifier that sites can flag as automated.
func RandomUserAgent(pool []string) string {
	if len(pool) == 0 {
		return defaultUserAgent
	}
	return pool[rand.Intn(len(pool))]
}
