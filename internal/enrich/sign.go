package enrich

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
)

// tsLayout is the timestamp format the credential hash is computed over.
// Precision is one second: the same string must be used for both the
// hash input and the ts query parameter or the upstream rejects the
// request.
const tsLayout = "02/01/200615:04:05"

// credentials builds the Marvel credential triple. The hash is
// md5(ts + privateKey + publicKey), submitted alongside the public key
// and the timestamp it was computed from.
func (c *Client) credentials() url.Values {
	ts := c.now().Format(tsLayout)
	sum := md5.Sum([]byte(ts + c.privateKey + c.publicKey))
	return url.Values{
		"apikey": {c.publicKey},
		"ts":     {ts},
		"hash":   {hex.EncodeToString(sum[:])},
	}
}
