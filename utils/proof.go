package utils

import (
	"net/url"
	"strings"
)

// ValidProofRef accepts http(s) URLs and data: URIs as screenshot
// references. The verification engine never inspects proof content; this
// only keeps garbage strings out of the submission rows.
func ValidProofRef(ref string) bool {
	if strings.HasPrefix(ref, "data:image/") {
		return true
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
