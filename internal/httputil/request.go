package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into dst. An empty body leaves dst
// untouched and is not an error, matching clients that POST without a body.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// BaseURL returns scheme://host for the request. X-Forwarded-Proto and
// X-Forwarded-Host are honored only when trustProxy is set, and a forwarded
// scheme other than http or https is ignored.
func BaseURL(r *http.Request, trustProxy bool) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host

	if trustProxy {
		switch proto := strings.ToLower(firstValue(r.Header.Get("X-Forwarded-Proto"))); proto {
		case "http", "https":
			scheme = proto
		}
		if fwd := firstValue(r.Header.Get("X-Forwarded-Host")); fwd != "" && !strings.ContainsAny(fwd, "/\\@ ") {
			host = fwd
		}
	}

	return scheme + "://" + host
}

// firstValue returns the client-most entry of a comma-separated header.
func firstValue(header string) string {
	first, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(first)
}
