package device

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/mileusna/useragent"
)

// Descriptor is a normalized device identity derived from a request's
// user-agent string. It is built once per request and never mutated.
type Descriptor struct {
	Browser        string `json:"browser"`
	BrowserVersion string `json:"browser_version"`
	OS             string `json:"os"`
	OSVersion      string `json:"os_version"`
	Device         string `json:"device"`
	DeviceType     string `json:"device_type"`
	UserAgent      string `json:"user_agent,omitempty"`
}

const unknown = "Unknown"

// Parse builds a Descriptor from a raw user-agent string. Fields that
// cannot be resolved default to "Unknown" ("desktop" for the device type).
func Parse(rawUA string) Descriptor {
	ua := useragent.Parse(rawUA)

	d := Descriptor{
		Browser:        ua.Name,
		BrowserVersion: ua.Version,
		OS:             ua.OS,
		OSVersion:      ua.OSVersion,
		Device:         ua.Device,
		DeviceType:     deviceType(ua),
		UserAgent:      rawUA,
	}

	if d.Browser == "" {
		d.Browser = unknown
	}
	if d.BrowserVersion == "" {
		d.BrowserVersion = unknown
	}
	if d.OS == "" {
		d.OS = unknown
	}
	if d.OSVersion == "" {
		d.OSVersion = unknown
	}
	if d.Device == "" {
		d.Device = unknown
	}

	return d
}

// FromRequest extracts the device descriptor and client IP from a request.
func FromRequest(r *http.Request) (Descriptor, string) {
	return Parse(r.UserAgent()), ClientIP(r)
}

func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Mobile:
		return "mobile"
	case ua.Tablet:
		return "tablet"
	case ua.Bot:
		return "bot"
	default:
		return "desktop"
	}
}

// Fingerprint returns a coarse string key for set membership. It is not
// the authoritative comparison; use Matches for that.
func Fingerprint(d Descriptor) string {
	return fmt.Sprintf("%s-%s-%s-%s-%s-%s",
		d.Browser, d.BrowserVersion, d.OS, d.OSVersion, d.Device, d.DeviceType)
}

// Matches reports whether two descriptors identify the same device.
// All six core fields must be equal. The raw user agent participates
// only when both sides carry one; older stored records may lack it.
func Matches(a, b Descriptor) bool {
	return a.Browser == b.Browser &&
		a.BrowserVersion == b.BrowserVersion &&
		a.OS == b.OS &&
		a.OSVersion == b.OSVersion &&
		a.Device == b.Device &&
		a.DeviceType == b.DeviceType &&
		(a.UserAgent == "" || b.UserAgent == "" || a.UserAgent == b.UserAgent)
}

// String renders the descriptor the way alert messages reference it.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s %s on %s %s", d.Browser, d.BrowserVersion, d.OS, d.OSVersion)
}

var ipv4Regex = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)

// ClientIP resolves the client address from proxy headers, falling back
// to the transport peer address. Header values are trusted as-is; the
// trust boundary is the fronting proxy.
func ClientIP(r *http.Request) string {
	var ip string

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if ip == "" {
		ip = r.Header.Get("X-Real-IP")
	}
	if ip == "" {
		ip = r.Header.Get("X-Client-IP")
	}
	if ip == "" {
		ip = r.Header.Get("CF-Connecting-IP")
	}
	if ip == "" && r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		} else {
			ip = r.RemoteAddr
		}
	}

	if ip == "" {
		return "unknown"
	}

	return normalizeIPv4(ip)
}

// normalizeIPv4 maps IPv6 loopback and IPv6-mapped IPv4 addresses to
// their IPv4 form. Other IPv6 addresses pass through untouched.
func normalizeIPv4(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	if ip == "::1" || ip == "0:0:0:0:0:0:0:1" {
		return "127.0.0.1"
	}
	if strings.HasPrefix(ip, "::ffff:") {
		mapped := strings.TrimPrefix(ip, "::ffff:")
		if ipv4Regex.MatchString(mapped) {
			return mapped
		}
	}
	return ip
}
