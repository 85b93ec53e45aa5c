// internal/app/system/device/device.go
package device

import "github.com/mssola/useragent"

// DisplayName turns a raw User-Agent header into a short label like
// "Chrome on Windows" for the session list. Unrecognized agents come
// back as "Unknown Device".
func DisplayName(rawUA string) string {
	if rawUA == "" {
		return "Unknown Device"
	}
	ua := useragent.New(rawUA)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name

	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	default:
		return "Unknown Device"
	}
}
