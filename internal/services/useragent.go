package services

import (
	"net/url"
	"strings"
)

const (
	SourceDirect  = "Direct"
	SourceUnknown = "Unknown"

	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceDesktop = "Desktop"
)

// UserAgentInfo результат разбора заголовка User-Agent.
type UserAgentInfo struct {
	Browser string
	OS      string
	Device  string
}

// ParseUserAgent определяет браузер, ОС и тип устройства по подстрокам User-Agent.
// Порядок проверок важен: Chrome содержит "Safari", мобильный iPad содержит "Mobile".
func ParseUserAgent(ua string) UserAgentInfo {
	var info UserAgentInfo

	switch {
	case strings.Contains(ua, "Chrome"):
		info.Browser = "Chrome"
	case strings.Contains(ua, "Firefox"):
		info.Browser = "Firefox"
	case strings.Contains(ua, "Safari"):
		info.Browser = "Safari"
	case strings.Contains(ua, "Edge"):
		info.Browser = "Edge"
	case strings.Contains(ua, "MSIE"), strings.Contains(ua, "Trident/"):
		info.Browser = "Internet Explorer"
	default:
		info.Browser = "Unknown"
	}

	switch {
	case strings.Contains(ua, "Windows"):
		info.OS = "Windows"
	case strings.Contains(ua, "Mac OS"):
		info.OS = "macOS"
	case strings.Contains(ua, "Linux"):
		info.OS = "Linux"
	case strings.Contains(ua, "Android"):
		info.OS = "Android"
	case strings.Contains(ua, "iOS"), strings.Contains(ua, "iPhone"), strings.Contains(ua, "iPad"):
		info.OS = "iOS"
	default:
		info.OS = "Unknown"
	}

	switch {
	case strings.Contains(ua, "Mobile"):
		info.Device = DeviceMobile
	case strings.Contains(ua, "Tablet"), strings.Contains(ua, "iPad"):
		info.Device = DeviceTablet
	default:
		info.Device = DeviceDesktop
	}

	return info
}

// knownSources подстрока хоста -> название источника.
var knownSources = []struct {
	needle string
	source string
}{
	{"google", "Google"},
	{"bing", "Bing"},
	{"yahoo", "Yahoo"},
	{"facebook", "Facebook"},
	{"twitter", "Twitter"},
	{"x.com", "Twitter"},
	{"instagram", "Instagram"},
	{"linkedin", "LinkedIn"},
	{"reddit", "Reddit"},
}

// DetectSource классифицирует источник перехода по Referer. Пустой referrer означает
// прямой переход, неразбираемый - Unknown, неизвестный хост возвращается как есть без "www.".
func DetectSource(referrer string) string {
	if referrer == "" {
		return SourceDirect
	}
	u, err := url.Parse(referrer)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return SourceUnknown
	}
	host := strings.ToLower(u.Hostname())
	for _, s := range knownSources {
		if strings.Contains(host, s.needle) {
			return s.source
		}
	}
	return strings.Replace(host, "www.", "", 1)
}
