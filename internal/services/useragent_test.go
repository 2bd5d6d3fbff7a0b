package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want UserAgentInfo
	}{
		{
			name: "chrome windows",
			ua:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			want: UserAgentInfo{Browser: "Chrome", OS: "Windows", Device: DeviceDesktop},
		},
		{
			name: "safari iphone",
			ua:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Version/17.0 Mobile/15E148 Safari/604.1",
			want: UserAgentInfo{Browser: "Safari", OS: "macOS", Device: DeviceMobile},
		},
		{
			name: "firefox linux",
			ua:   "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			want: UserAgentInfo{Browser: "Firefox", OS: "Linux", Device: DeviceDesktop},
		},
		{
			name: "ipad tablet",
			ua:   "Mozilla/5.0 (iPad; CPU OS 12_2) AppleWebKit/605.1.15",
			want: UserAgentInfo{Browser: "Unknown", OS: "iOS", Device: DeviceTablet},
		},
		{
			name: "internet explorer",
			ua:   "Mozilla/5.0 (compatible; MSIE 10.0; Trident/6.0)",
			want: UserAgentInfo{Browser: "Internet Explorer", OS: "Unknown", Device: DeviceDesktop},
		},
		{
			name: "curl",
			ua:   "curl/8.4.0",
			want: UserAgentInfo{Browser: "Unknown", OS: "Unknown", Device: DeviceDesktop},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseUserAgent(tt.ua))
		})
	}
}

func TestDetectSource(t *testing.T) {
	tests := []struct {
		referrer string
		want     string
	}{
		{"", SourceDirect},
		{"https://www.google.com/search?q=x", "Google"},
		{"https://x.com/someone", "Twitter"},
		{"https://t.co.twitter.com", "Twitter"},
		{"https://old.reddit.com/r/golang", "Reddit"},
		{"https://www.Example.org/page", "example.org"},
		{"not a url", SourceUnknown},
		{"://broken", SourceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.referrer, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSource(tt.referrer))
		})
	}
}
