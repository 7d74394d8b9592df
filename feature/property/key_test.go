package property_test

import (
	"testing"

	"propstore/feature/property"

	"github.com/stretchr/testify/assert"
)

func TestPropertyName(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		want   string
		wantOK bool
	}{
		{"Simple", "/lamp", "lamp", true},
		{"Root", "/", "", false},
		{"Empty", "", "", false},
		{"NestedSlashes", "/living/room/lamp", "living/room/lamp", true},
		{"TrailingSlash", "/lamp/", "lamp/", true},
		{"DoubleSlash", "//lamp", "/lamp", true},
		{"Encoded", "/living%20room", "living room", true},
		{"EncodedSlash", "/a%2Fb", "a%2Fb", true},
		{"ReservedStayEncoded", "/%3B%2F%3F%3A%40%26%3D%2B%24%2C%23", "%3B%2F%3F%3A%40%26%3D%2B%24%2C%23", true},
		{"ReservedKeepCase", "/a%2fb", "a%2fb", true},
		{"MixedReserved", "/a%2Fb%3F%23%26%20", "a%2Fb%3F%23%26 ", true},
		{"EscapedPercent", "/100%25", "100%", true},
		{"ThreeByteRune", "/%E2%82%AC", "€", true},
		{"FourByteRune", "/%F0%9F%92%A1", "💡", true},
		{"PlusIsLiteral", "/a+b", "a+b", true},
		{"Unicode", "/%C3%BCber", "über", true},
		{"ControlChar", "/%00", "\x00", true},
		{"BadEscape", "/%zz", "", false},
		{"TruncatedEscape", "/abc%2", "", false},
		{"InvalidUTF8", "/%FF", "", false},
		{"TruncatedRune", "/%C3", "", false},
		{"BadContinuation", "/%C3%41", "", false},
		{"OverlongSlash", "/%C0%AF", "", false},
		{"Surrogate", "/%ED%A0%80", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := property.PropertyName(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
