package parity_test

import (
	"testing"

	"github.com/fwojciec/parity"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://x.com/About/", "/about"},
		{"https://x.com", "/"},
		{"https://x.com/", "/"},
		{"http://x.com:8080/docs/Intro", "/docs/intro"},
		{"//cdn.x.com/a/b/", "/a/b"},
		{"/Blog//post?page=2#top", "/blog/post"},
		{"/contact#form", "/contact"},
		{"about", "/about"},
		{"", "/"},
		{"/", "/"},
		{"///", "/"},
		{"  /padded/  ", "/padded"},
		{"/a/http://b", "/a/http:/b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parity.NormalizeRoute(tt.in))
		})
	}
}

func TestNormalizeRoute_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"https://x.com/About/",
		"https://X.COM/Über/Straße/",
		"//host/Path//To/",
		"/a/http://b/C",
		"relative/Path/",
		"/q?x=1#frag",
		"",
		"/",
		"/trailing///",
	}

	for _, in := range inputs {
		once := parity.NormalizeRoute(in)
		assert.Equal(t, once, parity.NormalizeRoute(once), "input %q", in)
	}
}
