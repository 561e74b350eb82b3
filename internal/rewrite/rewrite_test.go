package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortenGetters(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"body", "const b = res.getBody()", "const b = res.body"},
		{"all getters",
			"res.getBody(); res.getHeaders(); res.getResponseTime()\nres.getStatus(); res.getStatusText(); res.getUrl()",
			"res.body; res.headers; res.responseTime\nres.status; res.statusText; res.url"},
		{"chained use", "expect(res.getStatus()).to.equal(200)", "expect(res.status).to.equal(200)"},
		{"at start of text", "res.getBody()", "res.body"},
		{"arguments kept", `res.getHeader("x"); res.getBody(true)`, `res.getHeader("x"); res.getBody(true)`},
		{"whitespace in parens kept", "res.getBody( )", "res.getBody( )"},
		{"other receiver", "responses.getBody(); myres.getBody()", "responses.getBody(); myres.getBody()"},
		{"member receiver", "ctx.res.getBody()", "ctx.res.getBody()"},
		{"dollar receiver", "$res.getStatus()", "$res.getStatus()"},
		{"unknown getter", "res.getCookies()", "res.getCookies()"},
		{"getter prefix only", "res.getStatusCode()", "res.getStatusCode()"},
		{"no calls", "const a = 1", "const a = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShortenGetters(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ShortenGetters(got))
		})
	}
}

func TestGettersMatchPattern(t *testing.T) {
	for _, name := range Getters {
		in := "res.get" + string(name[0]-'a'+'A') + name[1:] + "()"
		assert.Equal(t, "res."+name, ShortenGetters(in), name)
	}
}

func TestNormalizeFilePaths(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"body:file", "body:file {\n  file: @file(\\Users\\a\\b.jpg)\n}\n", "body:file {\n  file: @file(/Users/a/b.jpg)\n}\n"},
		{"multipart", "body:multipart-form {\n  photo: @file(C:\\img\\x.png)\n  name: a\\b\n}\n", "body:multipart-form {\n  photo: @file(C:/img/x.png)\n  name: a\\b\n}\n"},
		{"several", "@file(a\\b)\n@file(c\\d)", "@file(a/b)\n@file(c/d)"},
		{"already portable", "file: @file(/a/b.jpg)", "file: @file(/a/b.jpg)"},
		{"outside directive", "docs {\n  C:\\temp\n}\n", "docs {\n  C:\\temp\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeFilePaths(tt.in))
		})
	}
}

func TestTidyBlocks(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"canonical untouched", "meta {\n  a\n}\n\nget {\n  b\n}\n", "meta {\n  a\n}\n\nget {\n  b\n}\n"},
		{"many blank lines", "meta {\n  a\n}\n\n\n\nget {\n  b\n}\n", "meta {\n  a\n}\n\nget {\n  b\n}\n"},
		{"whitespace line", "meta {\n  a\n}\n   \nget {\n  b\n}\n", "meta {\n  a\n}\n\nget {\n  b\n}\n"},
		{"mixed run", "meta {\n}\n \n\t\n\nbody:json {\n}\n", "meta {\n}\n\nbody:json {\n}\n"},
		{"adjacent blocks", "meta {\n}\nget {\n}\n", "meta {\n}\nget {\n}\n"},
		{"trailing blank lines", "meta {\n}\n\n\n", "meta {\n}\n\n\n"},
		{"inside body", "tests {\n  a\n\n\n  b\n}\n", "tests {\n  a\n\n\n  b\n}\n"},
		{"not followed by header", "meta {\n}\n\n\n  indented {\n", "meta {\n}\n\n\n  indented {\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TidyBlocks(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, TidyBlocks(got))
		})
	}
}
