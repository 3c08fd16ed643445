package crawler

import (
	"reflect"
	"testing"
)

func TestHTMLExtractor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		opts []ExtractorOption
		want []string
	}{
		{
			name: "document order",
			body: `<html><body><a href="/b">b</a><p><a href="/a">a</a></p><a href="mailto:x@y">m</a></body></html>`,
			want: []string{"/b", "/a", "mailto:x@y"},
		},
		{
			name: "reopened anchor is reported twice",
			body: `<html><body><div><a href="/one">one<div><a href='/two'>two</table></span>`,
			want: []string{"/one", "/one", "/two"},
		},
		{
			name: "anchors without href are skipped",
			body: `<a name="top">top</a><a href="/x">x</a>`,
			want: []string{"/x"},
		},
		{
			name: "malformed markup still yields anchors",
			body: `<html><body><a href="/one">one</span><a href='/two'>two</table>`,
			want: []string{"/one", "/two"},
		},
		{
			name: "whitespace is trimmed",
			body: `<a href="  /padded ">p</a>`,
			want: []string{"/padded"},
		},
		{
			name: "empty body",
			body: "",
			want: nil,
		},
		{
			name: "custom selector",
			body: `<nav><a href="/nav">n</a></nav><main><a href="/main">m</a></main>`,
			opts: []ExtractorOption{WithSelector("main a[href]")},
			want: []string{"/main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NewHTMLExtractor(tt.opts...).Extract(tt.body)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
