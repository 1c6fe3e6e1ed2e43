// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/quill/pkg/slug"
)

func TestFrom(t *testing.T) {
	assert.Equal(t, "hello-world", slug.From("Hello, World!"))
	assert.Equal(t, "cafe-creme", slug.From("Café Crème"))
	assert.Equal(t, "", slug.From("---"))
}

func TestFilename(t *testing.T) {
	tests := map[string]string{
		"photo.png":              "photo.png",
		"My Photo Été.PNG":       "my-photo-ete.png",
		"../../etc/passwd":       "passwd",
		`C:\Users\me\avatar.jpg`: "avatar.jpg",
		".png":                   "file.png",
		"noext":                  "noext",
	}

	for input, want := range tests {
		assert.Equal(t, want, slug.Filename(input), input)
	}
}
