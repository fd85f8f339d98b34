package pathutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naviserver-project/naviserver-sub001/pathutil"
)

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"collapse repeated slashes", "/a//b///c", "/a/b/c"},
		{"dot segments removed", "/a/./b/./c", "/a/b/c"},
		{"dotdot pops preceding segment", "/a/b/../c", "/a/c"},
		{"dotdot at root dropped silently", "/../a", "/a"},
		{"empty becomes root", "", "/"},
		{"trailing slash preserved with segments", "/a/b/", "/a/b/"},
		{"trailing slash dropped at root", "/./", "/"},
		{"no trailing slash kept absent", "/a/b", "/a/b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pathutil.NormalizeURL(tc.in))
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	corpus := []string{
		"/a/./b/../c?x=1", "/../../a/b", "//a//b//", "/", "",
		"/a/b/c/../../../d", "/x/y/z/",
	}
	for _, in := range corpus {
		once := pathutil.NormalizeURL(in)
		twice := pathutil.NormalizeURL(once)
		assert.Equal(t, once, twice, "Normalize(Normalize(%q)) should equal Normalize(%q)", in, in)
	}
}

func TestIsAbsolute(t *testing.T) {
	assert.True(t, pathutil.IsAbsolute("/a/b"))
	assert.False(t, pathutil.IsAbsolute("a/b"))
	assert.False(t, pathutil.IsAbsolute(""))
}

func TestMakePath(t *testing.T) {
	assert.Equal(t, "a/b/c", pathutil.MakePath("a", "b", "c"))
	assert.Equal(t, "a/b/c", pathutil.MakePath("/a/", "//b//", "/c/"))
	assert.Equal(t, "a/b", pathutil.MakePath("a", "", "b"))
}

func TestHashPath(t *testing.T) {
	assert.Equal(t, "/f/o/o", pathutil.HashPath("foo", 3))
	assert.Equal(t, "/a/_/_", pathutil.HashPath("a", 3))
	assert.Equal(t, "", pathutil.HashPath("foo", 0))
}
