package cookie_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naviserver-project/naviserver-sub001/cookie"
)

func TestSetCookieAttributeOrder(t *testing.T) {
	h := make(http.Header)
	cookie.SetCookie(h, "session", "abc123", cookie.Options{
		MaxAge:   3600,
		Domain:   "example.com",
		Path:     "/",
		Secure:   true,
		Discard:  true,
		SameSite: cookie.SameSiteLax,
	})

	got := h.Get("Set-Cookie")
	want := `session="abc123"; Max-Age=3600; Domain=example.com; Path=/; Secure; Discard; HttpOnly; SameSite=Lax`
	assert.Equal(t, want, got)
}

func TestSetCookieScriptableOmitsHttpOnly(t *testing.T) {
	h := make(http.Header)
	cookie.SetCookie(h, "a", "b", cookie.Options{Scriptable: true})
	assert.NotContains(t, h.Get("Set-Cookie"), "HttpOnly")
}

func TestSetCookieExpireNowOverridesMaxAge(t *testing.T) {
	h := make(http.Header)
	cookie.SetCookie(h, "a", "b", cookie.Options{MaxAge: 60, ExpireNow: true})
	assert.Contains(t, h.Get("Set-Cookie"), "Expires=Fri, 01-Jan-1980 01:00:00 GMT")
	assert.NotContains(t, h.Get("Set-Cookie"), "Max-Age")
}

func TestSetCookieInfinite(t *testing.T) {
	h := make(http.Header)
	cookie.SetCookie(h, "a", "b", cookie.Options{Infinite: true})
	assert.Contains(t, h.Get("Set-Cookie"), "Expires=Fri, 01-Jan-2035 01:00:00 GMT")
}

func TestSetCookieSameSiteNoneWithoutSecureFallsBackToLax(t *testing.T) {
	h := make(http.Header)
	cookie.SetCookie(h, "a", "b", cookie.Options{SameSite: cookie.SameSiteNone})
	assert.Contains(t, h.Get("Set-Cookie"), "SameSite=Lax")
	assert.NotContains(t, h.Get("Set-Cookie"), "SameSite=None")
}

func TestSetCookieSameSiteNoneWithSecureIsKept(t *testing.T) {
	h := make(http.Header)
	cookie.SetCookie(h, "a", "b", cookie.Options{SameSite: cookie.SameSiteNone, Secure: true})
	assert.Contains(t, h.Get("Set-Cookie"), "SameSite=None")
}

func TestSetCookieEmptyDomainOmitted(t *testing.T) {
	h := make(http.Header)
	cookie.SetCookie(h, "a", "b", cookie.Options{Domain: ""})
	assert.NotContains(t, h.Get("Set-Cookie"), "Domain")
}

func TestSetCookieReplaceRemovesExisting(t *testing.T) {
	h := make(http.Header)
	h.Add("Set-Cookie", `session="old"; Path=/`)
	h.Add("Set-Cookie", `other="x"`)

	cookie.SetCookie(h, "session", "new", cookie.Options{Replace: true})

	vals := h.Values("Set-Cookie")
	require.Len(t, vals, 2)
	assert.Equal(t, `other="x"`, vals[0])
	assert.Contains(t, vals[1], `session="new"`)
}

func TestGetCookieFindsNamedValue(t *testing.T) {
	h := make(http.Header)
	h.Add("Cookie", `cookie1="value1"; cookie2="value2"; style=null`)

	v, ok := cookie.GetCookie(h, "cookie2")
	require.True(t, ok)
	assert.Equal(t, "value2", v)

	v, ok = cookie.GetCookie(h, "style")
	require.True(t, ok)
	assert.Equal(t, "null", v)

	_, ok = cookie.GetCookie(h, "missing")
	assert.False(t, ok)
}

func TestGetCookieDecodesPercentEncodedValue(t *testing.T) {
	h := make(http.Header)
	h.Add("Cookie", `name="a%20b%3Bc"`)

	v, ok := cookie.GetCookie(h, "name")
	require.True(t, ok)
	assert.Equal(t, "a b;c", v)
}

func TestGetAllCookiesReturnsEveryMatch(t *testing.T) {
	h := make(http.Header)
	h.Add("Cookie", `tag="a"; tag="b"; tag="c"`)

	vals := cookie.GetAllCookies(h, "tag")
	assert.Equal(t, []string{"a", "b", "c"}, vals)
}

func TestGetSetCookieOnlyExaminesLeadingPair(t *testing.T) {
	h := make(http.Header)
	h.Add("Set-Cookie", `session="abc"; Path=/; Domain=example.com`)

	v, ok := cookie.GetSetCookie(h, "session")
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	// "Path" is an attribute of the session cookie, not a second cookie.
	_, ok = cookie.GetSetCookie(h, "Path")
	assert.False(t, ok)
}

func TestDeleteNamedRemovesOnlyMatchingHeaderValues(t *testing.T) {
	h := make(http.Header)
	h.Add("Set-Cookie", `a="1"`)
	h.Add("Set-Cookie", `b="2"`)
	h.Add("Set-Cookie", `a="3"; Path=/`)

	removed := cookie.DeleteNamed(h, "Set-Cookie", "a")
	assert.True(t, removed)
	assert.Equal(t, []string{`b="2"`}, h.Values("Set-Cookie"))
}

func TestDeleteCookieSetsExpiresInPast(t *testing.T) {
	h := make(http.Header)
	cookie.DeleteCookie(h, "session", "example.com", "/", true)

	got := h.Get("Set-Cookie")
	assert.Contains(t, got, "session=")
	assert.Contains(t, got, "Expires=Fri, 01-Jan-1980 01:00:00 GMT")
	assert.Contains(t, got, "Domain=example.com")
	assert.Contains(t, got, "Secure")
}

func TestRawHeadersFoldsContinuationLines(t *testing.T) {
	r := cookie.NewRawHeaders()
	require.NoError(t, r.AddLine("Cookie: a=1"))
	require.NoError(t, r.AddLine("  continued-value"))

	assert.Equal(t, "a=1 continued-value", r.Header.Get("Cookie"))
}

func TestRawHeadersContinuationBeforeAnyHeaderFails(t *testing.T) {
	r := cookie.NewRawHeaders()
	err := r.AddLine("  leading continuation")
	assert.Error(t, err)
}

func TestRawHeadersRejectsLineWithoutColon(t *testing.T) {
	r := cookie.NewRawHeaders()
	err := r.AddLine("not-a-header-line")
	assert.Error(t, err)
}
