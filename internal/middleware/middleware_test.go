package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"finitefield.org/flor-web/internal/cart"
	"finitefield.org/flor-web/internal/i18n"
)

var testCookies = CookieConfig{SigningKey: []byte("test-key"), MaxAge: time.Hour}

func cookieNamed(t *testing.T, res *http.Response, name string) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == name {
			require.Nil(t, found, "cookie %s set twice", name)
			found = c
		}
	}
	require.NotNil(t, found, "cookie %s not set", name)
	return found
}

func TestCartSlotRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	slot := CartSlot(rec, req, SlotConfig{Cookie: testCookies})

	raw, err := slot.Read(ctx)
	require.NoError(t, err)
	require.Nil(t, raw)

	require.NoError(t, slot.Write(ctx, []byte(`{"version":1,"items":[]}`)))
	require.NoError(t, slot.Write(ctx, []byte(`{"version":1,"items":[{"id":"a"}]}`)))
	raw, err = slot.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, `{"version":1,"items":[{"id":"a"}]}`, string(raw))

	c := cookieNamed(t, rec.Result(), cart.DefaultSlotName)
	require.True(t, c.HttpOnly)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(c)
	raw, err = CartSlot(httptest.NewRecorder(), next, SlotConfig{Cookie: testCookies}).Read(ctx)
	require.NoError(t, err)
	require.Equal(t, `{"version":1,"items":[{"id":"a"}]}`, string(raw))
}

func TestCartSlotRejectsTampering(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cart.DefaultSlotName, Value: signer{key: []byte("other")}.sign([]byte("[]"))})
	_, err := CartSlot(httptest.NewRecorder(), req, SlotConfig{Cookie: testCookies}).Read(context.Background())
	require.ErrorIs(t, err, ErrSlotTampered)

	st, err := cart.NewService().Open(context.Background(), CartSlot(httptest.NewRecorder(), req, SlotConfig{Cookie: testCookies}), nil)
	require.ErrorIs(t, err, cart.ErrStorageCorrupt)
	require.True(t, st.Empty())
}

func TestCartSlotOverflow(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	slot := CartSlot(rec, httptest.NewRequest(http.MethodGet, "/", nil), SlotConfig{Cookie: testCookies, MaxBytes: 64})
	err := slot.Write(context.Background(), []byte(strings.Repeat("x", 100)))
	require.ErrorIs(t, err, ErrSlotOverflow)
	require.Empty(t, rec.Result().Cookies())
}

func TestSessionIssuesSignedCookie(t *testing.T) {
	t.Parallel()

	var seen *SessionData
	h := Session(testCookies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r)
		_, _ = w.Write([]byte("ok"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen.ID)
	require.NotEmpty(t, seen.CSRFToken)

	c := cookieNamed(t, rec.Result(), sessionCookieName)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	again, ok := readSessionCookie(req, testCookies.signer())
	require.True(t, ok)
	require.Equal(t, seen.ID, again.ID)
}

func newCSRFStack() http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	return Session(testCookies)(HTMX(CSRF(testCookies)(ok)))
}

func TestCSRFAcceptsHeaderOrFormField(t *testing.T) {
	t.Parallel()
	h := newCSRFStack()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	res := rec.Result()
	session := cookieNamed(t, res, sessionCookieName)
	token := cookieNamed(t, res, csrfCookieName)

	post := func(body string, header string) int {
		req := httptest.NewRequest(http.MethodPost, "/cart/actions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set(csrfHeaderName, header)
		}
		req.AddCookie(session)
		req.AddCookie(token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusNoContent, post("", token.Value))
	require.Equal(t, http.StatusNoContent, post(url.Values{CSRFFormField: {token.Value}}.Encode(), ""))
	require.Equal(t, http.StatusForbidden, post("", ""))
	require.Equal(t, http.StatusForbidden, post("", "wrong"))
}

func TestLocaleResolution(t *testing.T) {
	t.Parallel()
	bundle, err := i18n.Load(fstest.MapFS{
		"en.json":  {Data: []byte(`{}`)},
		"fil.json": {Data: []byte(`{}`)},
	}, "en", []string{"en", "fil"})
	require.NoError(t, err)

	var lang string
	h := Session(testCookies)(Locale(bundle)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang = Lang(r)
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fil-PH,en;q=0.5")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "fil", lang)
	require.Equal(t, "fil", rec.Header().Get("Content-Language"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?hl=en", nil))
	require.Equal(t, "en", lang)
}

func TestAssetsWithCache(t *testing.T) {
	t.Parallel()
	h := AssetsWithCache(fstest.MapFS{"flor.css": {Data: []byte("body{}")}}, "/assets")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/flor.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/assets/flor.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
}

func TestRedirectHonoursHTMX(t *testing.T) {
	t.Parallel()
	h := HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Redirect(w, r, "/checkout")
	}))

	req := httptest.NewRequest(http.MethodPost, "/cart/checkout", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "/checkout", rec.Header().Get("HX-Redirect"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/checkout", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/checkout", rec.Header().Get("Location"))
}
