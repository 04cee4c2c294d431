package translate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gtxBody = `[[["नमस्ते ","Hello ",null,null,10],["दुनिया","world",null,null,10],[null,null,"namaste duniya",null]],null,"en",null,null,null,null,[],[["en"],null,[0.97],["en"]]]`

func gtxServer(t *testing.T, status int, body string, seen *url.Values) *GoogleTranslator {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate_a/single" {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			*seen = r.URL.Query()
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewGoogleTranslator(srv.URL, 0, srv.Client())
}

func TestGoogleTranslate(t *testing.T) {
	var q url.Values
	g := gtxServer(t, http.StatusOK, gtxBody, &q)

	tr, err := g.Translate(context.Background(), Request{Text: "Hello world", Source: Auto, Target: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "gtx", q.Get("client"))
	assert.Equal(t, "auto", q.Get("sl"))
	assert.Equal(t, "hi", q.Get("tl"))
	assert.Equal(t, []string{"t", "ld", "rm"}, q["dt"])
	assert.Equal(t, "Hello world", q.Get("q"))

	assert.Equal(t, "नमस्ते दुनिया", tr.Output)
	assert.Equal(t, "namaste duniya", tr.Transliteration)
	assert.Equal(t, "en", tr.Detected)
	assert.Equal(t, "en", tr.SourceLanguage())
	assert.Equal(t, BackendGoogle, tr.Backend)
	require.Len(t, tr.Segments, 2)
	assert.Equal(t, "Hello", tr.Segments[0].Original)
	assert.Equal(t, "नमस्ते", tr.Segments[0].Translated)
	assert.Equal(t, "world", tr.Segments[1].Original)
}

func TestGoogleTranslate_UpstreamError(t *testing.T) {
	g := gtxServer(t, http.StatusTooManyRequests, `rate limited`, nil)

	_, err := g.Translate(context.Background(), Request{Text: "hi", Source: "en", Target: "es"})
	var up *ErrUpstream
	require.True(t, errors.As(err, &up), "err = %v", err)
	assert.Equal(t, http.StatusTooManyRequests, up.Status)
}

func TestGoogleTranslate_Malformed(t *testing.T) {
	for _, body := range []string{`{}`, `[]`, `[[[null,null,"x"]]]`, `not json`} {
		g := gtxServer(t, http.StatusOK, body, nil)
		_, err := g.Translate(context.Background(), Request{Text: "hi", Source: "en", Target: "es"})
		assert.ErrorIs(t, err, ErrMalformed, "body %s", body)
	}
}

func TestGoogleTranslate_RejectsBeforeNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()
	g := NewGoogleTranslator(srv.URL, 0, srv.Client())

	_, err := g.Translate(context.Background(), Request{Text: "   ", Source: Auto, Target: "hi"})
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = g.Translate(context.Background(), Request{Text: "hola", Source: "es", Target: "es"})
	assert.ErrorIs(t, err, ErrSameLanguage)

	_, err = g.Translate(context.Background(), Request{Text: "hola", Source: "es", Target: "xx"})
	assert.ErrorIs(t, err, ErrUnknownLanguage)

	assert.Zero(t, calls)
}

func TestDetectedLanguageFallback(t *testing.T) {
	body := `[[["hola","hello",null,null]],null,null,null,null,null,null,null,[["en"],null,[0.9],["en"]]]`
	tr, err := parseGTX([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "en", tr.Detected)
}
