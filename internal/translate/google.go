package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/trans/internal/quiz"
)

const defaultGoogleEndpoint = "https://translate.googleapis.com"

// GoogleTranslator uses the public gtx endpoint of Google Translate. It
// ignores the requested style.
type GoogleTranslator struct {
	endpoint string
	client   *http.Client
}

// NewGoogleTranslator creates a translator against endpoint. A nil client
// gets a default one with the given timeout.
func NewGoogleTranslator(endpoint string, timeout time.Duration, client *http.Client) *GoogleTranslator {
	if endpoint == "" {
		endpoint = defaultGoogleEndpoint
	}
	if client == nil {
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &GoogleTranslator{endpoint: strings.TrimRight(endpoint, "/"), client: client}
}

func (g *GoogleTranslator) Name() string { return BackendGoogle }

func (g *GoogleTranslator) Translate(ctx context.Context, req Request) (*Translation, error) {
	if err := req.Check(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", req.Source)
	q.Set("tl", req.Target)
	q.Add("dt", "t")
	q.Add("dt", "ld")
	q.Add("dt", "rm")
	q.Set("q", req.Text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"/translate_a/single?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &ErrUpstream{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	t, err := parseGTX(body)
	if err != nil {
		return nil, err
	}
	t.Input = req.Text
	t.Source = req.Source
	t.Target = req.Target
	t.Backend = BackendGoogle
	return t, nil
}

// parseGTX decodes the positional array the gtx endpoint returns:
//
//	[ [ ["hola ","hello ",null,null,..], ..., [null,null,"translit","src translit"] ],
//	  null, "en", ..., [["en"],null,[0.98],["en"]] ]
func parseGTX(body []byte) (*Translation, error) {
	var data []json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil || len(data) == 0 {
		return nil, fmt.Errorf("%w: not a JSON array", ErrMalformed)
	}

	var chunks [][]json.RawMessage
	if err := json.Unmarshal(data[0], &chunks); err != nil {
		return nil, fmt.Errorf("%w: sentences: %v", ErrMalformed, err)
	}

	t := &Translation{Segments: []quiz.Segment{}}
	var out strings.Builder
	for _, chunk := range chunks {
		translated := chunkString(chunk, 0)
		original := chunkString(chunk, 1)
		if translated == "" && original == "" {
			// Romanization chunk.
			if tr := chunkString(chunk, 2); tr != "" {
				t.Transliteration = tr
			}
			continue
		}
		out.WriteString(translated)
		t.Segments = append(t.Segments, quiz.Segment{
			Original:   strings.TrimSpace(original),
			Translated: strings.TrimSpace(translated),
		})
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%w: no translated text", ErrMalformed)
	}
	t.Output = out.String()
	t.Detected = detectedLanguage(data)
	return t, nil
}

func chunkString(chunk []json.RawMessage, i int) string {
	if i >= len(chunk) {
		return ""
	}
	var s string
	if err := json.Unmarshal(chunk[i], &s); err != nil {
		return ""
	}
	return s
}

// detectedLanguage reads data[2], falling back to the language detection
// block at data[8][0][0].
func detectedLanguage(data []json.RawMessage) string {
	if len(data) > 2 {
		var s string
		if json.Unmarshal(data[2], &s) == nil && s != "" {
			return s
		}
	}
	if len(data) > 8 {
		var ld []json.RawMessage
		var langs []string
		if json.Unmarshal(data[8], &ld) == nil && len(ld) > 0 &&
			json.Unmarshal(ld[0], &langs) == nil && len(langs) > 0 {
			return langs[0]
		}
	}
	return ""
}
