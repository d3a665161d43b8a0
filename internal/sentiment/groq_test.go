package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)

		fmt.Fprintf(w, `{"choices": [{"message": {"role": "assistant", "content": %s}}]}`,
			strconv.Quote(content))
	}))
}

func TestAnalyzeText_ParsesScore(t *testing.T) {
	srv := completionServer(t, `{"score": 0.7}`)
	defer srv.Close()

	analyzer := NewGroqAnalyzer("test-key", WithGroqBaseURL(srv.URL))

	s, err := analyzer.AnalyzeText(context.Background(), "strong earnings beat")
	require.NoError(t, err)
	require.Equal(t, 0.7, s.Score)
	require.Equal(t, domain.SentimentPositive, s.Label)
}

func TestAnalyzeText_ToleratesSurroundingProse(t *testing.T) {
	srv := completionServer(t, `Sure! Here is the rating: {"score": -0.4} Hope that helps.`)
	defer srv.Close()

	analyzer := NewGroqAnalyzer("test-key", WithGroqBaseURL(srv.URL))

	s, err := analyzer.AnalyzeText(context.Background(), "guidance cut")
	require.NoError(t, err)
	require.Equal(t, -0.4, s.Score)
	require.Equal(t, domain.SentimentNegative, s.Label)
}

func TestAnalyzeText_ClampsScore(t *testing.T) {
	srv := completionServer(t, `{"score": 3.5}`)
	defer srv.Close()

	analyzer := NewGroqAnalyzer("test-key", WithGroqBaseURL(srv.URL))

	s, err := analyzer.AnalyzeText(context.Background(), "to the moon")
	require.NoError(t, err)
	require.Equal(t, 1.0, s.Score)
}

func TestAnalyzeText_NoKeyIsNeutral(t *testing.T) {
	analyzer := NewGroqAnalyzer("")

	s, err := analyzer.AnalyzeText(context.Background(), "anything")
	require.NoError(t, err)
	require.Equal(t, domain.NeutralSentiment, s)
}

func TestAnalyzeText_EmptyTextIsNeutral(t *testing.T) {
	analyzer := NewGroqAnalyzer("test-key")

	s, err := analyzer.AnalyzeText(context.Background(), "   ")
	require.NoError(t, err)
	require.Equal(t, domain.NeutralSentiment, s)
}

func TestAnalyzeText_UpstreamErrorDegradesToNeutral(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	analyzer := NewGroqAnalyzer("test-key", WithGroqBaseURL(srv.URL))

	s, err := analyzer.AnalyzeText(context.Background(), "anything")
	require.NoError(t, err)
	require.Equal(t, domain.NeutralSentiment, s)
}

func TestAnalyzeText_GarbageCompletionDegradesToNeutral(t *testing.T) {
	srv := completionServer(t, `I cannot rate this.`)
	defer srv.Close()

	analyzer := NewGroqAnalyzer("test-key", WithGroqBaseURL(srv.URL))

	s, err := analyzer.AnalyzeText(context.Background(), "anything")
	require.NoError(t, err)
	require.Equal(t, domain.NeutralSentiment, s)
}

func TestAnalyzeHeadlines_BuildsPrompt(t *testing.T) {
	var gotUserContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotUserContent = req.Messages[1].Content
		fmt.Fprint(w, `{"choices": [{"message": {"role": "assistant", "content": "{\"score\": 0.2}"}}]}`)
	}))
	defer srv.Close()

	analyzer := NewGroqAnalyzer("test-key", WithGroqBaseURL(srv.URL))

	items := []domain.NewsItem{
		{Headline: "Apple beats estimates"},
		{Headline: "Supply chain improves"},
	}
	s, err := analyzer.AnalyzeHeadlines(context.Background(), "AAPL", items)
	require.NoError(t, err)
	require.Equal(t, 0.2, s.Score)

	require.Contains(t, gotUserContent, "Recent news for AAPL:")
	require.Contains(t, gotUserContent, "- Apple beats estimates")
	require.Contains(t, gotUserContent, "- Supply chain improves")
}

func TestAnalyzeHeadlines_NoItemsIsNeutral(t *testing.T) {
	analyzer := NewGroqAnalyzer("test-key")

	s, err := analyzer.AnalyzeHeadlines(context.Background(), "AAPL", nil)
	require.NoError(t, err)
	require.Equal(t, domain.NeutralSentiment, s)
}

func TestParseScore(t *testing.T) {
	cases := []struct {
		content string
		want    float64
		wantErr bool
	}{
		{`{"score": 0.5}`, 0.5, false},
		{`noise {"score": -1} noise`, -1, false},
		{`{"score": 0}`, 0, false},
		{`no json here`, 0, true},
		{`{broken`, 0, true},
	}
	for _, c := range cases {
		got, err := parseScore(c.content)
		if c.wantErr {
			require.Error(t, err, c.content)
			continue
		}
		require.NoError(t, err, c.content)
		require.Equal(t, c.want, got, c.content)
	}
}
