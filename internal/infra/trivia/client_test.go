package trivia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inno-quiz-service/internal/domain"
)

func TestQuestionsDecodesAndBuildsOptions(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api.php", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{
			"response_code": 0,
			"results": [{
				"question": "Who wrote &quot;Hamlet&quot;?",
				"correct_answer": "Shakespeare",
				"incorrect_answers": ["Marlowe", "O&#039;Neill"]
			}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	drafts, err := client.Questions(context.Background(), domain.TriviaQuery{Amount: 1, Category: 10, Difficulty: "easy"})
	require.NoError(t, err)

	assert.Equal(t, "amount=1&category=10&difficulty=easy", gotQuery)
	require.Len(t, drafts, 1)
	assert.Equal(t, `Who wrote "Hamlet"?`, drafts[0].Text)
	assert.Equal(t, []string{"Marlowe", "O'Neill", "Shakespeare"}, drafts[0].Options)
	assert.Equal(t, "Shakespeare", drafts[0].CorrectAnswer)
	assert.Equal(t, 1, drafts[0].Points)
}

func TestQuestionsResponseCodes(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"response_code": 1, "results": []}`, "No results found with the specified parameters"},
		{`{"response_code": 2, "results": []}`, "Invalid parameter in the API request"},
		{`{"response_code": 5, "results": []}`, "Unknown error code: 5"},
		{`{"results": []}`, "Invalid response: missing response_code"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, 0).Questions(context.Background(), domain.TriviaQuery{Amount: 3})
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestQuestionsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).Questions(context.Background(), domain.TriviaQuery{Amount: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP error")
}

func TestCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api_category.php", r.URL.Path)
		_, _ = w.Write([]byte(`{"trivia_categories":[{"id":9,"name":"General Knowledge"},{"id":10,"name":"Entertainment: Books"}]}`))
	}))
	defer srv.Close()

	categories, err := NewClient(srv.URL, 0).Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.TriviaCategory{
		{ID: "9", Name: "General Knowledge"},
		{ID: "10", Name: "Entertainment: Books"},
	}, categories)
}

func TestCategoriesInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).Categories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid response")
}
