package reddit

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commentTree = `[
{"kind":"Listing","data":{"children":[{"kind":"t3","data":{"id":"p1","title":"Airflow or Dagster?"}}]}},
{"kind":"Listing","data":{"children":[
	{"kind":"t1","data":{"body":"We moved to Dagster.","replies":{"kind":"Listing","data":{"children":[
		{"kind":"t1","data":{"body":"Following","replies":{"kind":"Listing","data":{"children":[
			{"kind":"t1","data":{"body":"Same here, no regrets.","replies":""}}
		]}}}},
		{"kind":"t1","data":{"body":"How long did it take?","replies":""}}
	]}}}},
	{"kind":"t1","data":{"body":"Your post was removed. I am a bot, and this action was performed automatically.","replies":{"kind":"Listing","data":{"children":[
		{"kind":"t1","data":{"body":"hidden reply","replies":""}}
	]}}}},
	{"kind":"t1","data":{"body":"[deleted]","replies":""}},
	{"kind":"t1","data":{"body":"+1","replies":""}},
	{"kind":"t1","data":{"body":"Airflow 2 is fine.","replies":""}},
	{"kind":"more","data":{"count":12,"children":["c9","c10"]}}
]}}
]`

func TestClient_Comments(t *testing.T) {
	var gotSort string
	f := newFakeReddit(t, map[string]http.HandlerFunc{
		"/comments/p1": func(w http.ResponseWriter, r *http.Request) {
			gotSort = r.URL.Query().Get("sort")
			writeJSON(commentTree)(w, r)
		},
	})

	got, err := f.client().Comments(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "best", gotSort)
	assert.Equal(t, "We moved to Dagster.\nSame here, no regrets.\nHow long did it take?\nAirflow 2 is fine.", got)
}

func TestClient_Comments_Empty(t *testing.T) {
	f := newFakeReddit(t, map[string]http.HandlerFunc{
		"/comments/p1": writeJSON(`[{"kind":"Listing","data":{"children":[]}},{"kind":"Listing","data":{"children":[]}}]`),
	})

	got, err := f.client().Comments(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_Comments_MalformedResponse(t *testing.T) {
	f := newFakeReddit(t, map[string]http.HandlerFunc{
		"/comments/p1": writeJSON(`[{"kind":"Listing","data":{"children":[]}}]`),
	})

	_, err := f.client().Comments(context.Background(), "p1")
	assert.ErrorContains(t, err, "expected 2 listings, got 1")
}

func TestCollectComments_DiscardIsCaseInsensitive(t *testing.T) {
	children := []thing{
		{Kind: "t1", Data: []byte(`{"body":"FOLLOWING!","replies":""}`)},
		{Kind: "t1", Data: []byte(`{"body":"Deleted","replies":""}`)},
		{Kind: "t1", Data: []byte(`{"body":"kept","replies":""}`)},
	}

	got, err := collectComments(children, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, got)
}
