// Package testkit_test drives testkit against a tiny handler so the runner,
// the mock transport and the assertions are exercised end to end.
package testkit_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	estoquehttp "github.com/shashiranjanraj/estoque/pkg/http"
	"github.com/shashiranjanraj/estoque/pkg/testkit"
)

// testHandler answers /health and proxies /seed through pkg/http, so the
// mock transport installed by the runner is what answers.
var testHandler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/health":
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	case "/seed":
		resp, err := estoquehttp.Get("https://appassets.androidplatform.net/assets/dados_apresentacao.sqlite").
			WithContext(r.Context()).
			Send()
		if err != nil || resp.Throw() != nil || !bytes.HasPrefix(resp.Raw, []byte("SQLite format 3")) {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`)) //nolint:errcheck
	}
})

func TestRunDir(t *testing.T) {
	testkit.RunDir(t, testHandler, "fixtures")
}

func TestLoadScenario(t *testing.T) {
	s, err := testkit.LoadScenario("fixtures/seed_download.json")
	require.NoError(t, err)

	var dump bytes.Buffer
	testkit.DumpScenario(&dump, s)
	assert.Contains(t, dump.String(), "GET /seed")

	assert.Equal(t, 200, s.ExpectedCode)
	assert.True(t, s.IsMockRequired)
	require.Len(t, s.NetUtilMockStep, 1)
	step := s.NetUtilMockStep[0]
	assert.Equal(t, "httprequest", step.Method)
	assert.Equal(t, "application/x-sqlite3", step.ReturnData.ContentType)
	assert.Equal(t, "", s.RequestBodyPath())
}

func TestLoadScenarioRejectsMissingFields(t *testing.T) {
	_, err := testkit.LoadScenario("fixtures/health_check_res.json")
	assert.Error(t, err)
}

func TestLoadAllFromDirSkipsBodies(t *testing.T) {
	scenarios, errs := testkit.LoadAllFromDir("fixtures")
	assert.Empty(t, errs)
	assert.Len(t, scenarios, 2)
}

func TestMockTransport_URLMatching(t *testing.T) {
	s := &testkit.Scenario{
		Name:           "mock transport test",
		IsMockRequired: true,
		ExpectedCode:   200,
		RequestURL:     "/anything",
		NetUtilMockStep: []testkit.MockStep{
			{
				Method:   "httprequest",
				IsMock:   true,
				MatchURL: "https://seed.example.com/",
				ReturnData: testkit.MockReturnData{
					StatusCode: 200,
					// base64(`{"ok":true}`)
					Body: "eyJvayI6dHJ1ZX0=",
				},
			},
		},
	}

	mt := testkit.NewMockTransport(s)
	assert.Len(t, mt.AssertAllCalled(), 1)

	req := httptest.NewRequest(http.MethodGet, "https://seed.example.com/dados.sqlite", nil)
	resp, err := mt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Empty(t, mt.AssertAllCalled())
}

func TestMockTransport_UnmatchedCallFails(t *testing.T) {
	s := &testkit.Scenario{
		Name:           "unmatched mock",
		IsMockRequired: true,
		NetUtilMockStep: []testkit.MockStep{
			{Method: "httprequest", IsMock: true, MatchURL: "https://expected.com/"},
		},
	}

	mt := testkit.NewMockTransport(s)
	_, err := mt.RoundTrip(httptest.NewRequest(http.MethodGet, "https://unexpected.com/api", nil))
	assert.Error(t, err, "should fail on unmatched URL when isMockRequired=true")
}

func TestAssertJSONBody(t *testing.T) {
	s := &testkit.Scenario{Name: "json assert test", ExpectedCode: 200}

	// key order and whitespace do not matter
	expected := []byte(`{"name":"Mouse","quantity":3}`)
	actual := []byte(`{"quantity":  3, "name": "Mouse"}`)
	testkit.AssertJSONBody(t, s, expected, actual)
}
