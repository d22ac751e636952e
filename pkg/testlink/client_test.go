package testlink

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectsResponse = `<?xml version="1.0"?>
<methodResponse>
  <params>
    <param>
      <value>
        <array>
          <data>
            <value>
              <struct>
                <member><name>id</name><value><string>1</string></value></member>
                <member><name>name</name><value><string>DEMO PROJECT</string></value></member>
                <member><name>prefix</name><value><string>DEMO</string></value></member>
                <member><name>active</name><value><string>1</string></value></member>
                <member><name>notes</name><value><string>notes here</string></value></member>
              </struct>
            </value>
          </data>
        </array>
      </value>
    </param>
  </params>
</methodResponse>`

const aboutResponse = `<?xml version="1.0"?>
<methodResponse>
  <params>
    <param>
      <value><string>Testlink API Version: 1.0</string></value>
    </param>
  </params>
</methodResponse>`

func newTestServer(t *testing.T, response string, lastBody *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if lastBody != nil {
			*lastBody = string(body)
		}
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestXMLRPCClient_GetProjects(t *testing.T) {
	var body string
	srv := newTestServer(t, projectsResponse, &body)

	c, err := NewClient(srv.URL, srv.URL+"/login.php", "0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	projects, err := c.GetProjects()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "1", projects[0].ID)
	assert.Equal(t, "DEMO PROJECT", projects[0].Name)
	assert.Equal(t, "DEMO", projects[0].Prefix)

	assert.Contains(t, body, "tl.getProjects")
	assert.Contains(t, body, "devKey")
	assert.Contains(t, body, "0123456789abcdef0123456789abcdef")
}

func TestXMLRPCClient_About(t *testing.T) {
	srv := newTestServer(t, aboutResponse, nil)

	c, err := NewClient(srv.URL, srv.URL+"/login.php", "key")
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	about, err := c.About()
	require.NoError(t, err)
	assert.Contains(t, about, "Testlink API Version")
}

func TestXMLRPCClient_CheckConnection_BadKey(t *testing.T) {
	// XML-RPC endpoint errors, but the login page answers: key problem.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login.php" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/xmlrpc.php", srv.URL+"/login.php", "bad-key")
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.ErrorIs(t, c.CheckConnection(), ErrBadAPIKey)
}

func TestXMLRPCClient_CheckConnection_Unreachable(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1/xmlrpc.php", "http://127.0.0.1:1/login.php", "key")
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.ErrorIs(t, c.CheckConnection(), ErrUnreachable)
}

func TestDemoClient(t *testing.T) {
	d := NewDemoClient()

	projects, err := d.GetProjects()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "DEMO PROJECT", projects[0].Name)

	suites, err := d.GetFirstLevelTestSuites("1")
	require.NoError(t, err)
	require.Len(t, suites, 1)

	cases, err := d.GetTestCasesForTestSuite(suites[0].ID, true)
	require.NoError(t, err)
	assert.Len(t, cases, 2)

	res, err := d.CreateTestProject("New Project", "NP")
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)

	projects, err = d.GetProjects()
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}
