package dispatch

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testlinkctl/pkg/testlink"
)

func TestMatch(t *testing.T) {
	testCases := []struct {
		prompt string
		want   Action
	}{
		{"create project Billing", ActionCreateProject},
		{"crear proyecto Facturación", ActionCreateProject},
		{"list projects", ActionListProjects},
		{"listar proyectos", ActionListProjects},
		{"create test case Login works", ActionCreateTestCase},
		{"list test cases", ActionListTestCases},
		{"create suite Regression", ActionCreateTestSuite},
		{"update test case 42", ActionUpdateTestCase},
		{"delete test case 42", ActionDeleteTestCase},
		{"delete project Billing", ActionDeleteProject},
		{"what tests exist about login?", ActionSearchTests},
		{"¿qué pruebas hay de autenticación?", ActionSearchTests},
		{"search for payment tests", ActionSearchTests},
		{"make me a sandwich", ActionUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.prompt, func(t *testing.T) {
			assert.Equal(t, tc.want, Match(tc.prompt))
		})
	}
}

func TestMatch_SearchWinsOverOtherPatterns(t *testing.T) {
	// "pruebas" is a search trigger, so the Spanish list-cases phrasing
	// routes to search rather than to the listing action.
	assert.Equal(t, ActionSearchTests, Match("listar casos de prueba existentes"))
}

func TestExtractSearchTerms(t *testing.T) {
	terms := ExtractSearchTerms("what tests exist about login and payments?")
	assert.ElementsMatch(t, []string{"about", "exist", "login", "payments"}, terms)

	terms = ExtractSearchTerms(`search for "password reset" flows`)
	assert.Contains(t, terms, "password reset")
	assert.Contains(t, terms, "flows")

	// Stop words and short words are dropped in both languages.
	terms = ExtractSearchTerms("¿qué pruebas hay de la UI?")
	assert.NotContains(t, terms, "pruebas")
	assert.NotContains(t, terms, "ui")
}

func TestExtractSearchTerms_Deduplicates(t *testing.T) {
	terms := ExtractSearchTerms("login login LOGIN")
	assert.Equal(t, []string{"login"}, terms)
}

func newDemoDispatcher() *Dispatcher {
	return &Dispatcher{Client: testlink.NewDemoClient(), Author: "admin"}
}

func TestDispatcher_ListProjects(t *testing.T) {
	res := newDemoDispatcher().Process("list projects")
	require.True(t, res.Success)
	assert.Equal(t, ActionListProjects, res.Action)
	assert.Contains(t, res.Message, "1 projects")
}

func TestDispatcher_CreateProject(t *testing.T) {
	d := newDemoDispatcher()
	res := d.Process("create project Payment Gateway Service")
	require.True(t, res.Success, res.Message)
	assert.Contains(t, res.Message, `"Payment Gateway Service"`)

	projects, err := d.Client.GetProjects()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Payment Gateway Service", projects[1].Name)
	assert.Equal(t, "PGS", projects[1].Prefix)
}

func TestNameAfter_CaseInsensitive(t *testing.T) {
	assert.Equal(t, "Billing", nameAfter("CREATE PROJECT Billing", "create project"))
	assert.Equal(t, "Facturación", nameAfter("Crear Proyecto Facturación", "crear proyecto"))
}

func TestNameAfter_LengthChangingLowercase(t *testing.T) {
	// "Ⱥ" (2 bytes) lowercases to "ⱥ" (3 bytes), so a lowercased copy of the
	// prompt is longer than the original. Extraction must still work and
	// must not panic.
	prompt := strings.Repeat("Ⱥ", 20) + " create project Billing"
	assert.Equal(t, "Billing", nameAfter(prompt, "crear proyecto", "create project"))

	res := newDemoDispatcher().Process(prompt)
	require.True(t, res.Success, res.Message)
	assert.Contains(t, res.Message, `"Billing"`)
}

func TestProjectPrefix_MultibyteInitials(t *testing.T) {
	prefix := projectPrefix("Ñandú Ártico Tests")
	assert.Equal(t, "ÑÁT", prefix)
	assert.True(t, utf8.ValidString(prefix))
}

func TestTruncate_CountsRunesNotBytes(t *testing.T) {
	long := strings.Repeat("á", 150)
	got := truncate(long, 100)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("á", 100)+"...", got)

	assert.Equal(t, "short", truncate("short", 100))
}

func TestDispatcher_CreateProject_MissingName(t *testing.T) {
	res := newDemoDispatcher().Process("create project")
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "project name")
}

func TestDispatcher_CreateTestCase(t *testing.T) {
	d := newDemoDispatcher()
	res := d.Process("create test case Verify session timeout")
	require.True(t, res.Success, res.Message)
	assert.Equal(t, ActionCreateTestCase, res.Action)

	cases, err := d.Client.GetTestCasesForTestSuite("10", true)
	require.NoError(t, err)
	require.Len(t, cases, 3)
	assert.Equal(t, "Verify session timeout", cases[2].Name)
}

func TestDispatcher_CreateTestSuite(t *testing.T) {
	d := newDemoDispatcher()
	res := d.Process("create suite Regression")
	require.True(t, res.Success, res.Message)

	suites, err := d.Client.GetFirstLevelTestSuites("1")
	require.NoError(t, err)
	require.Len(t, suites, 2)
	assert.Equal(t, "Regression", suites[1].Name)
}

func TestDispatcher_ListTestCases(t *testing.T) {
	res := newDemoDispatcher().Process("list test cases")
	require.True(t, res.Success)

	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 2, data["total_count"])
}

func TestDispatcher_Search(t *testing.T) {
	res := newDemoDispatcher().Process("find authentication login tests")
	require.True(t, res.Success)
	assert.Equal(t, ActionSearchTests, res.Action)

	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	matches, ok := data["results"].([]SearchMatch)
	require.True(t, ok)
	require.Len(t, matches, 2)
	assert.Equal(t, "test_suite", matches[0].Type)
	assert.Equal(t, "Authentication Tests", matches[0].Name)
	assert.Equal(t, "test_case", matches[1].Type)
	assert.Equal(t, "Test Login Functionality", matches[1].Name)
}

func TestDispatcher_Search_AuthAbbreviation(t *testing.T) {
	res := newDemoDispatcher().Process("search auth")
	require.True(t, res.Success)

	data := res.Data.(map[string]interface{})
	matches := data["results"].([]SearchMatch)
	require.NotEmpty(t, matches)
	assert.Equal(t, "test_suite", matches[0].Type)
	assert.Equal(t, "Authentication Tests", matches[0].Name)
}

func TestDispatcher_Search_NoResults(t *testing.T) {
	res := newDemoDispatcher().Process("search kubernetes")
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "No elements found")

	data := res.Data.(map[string]interface{})
	assert.Equal(t, 0, data["total_found"])
}

func TestDispatcher_RefusesDestructiveActions(t *testing.T) {
	d := newDemoDispatcher()

	for _, prompt := range []string{
		"delete test case 42",
		"delete project Billing",
		"update test case 42",
	} {
		res := d.Process(prompt)
		assert.False(t, res.Success, prompt)
	}

	// Nothing was touched.
	projects, err := d.Client.GetProjects()
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestDispatcher_Unknown(t *testing.T) {
	res := newDemoDispatcher().Process("make me a sandwich")
	assert.False(t, res.Success)
	assert.Equal(t, ActionUnknown, res.Action)

	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["suggestions"])
}

type failingClient struct {
	testlink.Client
}

func (f failingClient) GetProjects() ([]testlink.Project, error) {
	return nil, errors.New("connection refused")
}

func TestDispatcher_ClientErrorSurfacesInMessage(t *testing.T) {
	d := &Dispatcher{Client: failingClient{}}
	res := d.Process("list projects")
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "connection refused")
}
