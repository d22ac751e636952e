package dispatch

import (
	"fmt"
	"regexp"
	"strings"

	"testlinkctl/pkg/testlink"
)

// Action identifies the operation a prompt was matched to.
type Action string

const (
	ActionListProjects    Action = "list_projects"
	ActionSearchTests     Action = "search_tests"
	ActionCreateProject   Action = "create_project"
	ActionCreateTestCase  Action = "create_test_case"
	ActionListTestCases   Action = "list_test_cases"
	ActionCreateTestSuite Action = "create_test_suite"
	ActionUpdateTestCase  Action = "update_test_case"
	ActionDeleteTestCase  Action = "delete_test_case"
	ActionDeleteProject   Action = "delete_project"
	ActionUnknown         Action = "unknown"
)

// Result is the outcome of dispatching one prompt.
type Result struct {
	Action  Action      `json:"action"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Suggestions lists the recognized phrase patterns, shown when no pattern
// matches.
var Suggestions = []string{
	"create project [name]",
	"list projects",
	"create test case [name]",
	"list test cases",
	"create suite [name]",
	"search for tests about [topic]",
	"what tests exist about [topic]?",
}

// searchWords trigger the search action; checked before everything else so
// questions like "what tests exist about login?" don't fall through to the
// create/list patterns.
var searchWords = []string{
	"qué", "cuáles", "buscar", "encontrar", "pruebas", "casos",
	"what", "which", "search", "find", "hay", "existe", "existen",
}

// Match determines which action a prompt maps to. Matching is fixed-pattern
// substring search over the lowercased prompt, Spanish and English.
func Match(prompt string) Action {
	lower := strings.ToLower(prompt)

	for _, w := range searchWords {
		if strings.Contains(lower, w) {
			return ActionSearchTests
		}
	}

	switch {
	case containsAny(lower, "crear proyecto", "create project"):
		return ActionCreateProject
	case containsAny(lower, "listar proyectos", "list projects"):
		return ActionListProjects
	case containsAny(lower, "crear caso", "create test case"):
		return ActionCreateTestCase
	case containsAny(lower, "listar casos", "list test cases"):
		return ActionListTestCases
	case containsAny(lower, "actualizar caso", "update test case"):
		return ActionUpdateTestCase
	case containsAny(lower, "eliminar caso", "delete test case"):
		return ActionDeleteTestCase
	case containsAny(lower, "crear suite", "create test suite", "create suite"):
		return ActionCreateTestSuite
	case containsAny(lower, "eliminar proyecto", "delete project"):
		return ActionDeleteProject
	default:
		return ActionUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Dispatcher translates a matched prompt into exactly one TestLink call
// path. No retries, no batching.
type Dispatcher struct {
	Client testlink.Client

	// Author is the login recorded on created test cases.
	Author string
}

func (d *Dispatcher) author() string {
	if d.Author == "" {
		return "admin"
	}
	return d.Author
}

// Process matches the prompt and executes the corresponding action.
func (d *Dispatcher) Process(prompt string) Result {
	switch action := Match(prompt); action {
	case ActionSearchTests:
		return d.searchTests(prompt)
	case ActionCreateProject:
		return d.createProject(prompt)
	case ActionListProjects:
		return d.listProjects()
	case ActionCreateTestCase:
		return d.createTestCase(prompt)
	case ActionListTestCases:
		return d.listTestCases()
	case ActionCreateTestSuite:
		return d.createTestSuite(prompt)
	case ActionUpdateTestCase:
		return Result{Action: action, Success: false,
			Message: "Updating test cases through prompts is disabled; use the TestLink web interface"}
	case ActionDeleteTestCase:
		return Result{Action: action, Success: false,
			Message: "Test case deletion is disabled for safety"}
	case ActionDeleteProject:
		return Result{Action: action, Success: false,
			Message: "Project deletion is disabled for safety"}
	default:
		return Result{
			Action:  ActionUnknown,
			Success: false,
			Message: "Could not determine which action to take",
			Data:    map[string]interface{}{"suggestions": Suggestions},
		}
	}
}

func (d *Dispatcher) listProjects() Result {
	projects, err := d.Client.GetProjects()
	if err != nil {
		return Result{Action: ActionListProjects, Success: false,
			Message: fmt.Sprintf("Error listing projects: %v", err)}
	}
	return Result{
		Action:  ActionListProjects,
		Success: true,
		Message: fmt.Sprintf("Found %d projects", len(projects)),
		Data:    projects,
	}
}

func (d *Dispatcher) createProject(prompt string) Result {
	name := nameAfter(prompt, "crear proyecto", "create project")
	if name == "" {
		return Result{Action: ActionCreateProject, Success: false,
			Message: "Could not extract a project name from the prompt"}
	}

	res, err := d.Client.CreateTestProject(name, projectPrefix(name))
	if err != nil {
		return Result{Action: ActionCreateProject, Success: false,
			Message: fmt.Sprintf("Error creating project: %v", err)}
	}
	return Result{
		Action:  ActionCreateProject,
		Success: true,
		Message: fmt.Sprintf("Project %q created successfully", name),
		Data:    res,
	}
}

func (d *Dispatcher) createTestCase(prompt string) Result {
	name := nameAfter(prompt, "crear caso de prueba", "create test case", "crear caso")
	if name == "" {
		return Result{Action: ActionCreateTestCase, Success: false,
			Message: "Could not extract a test case name from the prompt"}
	}

	projects, err := d.Client.GetProjects()
	if err != nil {
		return Result{Action: ActionCreateTestCase, Success: false,
			Message: fmt.Sprintf("Error creating test case: %v", err)}
	}
	if len(projects) == 0 {
		return Result{Action: ActionCreateTestCase, Success: false,
			Message: "No projects available. Create a project first."}
	}

	projectID := projects[0].ID
	suites, err := d.Client.GetFirstLevelTestSuites(projectID)
	if err != nil {
		return Result{Action: ActionCreateTestCase, Success: false,
			Message: fmt.Sprintf("Error creating test case: %v", err)}
	}
	if len(suites) == 0 {
		return Result{Action: ActionCreateTestCase, Success: false,
			Message: "No test suites available. Create a suite first."}
	}

	res, err := d.Client.CreateTestCase(name, suites[0].ID, projectID, d.author(),
		fmt.Sprintf("Test case: %s", name))
	if err != nil {
		return Result{Action: ActionCreateTestCase, Success: false,
			Message: fmt.Sprintf("Error creating test case: %v", err)}
	}
	return Result{
		Action:  ActionCreateTestCase,
		Success: true,
		Message: fmt.Sprintf("Test case %q created successfully", name),
		Data:    res,
	}
}

func (d *Dispatcher) listTestCases() Result {
	projects, err := d.Client.GetProjects()
	if err != nil {
		return Result{Action: ActionListTestCases, Success: false,
			Message: fmt.Sprintf("Error listing test cases: %v", err)}
	}

	type caseEntry struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Summary string `json:"summary"`
		Project string `json:"project"`
		Suite   string `json:"suite"`
	}
	allCases := []caseEntry{}

	for _, project := range projects {
		suites, err := d.Client.GetFirstLevelTestSuites(project.ID)
		if err != nil {
			continue
		}
		for _, suite := range suites {
			cases, err := d.Client.GetTestCasesForTestSuite(suite.ID, true)
			if err != nil {
				continue
			}
			for _, tc := range cases {
				allCases = append(allCases, caseEntry{
					ID:      tc.ID,
					Name:    tc.Name,
					Summary: truncate(tc.Summary, 100),
					Project: project.Name,
					Suite:   suite.Name,
				})
			}
		}
	}

	return Result{
		Action:  ActionListTestCases,
		Success: true,
		Message: fmt.Sprintf("Found %d test cases in total", len(allCases)),
		Data: map[string]interface{}{
			"cases":       allCases,
			"total_count": len(allCases),
		},
	}
}

func (d *Dispatcher) createTestSuite(prompt string) Result {
	name := nameAfter(prompt, "crear suite", "create test suite", "create suite")
	if name == "" {
		return Result{Action: ActionCreateTestSuite, Success: false,
			Message: "Could not extract a suite name from the prompt"}
	}

	projects, err := d.Client.GetProjects()
	if err != nil {
		return Result{Action: ActionCreateTestSuite, Success: false,
			Message: fmt.Sprintf("Error creating suite: %v", err)}
	}
	if len(projects) == 0 {
		return Result{Action: ActionCreateTestSuite, Success: false,
			Message: "No projects available to hold the suite"}
	}

	res, err := d.Client.CreateTestSuite(projects[0].ID, name, "Suite created via API")
	if err != nil {
		return Result{Action: ActionCreateTestSuite, Success: false,
			Message: fmt.Sprintf("Error creating suite: %v", err)}
	}
	return Result{
		Action:  ActionCreateTestSuite,
		Success: true,
		Message: fmt.Sprintf("Suite %q created successfully", name),
		Data:    res,
	}
}

// nameAfter returns the remainder of the prompt after the first matching
// phrase, preserving the original casing. The search is case-insensitive on
// the prompt itself; indexes from a lowercased copy cannot be used because
// lowercasing may change the byte length.
func nameAfter(prompt string, phrases ...string) string {
	for _, phrase := range phrases {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(phrase))
		if loc := re.FindStringIndex(prompt); loc != nil {
			return strings.TrimSpace(prompt[loc[1]:])
		}
	}
	return ""
}

// projectPrefix builds a test case prefix from the initials of up to three
// words of the project name.
func projectPrefix(name string) string {
	var prefix strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 3 {
			break
		}
		first := []rune(word)[0]
		prefix.WriteString(strings.ToUpper(string(first)))
	}
	return prefix.String()
}

// truncate shortens s to at most max characters, not bytes, so multibyte
// text is never cut mid-rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
