package testlink

import "strconv"

// DemoClient implements Client with canned data so the facade can be
// exercised without a running TestLink instance.
type DemoClient struct {
	projects []Project
	suites   map[string][]TestSuite
	cases    map[string][]TestCase
	nextID   int
}

// NewDemoClient returns a demo client pre-loaded with a demonstration
// project and a pair of authentication test cases.
func NewDemoClient() *DemoClient {
	return &DemoClient{
		projects: []Project{
			{ID: "1", Name: "DEMO PROJECT", Prefix: "DEMO", Active: "1", Notes: "Demonstration project"},
		},
		suites: map[string][]TestSuite{
			"1": {{ID: "10", Name: "Authentication Tests"}},
		},
		cases: map[string][]TestCase{
			"10": {
				{ID: "1", Name: "Test Login Functionality", Summary: "Verify that a user can log in successfully"},
				{ID: "2", Name: "Test Password Reset", Summary: "Verify that a user can reset their password"},
			},
		},
		nextID: 2,
	}
}

func (d *DemoClient) About() (string, error) {
	return "TestLink API (demo mode)", nil
}

func (d *DemoClient) GetProjects() ([]Project, error) {
	return d.projects, nil
}

func (d *DemoClient) CreateTestProject(name, prefix string) (*OperationResult, error) {
	d.nextID++
	id := strconv.Itoa(d.nextID)
	d.projects = append(d.projects, Project{ID: id, Name: name, Prefix: prefix, Active: "1"})
	return &OperationResult{ID: id, Message: "Success!"}, nil
}

func (d *DemoClient) GetFirstLevelTestSuites(projectID string) ([]TestSuite, error) {
	return d.suites[projectID], nil
}

func (d *DemoClient) GetTestCasesForTestSuite(suiteID string, deep bool) ([]TestCase, error) {
	return d.cases[suiteID], nil
}

func (d *DemoClient) CreateTestCase(name, suiteID, projectID, author, summary string) (*OperationResult, error) {
	d.nextID++
	id := strconv.Itoa(d.nextID)
	d.cases[suiteID] = append(d.cases[suiteID], TestCase{ID: id, Name: name, Summary: summary})
	return &OperationResult{ID: id, Message: "Success!"}, nil
}

func (d *DemoClient) CreateTestSuite(projectID, name, details string) (*OperationResult, error) {
	d.nextID++
	id := strconv.Itoa(d.nextID)
	d.suites[projectID] = append(d.suites[projectID], TestSuite{ID: id, Name: name})
	return &OperationResult{ID: id, Message: "Success!"}, nil
}
