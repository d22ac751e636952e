package testlink

// Project is a TestLink test project. TestLink's API returns all scalar
// values as strings, IDs included.
type Project struct {
	ID     string `xmlrpc:"id" json:"id"`
	Name   string `xmlrpc:"name" json:"name"`
	Prefix string `xmlrpc:"prefix" json:"prefix"`
	Active string `xmlrpc:"active" json:"active"`
	Notes  string `xmlrpc:"notes" json:"notes"`
}

// TestSuite is a container of test cases inside a project.
type TestSuite struct {
	ID   string `xmlrpc:"id" json:"id"`
	Name string `xmlrpc:"name" json:"name"`
}

// TestCase is a single test case.
type TestCase struct {
	ID      string `xmlrpc:"id" json:"id"`
	Name    string `xmlrpc:"name" json:"name"`
	Summary string `xmlrpc:"summary" json:"summary"`
}

// OperationResult is what TestLink's create operations return.
type OperationResult struct {
	ID      string `xmlrpc:"id" json:"id"`
	Message string `xmlrpc:"message" json:"message"`
}

// Client is the subset of the TestLink remote API the facade uses.
type Client interface {
	// About returns the server's version banner; used as a connection check.
	About() (string, error)
	GetProjects() ([]Project, error)
	CreateTestProject(name, prefix string) (*OperationResult, error)
	GetFirstLevelTestSuites(projectID string) ([]TestSuite, error)
	GetTestCasesForTestSuite(suiteID string, deep bool) ([]TestCase, error)
	CreateTestCase(name, suiteID, projectID, author, summary string) (*OperationResult, error)
	CreateTestSuite(projectID, name, details string) (*OperationResult, error)
}
