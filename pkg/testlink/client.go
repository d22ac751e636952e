package testlink

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kolo/xmlrpc"
)

var (
	// ErrUnreachable means the TestLink server did not answer at all.
	ErrUnreachable = errors.New("testlink server is not reachable")
	// ErrBadAPIKey means the server answered but rejected the devKey.
	ErrBadAPIKey = errors.New("testlink server is reachable but the API key was rejected")
)

// XMLRPCClient talks to TestLink's XML-RPC API, sending the pre-shared
// devKey on every call.
type XMLRPCClient struct {
	rpc      *xmlrpc.Client
	apiKey   string
	loginURL string
	http     *http.Client
}

// NewClient creates a client for the given XML-RPC endpoint URL. loginURL is
// the plain login page, used to tell "server down" apart from "bad key".
func NewClient(endpoint, loginURL, apiKey string) (*XMLRPCClient, error) {
	rpc, err := xmlrpc.NewClient(endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	return &XMLRPCClient{
		rpc:      rpc,
		apiKey:   apiKey,
		loginURL: loginURL,
		http:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *XMLRPCClient) args(extra map[string]interface{}) map[string]interface{} {
	params := map[string]interface{}{"devKey": c.apiKey}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

func (c *XMLRPCClient) About() (string, error) {
	var about string
	if err := c.rpc.Call("tl.about", c.args(nil), &about); err != nil {
		return "", fmt.Errorf("tl.about failed: %w", err)
	}
	return about, nil
}

// CheckConnection verifies the API is usable, mirroring the original
// behavior: an about call, falling back to a login-page probe so the caller
// can distinguish a dead server from a rejected key.
func (c *XMLRPCClient) CheckConnection() error {
	if _, err := c.About(); err == nil {
		return nil
	}

	resp, probeErr := c.http.Get(c.loginURL)
	if probeErr != nil {
		return ErrUnreachable
	}
	_ = resp.Body.Close()
	if resp.StatusCode < 300 {
		return ErrBadAPIKey
	}
	return ErrUnreachable
}

func (c *XMLRPCClient) GetProjects() ([]Project, error) {
	var projects []Project
	if err := c.rpc.Call("tl.getProjects", c.args(nil), &projects); err != nil {
		return nil, fmt.Errorf("tl.getProjects failed: %w", err)
	}
	return projects, nil
}

func (c *XMLRPCClient) CreateTestProject(name, prefix string) (*OperationResult, error) {
	var results []OperationResult
	err := c.rpc.Call("tl.createTestProject", c.args(map[string]interface{}{
		"testprojectname": name,
		"testcaseprefix":  prefix,
	}), &results)
	if err != nil {
		return nil, fmt.Errorf("tl.createTestProject failed: %w", err)
	}
	return firstResult(results)
}

func (c *XMLRPCClient) GetFirstLevelTestSuites(projectID string) ([]TestSuite, error) {
	var suites []TestSuite
	err := c.rpc.Call("tl.getFirstLevelTestSuitesForTestProject", c.args(map[string]interface{}{
		"testprojectid": projectID,
	}), &suites)
	if err != nil {
		return nil, fmt.Errorf("tl.getFirstLevelTestSuitesForTestProject failed: %w", err)
	}
	return suites, nil
}

func (c *XMLRPCClient) GetTestCasesForTestSuite(suiteID string, deep bool) ([]TestCase, error) {
	var cases []TestCase
	err := c.rpc.Call("tl.getTestCasesForTestSuite", c.args(map[string]interface{}{
		"testsuiteid": suiteID,
		"deep":        deep,
	}), &cases)
	if err != nil {
		return nil, fmt.Errorf("tl.getTestCasesForTestSuite failed: %w", err)
	}
	return cases, nil
}

func (c *XMLRPCClient) CreateTestCase(name, suiteID, projectID, author, summary string) (*OperationResult, error) {
	var results []OperationResult
	err := c.rpc.Call("tl.createTestCase", c.args(map[string]interface{}{
		"testcasename":  name,
		"testsuiteid":   suiteID,
		"testprojectid": projectID,
		"authorlogin":   author,
		"summary":       summary,
	}), &results)
	if err != nil {
		return nil, fmt.Errorf("tl.createTestCase failed: %w", err)
	}
	return firstResult(results)
}

func (c *XMLRPCClient) CreateTestSuite(projectID, name, details string) (*OperationResult, error) {
	var results []OperationResult
	err := c.rpc.Call("tl.createTestSuite", c.args(map[string]interface{}{
		"testprojectid": projectID,
		"testsuitename": name,
		"details":       details,
	}), &results)
	if err != nil {
		return nil, fmt.Errorf("tl.createTestSuite failed: %w", err)
	}
	return firstResult(results)
}

// Close releases the underlying RPC connection.
func (c *XMLRPCClient) Close() error {
	return c.rpc.Close()
}

func firstResult(results []OperationResult) (*OperationResult, error) {
	if len(results) == 0 {
		return nil, errors.New("empty response from server")
	}
	return &results[0], nil
}
