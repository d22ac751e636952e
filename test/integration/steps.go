package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"

	"testlinkctl/pkg/provision"
)

const (
	appContainer = "testlink-web"
	schemaPath   = "/var/www/html/install/sql/mysql/testlink_create_tables.sql"
	dataPath     = "/var/www/html/install/sql/mysql/testlink_create_default_data.sql"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc *TestContext

	lastSeedImported bool
	response         *http.Response
	responseBody     map[string]interface{}
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Provisioning steps
	sc.Step(`^an empty TestLink database$`, s.anEmptyTestLinkDatabase)
	sc.Step(`^I seed the schema$`, s.iSeedTheSchema)
	sc.Step(`^the schema import should have run$`, s.theSchemaImportShouldHaveRun)
	sc.Step(`^the schema import should have been skipped$`, s.theSchemaImportShouldHaveBeenSkipped)
	sc.Step(`^the "([^"]*)" table should exist$`, s.theTableShouldExist)
	sc.Step(`^I seed the admin account with API key "([^"]*)"$`, s.iSeedTheAdminAccount)
	sc.Step(`^the admin user should have API key "([^"]*)"$`, s.theAdminUserShouldHaveAPIKey)
	sc.Step(`^the admin user should have role (\d+)$`, s.theAdminUserShouldHaveRole)
	sc.Step(`^there should be (\d+) user named "([^"]*)"$`, s.thereShouldBeNUsersNamed)

	// Facade steps
	sc.Step(`^the prompt facade is running in demo mode$`, s.thePromptFacadeIsRunning)
	sc.Step(`^I send the prompt "([^"]*)"$`, s.iSendThePrompt)
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the action taken should be "([^"]*)"$`, s.theActionTakenShouldBe)
	sc.Step(`^the response should be successful$`, s.theResponseShouldBeSuccessful)
	sc.Step(`^the response should not be successful$`, s.theResponseShouldNotBeSuccessful)
	sc.Step(`^I request the health endpoint$`, s.iRequestTheHealthEndpoint)
	sc.Step(`^the reported status should be "([^"]*)"$`, s.theReportedStatusShouldBe)
}

// Provisioning steps

func (s *StepsContext) anEmptyTestLinkDatabase() error {
	// Drop everything the seeder may have created in a previous scenario.
	for _, table := range []string{"users", "roles"} {
		if err := s.tc.DB.Exec("DROP TABLE IF EXISTS " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *StepsContext) schemaSeeder() *provision.SchemaSeeder {
	return &provision.SchemaSeeder{
		DB:           s.tc.DB,
		Runtime:      s.tc.Runtime,
		AppContainer: appContainer,
		SchemaFile:   schemaPath,
		DataFile:     dataPath,
		Database:     s.tc.DBName,
		Table:        "users",
	}
}

func (s *StepsContext) iSeedTheSchema() error {
	imported, err := s.schemaSeeder().Seed(context.Background())
	if err != nil {
		return err
	}
	s.lastSeedImported = imported
	return nil
}

func (s *StepsContext) theSchemaImportShouldHaveRun() error {
	if !s.lastSeedImported {
		return fmt.Errorf("expected the schema import to run, but it was skipped")
	}
	return nil
}

func (s *StepsContext) theSchemaImportShouldHaveBeenSkipped() error {
	if s.lastSeedImported {
		return fmt.Errorf("expected the schema import to be skipped, but it ran")
	}
	return nil
}

func (s *StepsContext) theTableShouldExist(table string) error {
	var count int64
	err := s.tc.DB.Raw(
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = ? AND table_name = ?",
		s.tc.DBName, table,
	).Scan(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("table %q does not exist", table)
	}
	return nil
}

func (s *StepsContext) iSeedTheAdminAccount(apiKey string) error {
	seeder := &provision.AccountSeeder{
		DB:        s.tc.DB,
		Table:     "users",
		Login:     "admin",
		Password:  "admin",
		Email:     "admin@example.com",
		FirstName: "Testlink",
		LastName:  "Administrator",
		Locale:    "en_GB",
		APIKey:    apiKey,
	}
	return seeder.Seed(context.Background())
}

func (s *StepsContext) theAdminUserShouldHaveAPIKey(apiKey string) error {
	var scriptKey string
	err := s.tc.DB.Raw("SELECT script_key FROM users WHERE login = ?", "admin").
		Scan(&scriptKey).Error
	if err != nil {
		return err
	}
	if scriptKey != apiKey {
		return fmt.Errorf("expected API key %q, got %q", apiKey, scriptKey)
	}
	return nil
}

func (s *StepsContext) theAdminUserShouldHaveRole(roleID int) error {
	var got int
	err := s.tc.DB.Raw("SELECT role_id FROM users WHERE login = ?", "admin").
		Scan(&got).Error
	if err != nil {
		return err
	}
	if got != roleID {
		return fmt.Errorf("expected role %d, got %d", roleID, got)
	}
	return nil
}

func (s *StepsContext) thereShouldBeNUsersNamed(n int, login string) error {
	var count int64
	err := s.tc.DB.Raw("SELECT COUNT(*) FROM users WHERE login = ?", login).
		Scan(&count).Error
	if err != nil {
		return err
	}
	if count != int64(n) {
		return fmt.Errorf("expected %d users named %q, found %d", n, login, count)
	}
	return nil
}

// Facade steps

func (s *StepsContext) thePromptFacadeIsRunning() error {
	// Started by TestContext.
	return nil
}

func (s *StepsContext) iSendThePrompt(prompt string) error {
	payload, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return err
	}

	resp, err := http.Post(s.tc.FacadeURL+"/testlink/prompt", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody = map[string]interface{}{}
	return json.NewDecoder(resp.Body).Decode(&s.responseBody)
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d", status, s.response.StatusCode)
	}
	return nil
}

func (s *StepsContext) theActionTakenShouldBe(action string) error {
	got, _ := s.responseBody["action_taken"].(string)
	if got != action {
		return fmt.Errorf("expected action %q, got %q", action, got)
	}
	return nil
}

func (s *StepsContext) theResponseShouldBeSuccessful() error {
	if success, _ := s.responseBody["success"].(bool); !success {
		return fmt.Errorf("expected success, got failure: %v", s.responseBody["message"])
	}
	return nil
}

func (s *StepsContext) theResponseShouldNotBeSuccessful() error {
	if success, _ := s.responseBody["success"].(bool); success {
		return fmt.Errorf("expected failure, got success")
	}
	return nil
}

func (s *StepsContext) iRequestTheHealthEndpoint() error {
	resp, err := http.Get(s.tc.FacadeURL + "/testlink/health")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody = map[string]interface{}{}
	return json.NewDecoder(resp.Body).Decode(&s.responseBody)
}

func (s *StepsContext) theReportedStatusShouldBe(status string) error {
	got, _ := s.responseBody["status"].(string)
	if got != status {
		return fmt.Errorf("expected status %q, got %q", status, got)
	}
	return nil
}
