package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/wait"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"testlinkctl/pkg/config"
	"testlinkctl/pkg/server"
	"testlinkctl/pkg/server/endpoints"
	"testlinkctl/pkg/testlink"
)

// installer SQL served by the stub runtime. A trimmed-down version of what
// the TestLink image ships; enough to exercise the full seeding path against
// a real MySQL server.
const (
	schemaSQL = `-- TestLink schema (trimmed)
CREATE TABLE /*prefix*/users (
  id int(10) unsigned NOT NULL auto_increment,
  login varchar(100) NOT NULL default '',
  password varchar(32) NOT NULL default '',
  role_id smallint(5) unsigned NOT NULL default '0',
  email varchar(100) NOT NULL default '',
  first varchar(50) NOT NULL default '',
  last varchar(50) NOT NULL default '',
  locale varchar(10) NOT NULL default 'en_GB',
  default_testproject_id int(10) default NULL,
  active tinyint(1) NOT NULL default '1',
  script_key varchar(32) default NULL,
  auth_method varchar(10) default '',
  PRIMARY KEY (id),
  UNIQUE KEY idx_users_login (login)
) ENGINE=InnoDB DEFAULT CHARSET=utf8;

CREATE TABLE /*prefix*/roles (
  id int(10) unsigned NOT NULL auto_increment,
  description varchar(100) NOT NULL default '',
  PRIMARY KEY (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8;
`

	defaultDataSQL = `# Default data (trimmed)
INSERT INTO /*prefix*/roles (id, description) VALUES (8, 'admin');
INSERT INTO /*prefix*/roles (id, description) VALUES (4, 'senior tester');
`
)

// staticRuntime satisfies container.Runtime with in-memory files, standing
// in for the TestLink application container during tests.
type staticRuntime struct {
	files map[string][]byte
}

func (r *staticRuntime) ContainerRunning(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func (r *staticRuntime) ReadFile(_ context.Context, _, path string) ([]byte, error) {
	content, ok := r.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return content, nil
}

func (r *staticRuntime) Close() error { return nil }

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB        *gorm.DB
	Container testcontainers.Container
	DBName    string
	Runtime   *staticRuntime

	// Facade runs in-process on an ephemeral port, backed by the demo client.
	Facade    *httptest.Server
	FacadeURL string
}

// NewTestContext starts a MySQL testcontainer and an in-process facade.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	mysqlContainer, err := tcmysql.Run(ctx,
		"mysql:8.0",
		tcmysql.WithDatabase("testlink"),
		tcmysql.WithUsername("testlink"),
		tcmysql.WithPassword("testlink"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").
				WithStartupTimeout(120*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start mysql container: %w", err)
	}

	connStr, err := mysqlContainer.ConnectionString(ctx, "parseTime=true")
	if err != nil {
		_ = mysqlContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	db, err := gorm.Open(gormmysql.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = mysqlContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	runtime := &staticRuntime{
		files: map[string][]byte{
			"/var/www/html/install/sql/mysql/testlink_create_tables.sql":       []byte(schemaSQL),
			"/var/www/html/install/sql/mysql/testlink_create_default_data.sql": []byte(defaultDataSQL),
		},
	}

	srv := server.NewServer(testlink.NewDemoClient(), &config.Config{}, "127.0.0.1", "0")
	endpoints.RegisterAll(srv)
	facade := httptest.NewServer(srv.Router)

	return &TestContext{
		DB:        db,
		Container: mysqlContainer,
		DBName:    "testlink",
		Runtime:   runtime,
		Facade:    facade,
		FacadeURL: facade.URL,
	}, nil
}

// Close releases the test resources.
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Facade != nil {
		tc.Facade.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}
