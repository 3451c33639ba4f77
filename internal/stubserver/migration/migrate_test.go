package migration

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travelex/internal/stubserver/config"
)

type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMigrator) Close() (error, error) {
	args := m.Called()
	return args.Error(0), args.Error(1)
}

func testConfig(driver string) *config.Config {
	cfg := &config.Config{}
	cfg.DB.Driver = driver
	cfg.DB.DatabaseURI = "travelex.db"
	cfg.DB.Migrations = "migrations/sqlite"
	return cfg
}

func TestUpSuccess(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(nil, nil)

	engine := func(source, db string) (Migrator, error) {
		assert.Equal(t, "file://migrations/sqlite", source)
		return mockM, nil
	}

	err := New(testConfig("sqlite"), engine).Up()

	assert.NoError(t, err)
	mockM.AssertExpectations(t)
}

func TestUpNoChangeIsNotAnError(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(migrate.ErrNoChange)
	mockM.On("Close").Return(nil, nil)

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	assert.NoError(t, New(testConfig("sqlite"), engine).Up())
}

func TestUpEngineError(t *testing.T) {
	engine := func(source, db string) (Migrator, error) {
		return nil, errors.New("engine crash")
	}

	err := New(testConfig("sqlite"), engine).Up()

	assert.Error(t, err)
	assert.Equal(t, "engine crash", err.Error())
}

func TestDatabaseURLPerDriver(t *testing.T) {
	var gotURL string
	mockM := new(MockMigrator)
	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(nil, nil)

	engine := func(source, db string) (Migrator, error) {
		gotURL = db
		return mockM, nil
	}

	require.NoError(t, New(testConfig("sqlite"), engine).Up())
	assert.Equal(t, "sqlite3://travelex.db", gotURL, "sqlite URI gains the scheme migrate expects")

	pg := testConfig("postgres")
	pg.DB.DatabaseURI = "postgres://localhost/travelex"
	require.NoError(t, New(pg, engine).Up())
	assert.Equal(t, "postgres://localhost/travelex", gotURL)
}
