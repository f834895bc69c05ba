package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadFromFilesPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "app.json", `{"app_port": 4000, "db_driver": "sqlite", "nested": {"x": 1}}`)
	env := writeFile(t, dir, ".env", "DB_DRIVER=mysql\nCHAT_API_KEY=from-dotenv\n")

	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})
	require.NoError(t, loadFromFiles(cfg, env))

	assert.Equal(t, "4000", get("APP_PORT", ""))
	assert.Equal(t, "mysql", get("DB_DRIVER", ""), ".env overrides the config file")
	assert.Equal(t, "from-dotenv", get("CHAT_API_KEY", ""))
	assert.Empty(t, get("NESTED", ""))

	t.Setenv("DB_DRIVER", "postgres")
	assert.Equal(t, "postgres", get("DB_DRIVER", ""), "process env wins")
}

func TestLoadFromFilesMissingIsFine(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})
	assert.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, ".env")))
}

func TestDatabaseDriverAndDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	assert.Equal(t, defaultDatabaseDriver, DatabaseDriver())

	t.Setenv("DB_DRIVER", "sqlite")
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())

	t.Setenv("DATABASE_URL", "file:test.db")
	assert.Equal(t, "file:test.db", DatabaseDSN())
}

func TestTypedGetters(t *testing.T) {
	t.Setenv("X_INT", "12")
	t.Setenv("X_BAD_INT", "twelve")
	t.Setenv("X_BOOL", "true")
	t.Setenv("X_DUR", "45")
	t.Setenv("X_DUR2", "2m")

	assert.Equal(t, 12, Int("X_INT", 1))
	assert.Equal(t, 1, Int("X_BAD_INT", 1))
	assert.True(t, Bool("X_BOOL", false))
	assert.Equal(t, 45*time.Second, Duration("X_DUR", time.Second))
	assert.Equal(t, 2*time.Minute, Duration("X_DUR2", time.Second))
	assert.Equal(t, time.Second, Duration("X_UNSET", time.Second))
}

func TestAppPortPrefersPORT(t *testing.T) {
	t.Setenv("APP_PORT", "3001")
	t.Setenv("PORT", "8080")
	assert.Equal(t, "8080", AppPort())
}

func TestKafkaBrokersSplits(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,,")
	assert.Equal(t, []string{"a:9092", "b:9092"}, KafkaBrokers())
}
