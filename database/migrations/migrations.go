// Package migrations registers the schema. Importing it for side effects
// is enough; the serve and migrate commands run the pending set.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bizadmin/app/models"
	"github.com/shashiranjanraj/bizadmin/pkg/migration"
	"github.com/shashiranjanraj/bizadmin/pkg/queue"
)

func init() {
	migration.Register("20240101000000_create_foods_table", table(&models.Food{}))
	migration.Register("20240101000001_create_leads_table", table(&models.Lead{}))
	migration.Register("20240101000002_create_products_table", table(&models.Product{}))
	migration.Register("20240101000003_create_chat_tables", table(&models.ChatSession{}, &models.ChatMessage{}))
	migration.Register("20240101000004_create_users_table", table(&models.User{}))
	migration.Register("20240101000005_create_failed_jobs_table", table(&queue.FailedJobRecord{}))
}

// tableMigration creates tables from models and drops them in reverse.
type tableMigration struct {
	models []any
}

func table(models ...any) *tableMigration { return &tableMigration{models: models} }

func (m *tableMigration) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.models...)
}

func (m *tableMigration) Down(db *gorm.DB) error {
	for i := len(m.models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(m.models[i]); err != nil {
			return err
		}
	}
	return nil
}
