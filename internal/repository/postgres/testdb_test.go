//go:build !integration

package postgres

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"youthPolicyHub/domain"
	"youthPolicyHub/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func newPolicy(id string, order int, c domain.Classification, regions ...domain.Region) domain.Policy {
	p := domain.Policy{
		ID:             id,
		Title:          "title " + id,
		Classification: c,
		SortOrder:      order,
	}
	p.SetRegions(regions)
	return p
}

func seedPolicies(t *testing.T, repo *PolicyRepository, policies ...domain.Policy) {
	t.Helper()
	if err := repo.ApplyReconcile(context.Background(), policies, nil, nil); err != nil {
		t.Fatalf("seed policies: %v", err)
	}
}

func seedUser(t *testing.T, db *gorm.DB, id uint) {
	t.Helper()
	u := domain.User{ID: id, Nickname: fmt.Sprintf("user%d", id), Email: fmt.Sprintf("user%d@example.com", id)}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func policyIDs(policies []domain.Policy) []string {
	out := make([]string, 0, len(policies))
	for _, p := range policies {
		out = append(out, p.ID)
	}
	return out
}
