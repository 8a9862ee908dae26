package models

import (
	"testing"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.DB().SetMaxOpenConns(1)
	db.AutoMigrate(&SystemConfig{}, &AuditLog{})
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetOrCreateSystemConfig(t *testing.T) {
	db := testDB(t)

	config, err := GetOrCreateSystemConfig(db, 3)
	if err != nil {
		t.Fatalf("GetOrCreateSystemConfig: %v", err)
	}
	if config.NormalAccessPrice != DEFAULT_NORMAL_ACCESS_PRICE {
		t.Errorf("NormalAccessPrice = %v, want %v", config.NormalAccessPrice, DEFAULT_NORMAL_ACCESS_PRICE)
	}
	if config.CoopAccessPrice != DEFAULT_COOP_ACCESS_PRICE {
		t.Errorf("CoopAccessPrice = %v, want %v", config.CoopAccessPrice, DEFAULT_COOP_ACCESS_PRICE)
	}
	if config.UpdatedBy != 3 {
		t.Errorf("UpdatedBy = %d, want 3", config.UpdatedBy)
	}

	// segunda chamada devolve o mesmo registro, sem criar outro
	again, err := GetOrCreateSystemConfig(db, 99)
	if err != nil {
		t.Fatalf("GetOrCreateSystemConfig: %v", err)
	}
	if again.ID != config.ID {
		t.Errorf("ID = %d, want %d", again.ID, config.ID)
	}
	var count int
	if err := db.Model(&SystemConfig{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("registros de config = %d, want 1", count)
	}
}

func TestAuditNeverFailsCaller(t *testing.T) {
	db := testDB(t)

	Audit(db, AUDIT_CONFIG_UPDATED, 1, map[string]any{"normalAccessPrice": 60.0})

	var entry AuditLog
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("load audit: %v", err)
	}
	if entry.Action != AUDIT_CONFIG_UPDATED || entry.AdminID != 1 {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Details == "" || entry.Details == "{}" {
		t.Errorf("Details = %q, want JSON com os campos", entry.Details)
	}

	// detalhes não serializáveis não devem entrar em pânico
	Audit(db, AUDIT_CONFIG_UPDATED, 1, map[string]any{"bad": make(chan int)})
}
