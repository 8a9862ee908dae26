package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dbpkg "dunar/db"
	"dunar/models"
	"dunar/tools"

	"github.com/gin-gonic/gin"
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
	db.AutoMigrate(&models.User{}, &models.Admin{}, &models.PasswordReset{})
	t.Cleanup(func() { db.Close() })
	return db
}

func testRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(db))
	r.POST("/api/admin/recuperar-senha", RecoverAdminPassword)
	r.POST("/api/admin/redefinir-senha", ResetAdminPassword)
	r.POST("/api/cliente/recuperar-senha", RecoverClientPassword)
	r.POST("/api/cliente/redefinir-senha", ResetClientPassword)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createTestAdmin(t *testing.T, db *gorm.DB) models.Admin {
	t.Helper()
	hash, err := tools.HashPassword("senha-antiga")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	admin := models.Admin{Name: "Ana", Email: "ana@dunar.com", PasswordHash: hash, Role: models.ROLE_ADMIN}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return admin
}

func TestRecoverPasswordAntiEnumeration(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	db := testDB(t)
	createTestAdmin(t, db)
	r := testRouter(db)

	known := postJSON(t, r, "/api/admin/recuperar-senha", gin.H{"email": "ana@dunar.com"})
	unknown := postJSON(t, r, "/api/admin/recuperar-senha", gin.H{"email": "ninguem@dunar.com"})

	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("status = %d / %d, want 200 / 200", known.Code, unknown.Code)
	}
	// resposta idêntica para email cadastrado ou não
	if known.Body.String() != unknown.Body.String() {
		t.Errorf("respostas divergem: %q vs %q", known.Body.String(), unknown.Body.String())
	}

	// mas só o email cadastrado gera token
	var count int
	if err := db.Model(&models.PasswordReset{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("resets = %d, want 1", count)
	}
}

func TestRecoverPasswordStoresOnlyHash(t *testing.T) {
	db := testDB(t)
	admin := createTestAdmin(t, db)

	tokenText, err := issuePasswordReset(db, models.RESET_ACCOUNT_ADMIN, admin.ID)
	if err != nil {
		t.Fatalf("issuePasswordReset: %v", err)
	}
	if tokenText == "" {
		t.Fatal("token vazio")
	}

	var reset models.PasswordReset
	if err := db.First(&reset).Error; err != nil {
		t.Fatalf("load reset: %v", err)
	}
	if reset.TokenHash == tokenText {
		t.Error("token guardado em texto puro")
	}
	if reset.TokenHash != tools.EncryptTextSHA512(tokenText) {
		t.Error("hash não bate com o token emitido")
	}

	// emitir de novo invalida o anterior
	if _, err := issuePasswordReset(db, models.RESET_ACCOUNT_ADMIN, admin.ID); err != nil {
		t.Fatalf("issuePasswordReset: %v", err)
	}
	if _, ok := findValidReset(db, models.RESET_ACCOUNT_ADMIN, tokenText); ok {
		t.Error("token antigo continua válido após nova emissão")
	}
}

func TestResetAdminPassword(t *testing.T) {
	db := testDB(t)
	admin := createTestAdmin(t, db)
	r := testRouter(db)

	tokenText, err := issuePasswordReset(db, models.RESET_ACCOUNT_ADMIN, admin.ID)
	if err != nil {
		t.Fatalf("issuePasswordReset: %v", err)
	}

	w := postJSON(t, r, "/api/admin/redefinir-senha", gin.H{"token": tokenText, "password": "senha-nova"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var reloaded models.Admin
	if err := db.First(&reloaded, admin.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !tools.CheckPasswordHash("senha-nova", reloaded.PasswordHash) {
		t.Error("senha nova não confere")
	}
	if tools.CheckPasswordHash("senha-antiga", reloaded.PasswordHash) {
		t.Error("senha antiga continua válida")
	}

	// token é de uso único
	again := postJSON(t, r, "/api/admin/redefinir-senha", gin.H{"token": tokenText, "password": "outra-senha"})
	if again.Code != http.StatusBadRequest {
		t.Errorf("reuso do token: status = %d, want 400", again.Code)
	}
}

func TestResetPasswordRejectsBadInput(t *testing.T) {
	db := testDB(t)
	admin := createTestAdmin(t, db)
	r := testRouter(db)

	// token inexistente
	w := postJSON(t, r, "/api/admin/redefinir-senha", gin.H{"token": "nao-existe", "password": "senha-nova"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("token inválido: status = %d, want 400", w.Code)
	}

	// token expirado
	tokenText, err := issuePasswordReset(db, models.RESET_ACCOUNT_ADMIN, admin.ID)
	if err != nil {
		t.Fatalf("issuePasswordReset: %v", err)
	}
	past := time.Now().Add(-time.Minute)
	if err := db.Model(&models.PasswordReset{}).Where("account_id = ?", admin.ID).
		Update("expires_at", &past).Error; err != nil {
		t.Fatalf("expire: %v", err)
	}
	w = postJSON(t, r, "/api/admin/redefinir-senha", gin.H{"token": tokenText, "password": "senha-nova"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("token expirado: status = %d, want 400", w.Code)
	}

	// senha curta
	tokenText, err = issuePasswordReset(db, models.RESET_ACCOUNT_ADMIN, admin.ID)
	if err != nil {
		t.Fatalf("issuePasswordReset: %v", err)
	}
	w = postJSON(t, r, "/api/admin/redefinir-senha", gin.H{"token": tokenText, "password": "123"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("senha curta: status = %d, want 400", w.Code)
	}
}

func TestResetClientPassword(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	db := testDB(t)
	hash, err := tools.HashPassword("senha-antiga")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := models.User{Name: "Maria", Email: "maria@example.com", PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	r := testRouter(db)

	w := postJSON(t, r, "/api/cliente/recuperar-senha", gin.H{"email": "maria@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("recuperar: status = %d", w.Code)
	}

	tokenText, err := issuePasswordReset(db, models.RESET_ACCOUNT_CLIENT, user.ID)
	if err != nil {
		t.Fatalf("issuePasswordReset: %v", err)
	}

	// token de admin não redefine senha de cliente e vice-versa
	if _, ok := findValidReset(db, models.RESET_ACCOUNT_ADMIN, tokenText); ok {
		t.Error("token de cliente válido no fluxo de admin")
	}

	w = postJSON(t, r, "/api/cliente/redefinir-senha", gin.H{"token": tokenText, "password": "senha-nova"})
	if w.Code != http.StatusOK {
		t.Fatalf("redefinir: status = %d, body = %s", w.Code, w.Body.String())
	}

	var reloaded models.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !tools.CheckPasswordHash("senha-nova", reloaded.PasswordHash) {
		t.Error("senha nova não confere")
	}
}
