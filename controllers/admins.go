package controllers

import (
	"net/http"

	dbpkg "dunar/db"
	"dunar/models"
	"dunar/tools"

	"github.com/gin-gonic/gin"
)

// GET /api/admins
func GetAdmins(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var admins []models.Admin
	if err := db.Order("id asc").Find(&admins).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"admins": admins})
}

type CreateAdminRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Phone    string `json:"phone" form:"phone"`
	Role     string `json:"role" form:"role"`
}

// POST /api/admins (exige permissão createAdmins)
//
// Criar SUPERADMIN é exclusivo de SUPERADMIN, independente da permissão.
func CreateAdmin(c *gin.Context) {
	caller, ok := GetAdminLogged(c)
	if !ok {
		RespondError(c, "não autenticado", http.StatusUnauthorized)
		return
	}

	var req CreateAdminRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		RespondError(c, "name, email e password são obrigatórios", http.StatusBadRequest)
		return
	}
	if !tools.ValidateEmail(req.Email) {
		RespondError(c, "email inválido", http.StatusBadRequest)
		return
	}
	if msg := tools.CheckPassword(req.Password); msg != "" {
		RespondError(c, "senha muito curta", http.StatusBadRequest)
		return
	}

	role := req.Role
	if role == "" {
		role = models.ROLE_FUNCIONARIO
	}
	if !models.IsValidRole(role) {
		RespondError(c, "role inválido", http.StatusBadRequest)
		return
	}
	if role == models.ROLE_SUPERADMIN && !caller.IsSuperAdmin() {
		RespondError(c, "Apenas super administradores podem criar super administradores", http.StatusForbidden)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var existing models.Admin
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		RespondError(c, "email já cadastrado", http.StatusBadRequest)
		return
	}

	hash, err := tools.HashPassword(req.Password)
	if err != nil {
		RespondError(c, "erro ao processar senha", http.StatusInternalServerError)
		return
	}

	admin := models.Admin{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         role,
	}
	if err := db.Create(&admin).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	models.Audit(db, models.AUDIT_ADMIN_CREATED, caller.ID, map[string]any{
		"adminId": admin.ID,
		"role":    admin.Role,
	})

	c.JSON(http.StatusCreated, gin.H{"admin": admin})
}

// DELETE /api/admins/:id (exige permissão deleteAdmins)
//
// O último SUPERADMIN nunca pode ser excluído.
func DeleteAdmin(c *gin.Context) {
	caller, ok := GetAdminLogged(c)
	if !ok {
		RespondError(c, "não autenticado", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if id == caller.ID {
		RespondError(c, "não é possível excluir a própria conta", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var target models.Admin
	if err := db.First(&target, id).Error; err != nil {
		RespondError(c, "admin não encontrado", http.StatusNotFound)
		return
	}

	if target.IsSuperAdmin() {
		var count int
		if err := db.Model(&models.Admin{}).Where("role = ?", models.ROLE_SUPERADMIN).Count(&count).Error; err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		if count <= 1 {
			RespondError(c, "não é possível excluir o último super administrador", http.StatusBadRequest)
			return
		}
	}

	if err := db.Delete(&models.Admin{}, "id = ?", id).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	models.Audit(db, models.AUDIT_ADMIN_DELETED, caller.ID, map[string]any{
		"adminId": target.ID,
		"role":    target.Role,
	})

	RespondSuccess(c, gin.H{"status": "deleted"})
}
