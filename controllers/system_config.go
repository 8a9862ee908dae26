package controllers

import (
	"net/http"

	dbpkg "dunar/db"
	"dunar/models"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/config
//
// A configuração é um singleton criado preguiçosamente com os preços padrão.
func GetSystemConfig(c *gin.Context) {
	admin, ok := GetAdminLogged(c)
	if !ok {
		RespondError(c, "não autenticado", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	config, err := models.GetOrCreateSystemConfig(db, admin.ID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"config": config})
}

type UpdateConfigRequest struct {
	NormalAccessPrice *float64 `json:"normal_access_price" form:"normal_access_price"`
	CoopAccessPrice   *float64 `json:"coop_access_price" form:"coop_access_price"`
}

// PUT /api/admin/config (somente SUPERADMIN)
func UpdateSystemConfig(c *gin.Context) {
	admin, ok := GetAdminLogged(c)
	if !ok {
		RespondError(c, "não autenticado", http.StatusUnauthorized)
		return
	}
	if !admin.IsSuperAdmin() {
		RespondError(c, "Apenas super administradores podem alterar configurações", http.StatusForbidden)
		return
	}

	var req UpdateConfigRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.NormalAccessPrice != nil && (*req.NormalAccessPrice < 0 || *req.NormalAccessPrice > models.MAX_ACCESS_PRICE) {
		RespondError(c, "Preço do acesso normal inválido", http.StatusBadRequest)
		return
	}
	if req.CoopAccessPrice != nil && (*req.CoopAccessPrice < 0 || *req.CoopAccessPrice > models.MAX_ACCESS_PRICE) {
		RespondError(c, "Preço do cooperado inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	config, err := models.GetOrCreateSystemConfig(db, admin.ID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	if req.NormalAccessPrice != nil {
		config.NormalAccessPrice = *req.NormalAccessPrice
	}
	if req.CoopAccessPrice != nil {
		config.CoopAccessPrice = *req.CoopAccessPrice
	}
	config.UpdatedBy = admin.ID

	if err := db.Save(&config).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	models.Audit(db, models.AUDIT_CONFIG_UPDATED, admin.ID, map[string]any{
		"normalAccessPrice": config.NormalAccessPrice,
		"coopAccessPrice":   config.CoopAccessPrice,
	})

	RespondSuccess(c, gin.H{
		"message": "Configurações atualizadas com sucesso",
		"config":  config,
	})
}
