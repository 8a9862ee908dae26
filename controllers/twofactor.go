package controllers

import (
	"fmt"
	"net/http"
	"time"

	dbpkg "dunar/db"
	"dunar/models"
	"dunar/tools"

	"github.com/gin-gonic/gin"
)

const DEFAULT_2FA_CODE_LEN = 6
const DEFAULT_2FA_VALID_MINS = 10

func twoFactorCodeLen() int {
	if conf.Security.TwoFactorCodeLen > 0 {
		return conf.Security.TwoFactorCodeLen
	}
	return DEFAULT_2FA_CODE_LEN
}

func twoFactorValidFor() time.Duration {
	mins := conf.Security.TwoFactorValidMins
	if mins <= 0 {
		mins = DEFAULT_2FA_VALID_MINS
	}
	return time.Duration(mins) * time.Minute
}

type TwoFactorGenerateRequest struct {
	AdminID int64  `json:"admin_id" form:"admin_id"`
	Method  string `json:"method" form:"method"` // "email" | "sms"
}

// POST /api/auth/2fa/generate
//
// Gera o código de 6 dígitos e envia pelo canal pedido. O token de sessão
// só sai no verify.
func Generate2FACode(c *gin.Context) {
	var req TwoFactorGenerateRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.AdminID <= 0 || req.Method == "" {
		RespondError(c, "ID do administrador e método são obrigatórios", http.StatusBadRequest)
		return
	}
	if req.Method != "email" && req.Method != "sms" {
		RespondError(c, "método inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var admin models.Admin
	if err := db.First(&admin, req.AdminID).Error; err != nil {
		RespondError(c, "Administrador não encontrado", http.StatusNotFound)
		return
	}
	if !admin.TwoFactorEnabled {
		RespondError(c, "2FA não está ativado para este usuário", http.StatusBadRequest)
		return
	}

	code := tools.RandomNumbers(twoFactorCodeLen())
	expiry := time.Now().Add(twoFactorValidFor())

	if err := db.Model(&models.Admin{}).Where("id = ?", admin.ID).Updates(map[string]any{
		"two_factor_code":   code,
		"two_factor_expiry": &expiry,
	}).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	body := fmt.Sprintf("Seu código de verificação Dunar: %s (válido por %d minutos)",
		code, int(twoFactorValidFor().Minutes()))
	if req.Method == "email" {
		if err := tools.SendEmail(admin.Email, "Código de verificação - Dunar", body); err != nil {
			RespondError(c, "erro ao enviar código por email", http.StatusInternalServerError)
			return
		}
	} else {
		if admin.Phone == "" {
			RespondError(c, "administrador sem telefone cadastrado", http.StatusBadRequest)
			return
		}
		if err := tools.SendSMS(admin.Phone, body); err != nil {
			RespondError(c, "erro ao enviar código por SMS", http.StatusInternalServerError)
			return
		}
	}

	RespondSuccess(c, gin.H{"message": "Código enviado via " + req.Method})
}

type TwoFactorVerifyRequest struct {
	AdminID int64  `json:"admin_id" form:"admin_id"`
	Code    string `json:"code" form:"code"`
}

// POST /api/auth/2fa/verify
func Verify2FACode(c *gin.Context) {
	var req TwoFactorVerifyRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.AdminID <= 0 || req.Code == "" {
		RespondError(c, "ID do administrador e código são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var admin models.Admin
	if err := db.First(&admin, req.AdminID).Error; err != nil {
		RespondError(c, "Administrador não encontrado", http.StatusNotFound)
		return
	}
	if admin.TwoFactorCode == "" || admin.TwoFactorExpiry == nil {
		RespondError(c, "Nenhum código 2FA foi gerado", http.StatusBadRequest)
		return
	}
	if time.Now().After(*admin.TwoFactorExpiry) {
		RespondError(c, "Código expirado. Solicite um novo código.", http.StatusBadRequest)
		return
	}
	if admin.TwoFactorCode != req.Code {
		RespondError(c, "Código inválido", http.StatusBadRequest)
		return
	}

	// Código é de uso único.
	if err := db.Model(&models.Admin{}).Where("id = ?", admin.ID).Updates(map[string]any{
		"two_factor_code":   "",
		"two_factor_expiry": nil,
	}).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	signed, err := signToken(admin.ID, admin.Email, "admin")
	if err != nil {
		RespondError(c, "erro ao assinar token", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, AdminLoginResponse{Token: signed, Admin: admin})
}
