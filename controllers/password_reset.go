package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	dbpkg "dunar/db"
	"dunar/models"
	"dunar/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

const resetTokenBytes = 32
const resetTokenValidFor = 1 * time.Hour

// Mensagem única para email cadastrado ou não (anti enumeração).
const recoverMessage = "Se o email estiver cadastrado, você receberá um link de recuperação."

// issuePasswordReset invalida resets pendentes da conta e emite um token
// novo, devolvendo o texto puro (só o hash vai para o banco).
func issuePasswordReset(db *gorm.DB, accountType string, accountID int64) (string, error) {
	_ = db.Where("account_type = ? AND account_id = ? AND used_at IS NULL",
		accountType, accountID).Delete(&models.PasswordReset{}).Error

	tokenText, err := tools.RandomHex(resetTokenBytes)
	if err != nil {
		return "", err
	}

	exp := time.Now().Add(resetTokenValidFor)
	reset := models.PasswordReset{
		AccountType: accountType,
		AccountID:   accountID,
		TokenHash:   tools.EncryptTextSHA512(tokenText),
		ExpiresAt:   &exp,
	}
	if err := db.Create(&reset).Error; err != nil {
		return "", err
	}
	return tokenText, nil
}

// findValidReset busca um reset não usado e não expirado pelo texto do token.
func findValidReset(db *gorm.DB, accountType, tokenText string) (models.PasswordReset, bool) {
	tokenHash := tools.EncryptTextSHA512(tokenText)

	var reset models.PasswordReset
	err := db.
		Where("account_type = ? AND token_hash = ? AND used_at IS NULL AND expires_at > ?",
			accountType, tokenHash, time.Now()).
		Order("id desc").
		First(&reset).Error
	if err != nil {
		return models.PasswordReset{}, false
	}
	return reset, true
}

func sendResetLink(email, path, tokenText string) {
	link := path + "?token=" + tokenText
	if base := tools.AppBaseURL(); base != "" {
		link = base + link
	}
	body := fmt.Sprintf("Você solicitou a recuperação de senha.\n\n"+
		"Acesse o link abaixo para redefinir sua senha (válido por 1 hora):\n\n%s\n\n"+
		"Se você não solicitou esta recuperação, ignore este email.", link)
	// best-effort: falha de entrega não pode vazar se o email existe ou não
	if err := tools.SendEmail(email, "Recuperação de Senha - Dunar", body); err != nil {
		log.Printf("password reset: erro ao enviar email: %v", err)
	}
}

type RecoverPasswordRequest struct {
	Email string `json:"email" form:"email"`
}

// POST /api/admin/recuperar-senha (public)
//
// Sempre responde com a mesma mensagem, exista o email ou não.
func RecoverAdminPassword(c *gin.Context) {
	var req RecoverPasswordRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		RespondError(c, "email é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondSuccess(c, gin.H{"message": recoverMessage})
		return
	}

	var admin models.Admin
	if err := db.Where("email = ?", strings.TrimSpace(req.Email)).First(&admin).Error; err != nil {
		RespondSuccess(c, gin.H{"message": recoverMessage})
		return
	}

	tokenText, err := issuePasswordReset(db, models.RESET_ACCOUNT_ADMIN, admin.ID)
	if err != nil {
		log.Printf("password reset: erro ao emitir token para admin %d: %v", admin.ID, err)
		RespondSuccess(c, gin.H{"message": recoverMessage})
		return
	}

	sendResetLink(admin.Email, "/admin/redefinir-senha", tokenText)
	RespondSuccess(c, gin.H{"message": recoverMessage})
}

// POST /api/cliente/recuperar-senha (public)
func RecoverClientPassword(c *gin.Context) {
	var req RecoverPasswordRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		RespondError(c, "email é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondSuccess(c, gin.H{"message": recoverMessage})
		return
	}

	var user models.User
	if err := db.Where("email = ?", strings.TrimSpace(req.Email)).First(&user).Error; err != nil {
		RespondSuccess(c, gin.H{"message": recoverMessage})
		return
	}

	tokenText, err := issuePasswordReset(db, models.RESET_ACCOUNT_CLIENT, user.ID)
	if err != nil {
		log.Printf("password reset: erro ao emitir token para usuário %d: %v", user.ID, err)
		RespondSuccess(c, gin.H{"message": recoverMessage})
		return
	}

	sendResetLink(user.Email, "/cliente/redefinir-senha", tokenText)
	RespondSuccess(c, gin.H{"message": recoverMessage})
}

type ResetPasswordRequest struct {
	Token    string `json:"token" form:"token"`
	Password string `json:"password" form:"password"`
}

// POST /api/admin/redefinir-senha (public)
//
// Consome o token (uso único) e grava a senha nova no mesmo padrão do login.
func ResetAdminPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" || req.Password == "" {
		RespondError(c, "token e password são obrigatórios", http.StatusBadRequest)
		return
	}
	if msg := tools.CheckPassword(req.Password); msg != "" {
		RespondError(c, "A senha deve ter pelo menos 6 caracteres", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	reset, ok := findValidReset(db, models.RESET_ACCOUNT_ADMIN, req.Token)
	if !ok {
		RespondError(c, "Token inválido ou expirado", http.StatusBadRequest)
		return
	}

	hash, err := tools.HashPassword(req.Password)
	if err != nil {
		RespondError(c, "erro ao processar senha", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	tx := db.Begin()
	if err := tx.Model(&models.Admin{}).Where("id = ?", reset.AccountID).
		Update("password_hash", hash).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tx.Model(&reset).Update("used_at", &now).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"message": "Senha redefinida com sucesso"})
}

// POST /api/cliente/redefinir-senha (public)
func ResetClientPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" || req.Password == "" {
		RespondError(c, "token e password são obrigatórios", http.StatusBadRequest)
		return
	}
	if msg := tools.CheckPassword(req.Password); msg != "" {
		RespondError(c, "A senha deve ter pelo menos 6 caracteres", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	reset, ok := findValidReset(db, models.RESET_ACCOUNT_CLIENT, req.Token)
	if !ok {
		RespondError(c, "Token inválido ou expirado", http.StatusBadRequest)
		return
	}

	hash, err := tools.HashPassword(req.Password)
	if err != nil {
		RespondError(c, "erro ao processar senha", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	tx := db.Begin()
	if err := tx.Model(&models.User{}).Where("id = ?", reset.AccountID).
		Update("password_hash", hash).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tx.Model(&reset).Update("used_at", &now).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"message": "Senha redefinida com sucesso"})
}
