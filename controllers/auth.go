package controllers

import (
	"net/http"
	"os"
	"time"

	"dunar/config"
	dbpkg "dunar/db"
	"dunar/models"
	"dunar/tools"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var conf config.Configuration

// SetConfigurations injeta a configuração carregada no boot (mesmo esquema
// do pacote db).
func SetConfigurations(configuration config.Configuration) {
	conf = configuration
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type AdminLoginResponse struct {
	Token             string       `json:"token,omitempty"`
	Admin             models.Admin `json:"admin"`
	RequiresTwoFactor bool         `json:"requires_two_factor,omitempty"`
}

func getJWTSecret() string {
	secret := getenv("JWT_SECRET", "")
	if secret == "" {
		secret = getenv("DUNAR_JWT_SECRET", "")
	}
	if secret == "" {
		secret = conf.Security.JwtSecret
	}
	if secret == "" {
		secret = "CHANGE_ME"
	}
	return secret
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// signToken emite o JWT de sessão. O claim "type" separa tokens de admin e
// de cliente.
func signToken(subject int64, email, tokenType string) (string, error) {
	validHours := conf.Security.TokenValidHours
	if validHours <= 0 {
		validHours = 24
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"type":  tokenType,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(validHours) * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(getJWTSecret()))
}

// POST /api/login (admin)
func AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		RespondError(c, "email e password são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var admin models.Admin
	if err := db.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		RespondError(c, "usuário ou senha inválidos", http.StatusUnauthorized)
		return
	}
	if !tools.CheckPasswordHash(req.Password, admin.PasswordHash) {
		RespondError(c, "usuário ou senha inválidos", http.StatusUnauthorized)
		return
	}

	// Com 2FA ativo o token só sai depois do código verificado.
	if admin.TwoFactorEnabled {
		RespondSuccess(c, AdminLoginResponse{Admin: admin, RequiresTwoFactor: true})
		return
	}

	signed, err := signToken(admin.ID, admin.Email, "admin")
	if err != nil {
		RespondError(c, "erro ao assinar token", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, AdminLoginResponse{Token: signed, Admin: admin})
}

type ClientLoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// POST /api/cliente/login
func ClientLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		RespondError(c, "email e password são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		RespondError(c, "usuário ou senha inválidos", http.StatusUnauthorized)
		return
	}
	if !tools.CheckPasswordHash(req.Password, user.PasswordHash) {
		RespondError(c, "usuário ou senha inválidos", http.StatusUnauthorized)
		return
	}

	signed, err := signToken(user.ID, user.Email, "client")
	if err != nil {
		RespondError(c, "erro ao assinar token", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, ClientLoginResponse{Token: signed, User: user})
}

type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Phone    string `json:"phone" form:"phone"`
	Document string `json:"document" form:"document"`
}

// POST /api/cliente/register
func ClientRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Document: req.Document,
	}
	if missing := user.MissingFields(); missing != "" {
		RespondError(c, missing+" é obrigatório", http.StatusBadRequest)
		return
	}
	if msg := tools.CheckPassword(req.Password); msg != "" {
		RespondError(c, "senha muito curta", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var existing models.User
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		RespondError(c, "email já cadastrado", http.StatusBadRequest)
		return
	}

	hash, err := tools.HashPassword(req.Password)
	if err != nil {
		RespondError(c, "erro ao processar senha", http.StatusInternalServerError)
		return
	}
	user.PasswordHash = hash

	if err := db.Create(&user).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"user": user})
}
