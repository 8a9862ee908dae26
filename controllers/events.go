package controllers

import (
	"net/http"

	dbpkg "dunar/db"
	"dunar/models"
	"dunar/tools"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/events
func GetEvents(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var events []models.Event
	if err := db.Order("created_at desc").Find(&events).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"events": events})
}

type CreateEventRequest struct {
	Name        string   `json:"name" form:"name"`
	Plate       string   `json:"plate" form:"plate"`
	Price       *float64 `json:"price" form:"price"`
	EventDate   string   `json:"event_date" form:"event_date"`
	Description string   `json:"description" form:"description"`
	UserID      int64    `json:"user_id" form:"user_id"`
}

// POST /api/admin/events
func CreateEvent(c *gin.Context) {
	admin, ok := GetAdminLogged(c)
	if !ok {
		RespondError(c, "não autenticado", http.StatusUnauthorized)
		return
	}

	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Plate == "" || req.Price == nil || req.UserID <= 0 {
		RespondError(c, "Nome, placa, preço e usuário são obrigatórios", http.StatusBadRequest)
		return
	}
	if *req.Price < 0 || *req.Price > models.MAX_ACCESS_PRICE {
		RespondError(c, "Preço inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	plate := tools.NormalizePlate(req.Plate)
	if plate == "" {
		RespondError(c, "placa inválida", http.StatusBadRequest)
		return
	}

	vehicle, err := attachPlateRole(db, plate, req.UserID, models.PLATE_ROLE_EVENTO)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	event := models.Event{
		Name:        req.Name,
		VehicleID:   vehicle.ID,
		Price:       *req.Price,
		Description: req.Description,
		IsActive:    true,
		CreatedBy:   admin.ID,
	}
	if req.EventDate != "" {
		if t, err := parseUseDate(req.EventDate); err == nil {
			event.EventDate = &t
		}
	}

	if err := db.Create(&event).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// DELETE /api/admin/events/:id
func DeleteEvent(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var event models.Event
	if err := db.First(&event, id).Error; err != nil {
		RespondError(c, "evento não encontrado", http.StatusNotFound)
		return
	}

	if err := db.Delete(&models.Event{}, "id = ?", id).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if err := db.Model(&models.Vehicle{}).Where("id = ?", event.VehicleID).
		Update("plate_role", models.PLATE_ROLE_COMUM).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"status": "deleted"})
}
