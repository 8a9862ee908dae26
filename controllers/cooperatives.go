package controllers

import (
	"net/http"

	dbpkg "dunar/db"
	"dunar/models"
	"dunar/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// GET /api/admin/cooperatives
func GetCooperatives(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var coops []models.Cooperative
	if err := db.Order("created_at desc").Find(&coops).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"cooperatives": coops})
}

type CreateCooperativeRequest struct {
	Name   string   `json:"name" form:"name"`
	Plate  string   `json:"plate" form:"plate"`
	Price  *float64 `json:"price" form:"price"`
	UserID int64    `json:"user_id" form:"user_id"`
}

// POST /api/admin/cooperatives
//
// Vincula a placa como cooperado; cria o veículo se necessário e muda o
// PlateRole. Placa já vinculada a cooperado ou evento é recusada.
func CreateCooperative(c *gin.Context) {
	admin, ok := GetAdminLogged(c)
	if !ok {
		RespondError(c, "não autenticado", http.StatusUnauthorized)
		return
	}

	var req CreateCooperativeRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Plate == "" || req.UserID <= 0 {
		RespondError(c, "Nome, placa e usuário são obrigatórios", http.StatusBadRequest)
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

	vehicle, err := attachPlateRole(db, plate, req.UserID, models.PLATE_ROLE_COOPERADO)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	price := 0.0
	if req.Price != nil && *req.Price > 0 {
		price = *req.Price
	} else {
		config, err := models.GetOrCreateSystemConfig(db, admin.ID)
		if err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		price = config.CoopAccessPrice
	}

	coop := models.Cooperative{
		Name:      req.Name,
		VehicleID: vehicle.ID,
		Price:     price,
		IsActive:  true,
		CreatedBy: admin.ID,
	}
	if err := db.Create(&coop).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"cooperative": coop})
}

// DELETE /api/admin/cooperatives/:id
//
// Remove o vínculo e devolve o veículo ao papel Comum.
func DeleteCooperative(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var coop models.Cooperative
	if err := db.First(&coop, id).Error; err != nil {
		RespondError(c, "cooperado não encontrado", http.StatusNotFound)
		return
	}

	if err := db.Delete(&models.Cooperative{}, "id = ?", id).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if err := db.Model(&models.Vehicle{}).Where("id = ?", coop.VehicleID).
		Update("plate_role", models.PLATE_ROLE_COMUM).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"status": "deleted"})
}

// attachPlateRole encontra ou cria o veículo da placa e aplica o papel de
// preço, recusando placas já vinculadas a cooperado ou evento (os overrides
// são mutuamente exclusivos).
func attachPlateRole(db *gorm.DB, plate string, userID int64, role string) (models.Vehicle, error) {
	var vehicle models.Vehicle
	err := db.Where("plate = ?", plate).First(&vehicle).Error
	if err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			return models.Vehicle{}, err
		}
		vehicle = models.Vehicle{Plate: plate, PlateRole: role, UserID: userID}
		if err := db.Create(&vehicle).Error; err != nil {
			return models.Vehicle{}, err
		}
		return vehicle, nil
	}

	var coopCount int
	if err := db.Model(&models.Cooperative{}).Where("vehicle_id = ?", vehicle.ID).Count(&coopCount).Error; err != nil {
		return models.Vehicle{}, err
	}
	if coopCount > 0 {
		return models.Vehicle{}, errPlateAlreadyBound("cooperado")
	}

	var eventCount int
	if err := db.Model(&models.Event{}).Where("vehicle_id = ?", vehicle.ID).Count(&eventCount).Error; err != nil {
		return models.Vehicle{}, err
	}
	if eventCount > 0 {
		return models.Vehicle{}, errPlateAlreadyBound("evento")
	}

	if err := db.Model(&models.Vehicle{}).Where("id = ?", vehicle.ID).Update("plate_role", role).Error; err != nil {
		return models.Vehicle{}, err
	}
	vehicle.PlateRole = role
	return vehicle, nil
}

type plateBoundError string

func (e plateBoundError) Error() string {
	return "Esta placa já está cadastrada como " + string(e)
}

func errPlateAlreadyBound(kind string) error {
	return plateBoundError(kind)
}
