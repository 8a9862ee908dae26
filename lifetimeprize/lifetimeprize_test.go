package lifetimeprize

import (
	"fmt"
	"testing"
	"time"

	"dunar/models"

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
	db.AutoMigrate(&models.User{}, &models.Vehicle{}, &models.Ticket{}, &models.Reservation{})
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, db *gorm.DB, prize bool) models.User {
	t.Helper()
	user := models.User{
		Name:          "Maria",
		Email:         "maria@example.com",
		PasswordHash:  "x",
		LifetimePrize: prize,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

var plateSeq int

// createFreeTicket grava um ticket gratuito vinculado a uma reserva do
// usuário, com a data de uso informada.
func createFreeTicket(t *testing.T, db *gorm.DB, user models.User, useDate time.Time) {
	t.Helper()
	plateSeq++
	vehicle := models.Vehicle{Plate: fmt.Sprintf("FREE%04d", plateSeq), UserID: user.ID}
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	res := models.Reservation{
		UserID:    user.ID,
		VehicleID: vehicle.ID,
		StartDate: useDate,
		EndDate:   useDate,
	}
	if err := db.Create(&res).Error; err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	price := 0.0
	ticket := models.Ticket{
		VehicleID:     vehicle.ID,
		ReservationID: &res.ID,
		UseDate:       useDate,
		Price:         &price,
		IsFree:        true,
		PaymentStatus: models.PAYMENT_STATUS_PENDENTE,
		TicketStatus:  models.TICKET_STATUS_AGUARDANDO,
	}
	if err := db.Create(&ticket).Error; err != nil {
		t.Fatalf("create ticket: %v", err)
	}
}

func TestCalculatePriceWithoutPrize(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, false)

	quote, err := CalculatePrice(db, user.ID, 50, 4)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}
	if quote.FreePlates != 0 {
		t.Errorf("FreePlates = %d, want 0", quote.FreePlates)
	}
	if quote.PaidPlates != 4 {
		t.Errorf("PaidPlates = %d, want 4", quote.PaidPlates)
	}
	if quote.TotalPrice != 200 {
		t.Errorf("TotalPrice = %v, want 200", quote.TotalPrice)
	}
}

func TestCalculatePriceConsumesQuota(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, true)
	now := time.Now()

	// 2 placas gratuitas já usadas hoje
	createFreeTicket(t, db, user, now)
	createFreeTicket(t, db, user, now)

	quote, err := CalculatePrice(db, user.ID, 50, 10)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}
	if quote.FreePlates != 4 {
		t.Errorf("FreePlates = %d, want 4", quote.FreePlates)
	}
	if quote.PaidPlates != 6 {
		t.Errorf("PaidPlates = %d, want 6", quote.PaidPlates)
	}
	if quote.TotalPrice != 300 {
		t.Errorf("TotalPrice = %v, want 300", quote.TotalPrice)
	}

	if len(quote.Breakdown) != 10 {
		t.Fatalf("len(Breakdown) = %d, want 10", len(quote.Breakdown))
	}
	for i, item := range quote.Breakdown {
		wantFree := i < 4
		if item.IsFree != wantFree {
			t.Errorf("Breakdown[%d].IsFree = %v, want %v", i, item.IsFree, wantFree)
		}
		if wantFree && item.Price != 0 {
			t.Errorf("Breakdown[%d].Price = %v, want 0", i, item.Price)
		}
		if !wantFree && item.Price != 50 {
			t.Errorf("Breakdown[%d].Price = %v, want 50", i, item.Price)
		}
		if item.Plate != i+1 {
			t.Errorf("Breakdown[%d].Plate = %d, want %d", i, item.Plate, i+1)
		}
	}
}

func TestCalculatePriceQuotaExhausted(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, true)
	now := time.Now()

	for i := 0; i < FREE_PLATES_PER_DAY; i++ {
		createFreeTicket(t, db, user, now)
	}

	quote, err := CalculatePrice(db, user.ID, 50, 1)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}
	if quote.FreePlates != 0 {
		t.Errorf("FreePlates = %d, want 0", quote.FreePlates)
	}
	if quote.TotalPrice != 50 {
		t.Errorf("TotalPrice = %v, want 50", quote.TotalPrice)
	}
}

func TestCalculatePriceNonPositiveCount(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, true)

	for _, count := range []int{0, -1, -10} {
		quote, err := CalculatePrice(db, user.ID, 50, count)
		if err != nil {
			t.Fatalf("CalculatePrice(count=%d): %v", count, err)
		}
		if quote.TotalPrice != 0 || quote.FreePlates != 0 || quote.PaidPlates != 0 {
			t.Errorf("count=%d: quote = %+v, want tudo zerado", count, quote)
		}
		if len(quote.Breakdown) != 0 {
			t.Errorf("count=%d: len(Breakdown) = %d, want 0", count, len(quote.Breakdown))
		}
	}
}

func TestAvailableNeverNegative(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, true)
	now := time.Now()

	// acima da cota (estado anômalo possível em migrações antigas)
	for i := 0; i < FREE_PLATES_PER_DAY+2; i++ {
		createFreeTicket(t, db, user, now)
	}

	available, err := AvailableFreePlates(db, user.ID)
	if err != nil {
		t.Fatalf("AvailableFreePlates: %v", err)
	}
	if available != 0 {
		t.Errorf("available = %d, want 0", available)
	}

	status, err := GetStatus(db, user.ID)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.AvailableToday != 0 {
		t.Errorf("AvailableToday = %d, want 0", status.AvailableToday)
	}
}

func TestQuotaResetsAtMidnight(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, true)

	// gratuidade consumida ontem às 23:59
	yesterday := time.Now().AddDate(0, 0, -1)
	lateYesterday := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 23, 59, 0, 0, time.Local)
	createFreeTicket(t, db, user, lateYesterday)

	today := time.Now()
	earlyToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 1, 0, 0, time.Local)

	used, err := countFreePlatesUsed(db, user.ID, earlyToday)
	if err != nil {
		t.Fatalf("countFreePlatesUsed: %v", err)
	}
	if used != 0 {
		t.Errorf("used às 00:01 = %d, want 0", used)
	}

	usedYesterday, err := countFreePlatesUsed(db, user.ID, lateYesterday)
	if err != nil {
		t.Fatalf("countFreePlatesUsed: %v", err)
	}
	if usedYesterday != 1 {
		t.Errorf("used às 23:59 = %d, want 1", usedYesterday)
	}
}

func TestUserNotFound(t *testing.T) {
	db := testDB(t)

	if _, err := HasLifetimePrize(db, 999); err != ErrUserNotFound {
		t.Errorf("HasLifetimePrize err = %v, want ErrUserNotFound", err)
	}
	if _, err := CalculatePrice(db, 999, 50, 1); err != ErrUserNotFound {
		t.Errorf("CalculatePrice err = %v, want ErrUserNotFound", err)
	}
}

func TestGetStatus(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, true)
	now := time.Now()
	createFreeTicket(t, db, user, now)

	status, err := getStatus(db, user.ID, now)
	if err != nil {
		t.Fatalf("getStatus: %v", err)
	}
	if !status.HasLifetimePrize {
		t.Error("HasLifetimePrize = false, want true")
	}
	if status.TotalFreePlatesPerDay != FREE_PLATES_PER_DAY {
		t.Errorf("TotalFreePlatesPerDay = %d, want %d", status.TotalFreePlatesPerDay, FREE_PLATES_PER_DAY)
	}
	if status.UsedToday != 1 {
		t.Errorf("UsedToday = %d, want 1", status.UsedToday)
	}
	if status.AvailableToday != FREE_PLATES_PER_DAY-1 {
		t.Errorf("AvailableToday = %d, want %d", status.AvailableToday, FREE_PLATES_PER_DAY-1)
	}

	wantReset := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	if status.NextReset == nil || !status.NextReset.Equal(wantReset) {
		t.Errorf("NextReset = %v, want %v", status.NextReset, wantReset)
	}
}

func TestGetStatusWithoutPrize(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, false)

	status, err := GetStatus(db, user.ID)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.HasLifetimePrize || status.TotalFreePlatesPerDay != 0 || status.NextReset != nil {
		t.Errorf("status sem prêmio deveria ser zerado, got %+v", status)
	}
}
