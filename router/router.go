package router

import (
	"log"

	"dunar/controllers"
	"dunar/middleware"
	"dunar/models"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares: public routes, client routes
// (token de cliente) and admin routes (token de admin + permissões).
func Initialize(r *gin.Engine) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")

	// Public (no auth)
	api.POST("/login", Logger(), controllers.AdminLogin)
	api.POST("/cliente/register", Logger(), controllers.ClientRegister)
	api.POST("/cliente/login", Logger(), controllers.ClientLogin)
	api.POST("/auth/2fa/generate", Logger(), controllers.Generate2FACode)
	api.POST("/auth/2fa/verify", Logger(), controllers.Verify2FACode)

	// Recuperação de senha (fluxo por link com token de uso único)
	api.POST("/admin/recuperar-senha", Logger(), controllers.RecoverAdminPassword)
	api.POST("/admin/redefinir-senha", Logger(), controllers.ResetAdminPassword)
	api.POST("/cliente/recuperar-senha", Logger(), controllers.RecoverClientPassword)
	api.POST("/cliente/redefinir-senha", Logger(), controllers.ResetClientPassword)

	// Webhook (Mercado Pago) - o gateway valida a URL via GET
	api.GET("/payment/webhook", controllers.PaymentWebhookPing)
	api.POST("/payment/webhook", controllers.PaymentWebhook)
	api.POST("/payment/create-preference", Logger(), controllers.CreatePaymentPreference)

	// Walk-in (balcão/portaria): criação e consulta de tickets avulsos
	api.GET("/tickets", Logger(), controllers.GetTickets)
	api.GET("/tickets/:id", Logger(), controllers.GetTicketByID)
	api.POST("/tickets", Logger(), controllers.CreateTicket)

	// Client routes (token de cliente)
	cliente := api.Group("")
	cliente.Use(controllers.ClientRequired())
	cliente.GET("/reservations", Logger(), controllers.GetReservations)
	cliente.POST("/reservations", Logger(), controllers.CreateReservation)
	cliente.GET("/cliente/lifetime-prize-status", Logger(), controllers.GetLifetimePrizeStatus)
	cliente.GET("/cliente/price-quote", Logger(), controllers.GetPriceQuote)

	// Admin routes (token de admin)
	admin := api.Group("")
	admin.Use(controllers.AdminRequired())

	// Controle de acesso (tickets)
	payments := admin.Group("")
	payments.Use(Permissioner(models.CapManagePayments))
	payments.GET("/admin/tickets", Logger(), controllers.GetAdminTickets)
	// No balcão o ticket pode nascer já pago (o controller só aceita
	// payment_status=Pago com admin no contexto).
	payments.POST("/admin/tickets", Logger(), controllers.CreateTicket)
	payments.PATCH("/admin/tickets", Logger(), controllers.UpdateAdminTicket)
	payments.POST("/admin/tickets/release", Logger(), controllers.ReleaseTicket)
	payments.POST("/admin/tickets/notify", Logger(), controllers.NotifyTicket)

	// Configuração do sistema (o PUT ainda exige SUPERADMIN no controller)
	admin.GET("/admin/config", Logger(), controllers.GetSystemConfig)
	admin.PUT("/admin/config", Logger(), controllers.UpdateSystemConfig)

	// Cooperados e eventos (overrides de preço por placa)
	admin.GET("/admin/cooperatives", Logger(), controllers.GetCooperatives)
	admin.POST("/admin/cooperatives", Logger(), controllers.CreateCooperative)
	admin.DELETE("/admin/cooperatives/:id", Logger(), controllers.DeleteCooperative)
	admin.GET("/admin/events", Logger(), controllers.GetEvents)
	admin.POST("/admin/events", Logger(), controllers.CreateEvent)
	admin.DELETE("/admin/events/:id", Logger(), controllers.DeleteEvent)

	// Gestão de admins
	admin.GET("/admins", Logger(), Permissioner(models.CapViewClients), controllers.GetAdmins)
	admin.POST("/admins", Logger(), Permissioner(models.CapCreateAdmins), controllers.CreateAdmin)
	admin.DELETE("/admins/:id", Logger(), Permissioner(models.CapDeleteAdmins), controllers.DeleteAdmin)

	log.Printf("Routes initialized")
}
