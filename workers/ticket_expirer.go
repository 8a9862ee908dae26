package workers

import (
	"log"
	"time"

	"dunar/tickets"

	"github.com/jinzhu/gorm"
)

// StartTicketExpirer starts a loop that sweeps tickets whose use-date day
// already ended and were never released, moving them to Expirado.
func StartTicketExpirer(db *gorm.DB) {
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			n, err := tickets.ExpireDue(db)
			if err != nil {
				log.Printf("ticket expirer: sweep error: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("ticket expirer: %d ticket(s) expirado(s)", n)
			}
		}
	}()
}
