package handlers

import (
	"github.com/mentneo/sureshment001/cart"
	"github.com/mentneo/sureshment001/database"
	"github.com/mentneo/sureshment001/services"
)

var (
	DB       *database.DB
	Carts    *cart.Manager
	Checkout *services.CheckoutService
	Media    *services.MediaService
)

// InitializeHandlers wires the shared collaborators into the handler package
func InitializeHandlers(db *database.DB, carts *cart.Manager, checkout *services.CheckoutService, media *services.MediaService) {
	DB = db
	Carts = carts
	Checkout = checkout
	Media = media
}
