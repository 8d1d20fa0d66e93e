package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/mentneo/sureshment001/cart"
	"github.com/mentneo/sureshment001/config"
	"github.com/mentneo/sureshment001/database"
	"github.com/mentneo/sureshment001/handlers"
	"github.com/mentneo/sureshment001/services"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Connect to database
	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Initialize tables
	if err := db.InitializeTables(); err != nil {
		log.Fatal("Failed to initialize tables:", err)
	}

	// Initialize Cloudinary; the media service degrades to embedded or
	// placeholder images when hosting is unavailable
	if err := services.InitializeCloudinary(config.AppConfig.CloudinaryURL); err != nil {
		log.Printf("Cloudinary unavailable, hosted uploads disabled: %v", err)
	}

	media := services.NewMediaService(
		config.AppConfig.DefaultImageURL,
		services.NewHostedProvider(services.Cloudinary, "teddy_bears"),
		services.NewEmbeddedProvider(1<<20),
	)

	// Session cart storage: Redis when reachable, in-process otherwise
	carts := cart.NewManager(cartStoreFactory(config.AppConfig.RedisURL))

	checkout := services.NewCheckoutService(db)

	handlers.InitializeHandlers(db, carts, checkout, media)

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Teddy shop server is running",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		// Authentication routes
		auth := api.Group("/auth")
		{
			auth.POST("/signup", handlers.RegisterUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/validate", handlers.ValidateToken)
		}

		// Public catalog routes
		products := api.Group("/products")
		{
			products.GET("/", handlers.GetProducts)
			products.GET("/:id", handlers.GetProduct)
		}
		api.GET("/categories", handlers.GetCategories)
		api.GET("/videos", handlers.GetVideos)

		// Cart routes (session-scoped, work for guests too)
		cartRoutes := api.Group("/cart")
		{
			cartRoutes.GET("/", handlers.GetCart)
			cartRoutes.POST("/add", handlers.AddToCart)
			cartRoutes.PUT("/update", handlers.UpdateCartItem)
			cartRoutes.DELETE("/remove/:productId", handlers.RemoveFromCart)
			cartRoutes.DELETE("/clear", handlers.ClearCart)
		}

		// Order routes (protected)
		orders := api.Group("/orders")
		orders.Use(handlers.AuthMiddleware())
		{
			orders.POST("/", handlers.CreateOrder)
			orders.GET("/", handlers.GetUserOrders)
			orders.GET("/:id", handlers.GetOrder)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(handlers.AuthMiddleware(), handlers.AdminMiddleware())
		{
			admin.GET("/dashboard", handlers.AdminDashboard)
			admin.POST("/products", handlers.CreateProduct)
			admin.PUT("/products/:id", handlers.UpdateProduct)
			admin.DELETE("/products/:id", handlers.DeleteProduct)
			admin.GET("/orders", handlers.AdminGetOrders)
			admin.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
			admin.POST("/videos", handlers.CreateVideo)
			admin.DELETE("/videos/:id", handlers.DeleteVideo)
			admin.POST("/upload", handlers.UploadImage)
		}
	}

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Configure this properly for production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         ":" + config.AppConfig.ServerPort,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("Server listening on :%s", config.AppConfig.ServerPort)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

// cartStoreFactory picks the durable cart store. Redis keeps carts across
// server restarts; when it is unreachable each session falls back to an
// in-process store that lives as long as the server does.
func cartStoreFactory(redisURL string) cart.StoreFactory {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Invalid REDIS_URL, using in-memory cart storage: %v", err)
		return func(string) cart.Store { return cart.NewMemoryStore() }
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unreachable, using in-memory cart storage: %v", err)
		return func(string) cart.Store { return cart.NewMemoryStore() }
	}

	log.Println("Cart storage backed by Redis")
	return func(sessionID string) cart.Store {
		return cart.NewRedisStore(client, sessionID)
	}
}
