// routes.go - HTTP route table

package routes

import (
	"time"

	"hotel-bookings-backend/admin"
	"hotel-bookings-backend/cache"
	"hotel-bookings-backend/handlers"
	"hotel-bookings-backend/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	bookingsTTL     = 120 * time.Second
	availabilityTTL = 60 * time.Second
)

// Options carries what the router needs besides the handlers.
type Options struct {
	// Cache may be nil, which turns response caching off.
	Cache       cache.Store
	Admin       *admin.Panel
	CORSOrigins []string
}

func SetupRouter(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), middleware.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	if len(opts.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = opts.CORSOrigins
	} else {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	}
	r.Use(cors.New(corsCfg))

	tokenAuth := middleware.TokenAuth(h.Users, handlers.RespondError)

	r.GET("/", handlers.Welcome)

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", tokenAuth, h.Me)

		users := auth.Group("/users", tokenAuth)
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.POST("", h.Register)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	hotels := r.Group("/hotels")
	{
		hotels.GET("", h.ListHotels)
		hotels.GET("/:id", h.GetHotel)
		hotels.POST("", h.CreateHotel)
		hotels.PUT("/:id", h.UpdateHotel)
		hotels.DELETE("/:id", h.DeleteHotel)
	}

	rooms := r.Group("/rooms")
	{
		rooms.GET("/available", h.AvailableRooms)
		rooms.GET("/available/period",
			middleware.CacheResponse(opts.Cache, availabilityTTL, handlers.AvailabilityTags),
			h.AvailableRoomsForPeriod)
		rooms.GET("", h.ListRooms)
		rooms.GET("/:id", h.GetRoom)
		rooms.POST("", h.CreateRoom)
		rooms.PUT("/:id", h.UpdateRoom)
		rooms.DELETE("/:id", h.DeleteRoom)
	}

	bookings := r.Group("/bookings", tokenAuth)
	{
		bookings.GET("",
			middleware.CacheResponse(opts.Cache, bookingsTTL, handlers.UserBookingsTags),
			h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("", h.CreateBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
	}

	if opts.Admin != nil {
		opts.Admin.Register(r)
	}
	return r
}
