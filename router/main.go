package router

import (
	"github.com/codeotter0201/fullstack-lms-challenge/database"
	"github.com/codeotter0201/fullstack-lms-challenge/handlers"
	admin_handlers "github.com/codeotter0201/fullstack-lms-challenge/handlers/admin"
	auth_handlers "github.com/codeotter0201/fullstack-lms-challenge/handlers/auth"
	course_handlers "github.com/codeotter0201/fullstack-lms-challenge/handlers/course"
	progress_handlers "github.com/codeotter0201/fullstack-lms-challenge/handlers/progress"
	purchase_handlers "github.com/codeotter0201/fullstack-lms-challenge/handlers/purchase"
	"github.com/codeotter0201/fullstack-lms-challenge/services"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/auth"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/logger"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options carries the collaborators shared by every route
type Options struct {
	JWTManager *auth.JWTManager
	Locker     services.KeyLocker
	Signer     services.MediaSigner
	Log        *logger.Logger
	// LevelUpHook runs after a submission raises a user's level. Optional.
	LevelUpHook services.LevelUpHook
}

func SetupRoutes(app *fiber.App, store database.Storage, opts Options) {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	db := store.DB()

	entitlement := services.NewEntitlementService(db)
	experience := services.NewExperienceService(db, log, opts.LevelUpHook)
	progressService := services.NewProgressService(db, entitlement, log)
	submissionService := services.NewSubmissionService(db, experience, opts.Locker, log)
	purchaseService := services.NewPurchaseService(db, opts.Locker, log)
	catalogService := services.NewCatalogService(db, entitlement, opts.Signer)
	roleService := services.NewRoleService(db, log)

	authMiddleware := middleware.NewAuthMiddleware(opts.JWTManager, db)

	authHandler := auth_handlers.NewAuthHandler(db, opts.JWTManager, log)
	courseHandler := course_handlers.NewCourseHandler(catalogService, entitlement)
	purchaseHandler := purchase_handlers.NewPurchaseHandler(purchaseService)
	progressHandler := progress_handlers.NewProgressHandler(progressService, submissionService)
	adminHandler := admin_handlers.NewAdminHandler(roleService, purchaseService)

	// Operational
	app.Get("/ping", func(c *fiber.Ctx) error {
		return handlers.HandleCheckHealth(c, store)
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")

	// Auth
	authGroup := v1.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Get("/me", authMiddleware.Required(), authHandler.Me)

	// Catalog (public, caller optional)
	courses := v1.Group("/courses")
	courses.Get("/", authMiddleware.Optional(), courseHandler.ListCourses)
	courses.Get("/:id", authMiddleware.Optional(), courseHandler.GetCourse)
	courses.Get("/:id/lessons", authMiddleware.Optional(), courseHandler.ListLessons)
	courses.Get("/:id/access", authMiddleware.Optional(), courseHandler.CheckAccess)
	courses.Get("/:id/purchased", authMiddleware.Optional(), purchaseHandler.CheckPurchased)

	// Purchases
	courses.Post("/:id/purchase", authMiddleware.Required(), purchaseHandler.Purchase)
	courses.Get("/:id/purchase", authMiddleware.Required(), purchaseHandler.GetPurchase)
	v1.Get("/purchases/me", authMiddleware.Required(), purchaseHandler.ListMine)

	// Lessons, progress and submission
	lessons := v1.Group("/lessons")
	lessons.Get("/:id", authMiddleware.Optional(), courseHandler.GetLesson)
	lessons.Get("/:id/progress", authMiddleware.Required(), progressHandler.GetProgress)
	lessons.Put("/:id/progress", authMiddleware.Required(), progressHandler.UpdateProgress)
	lessons.Post("/:id/submit", authMiddleware.Required(), progressHandler.Submit)

	// Admin
	admin := v1.Group("/admin", authMiddleware.Required(), authMiddleware.RequireAdmin())
	admin.Get("/users/:id/roles", adminHandler.ListUserRoles)
	admin.Post("/users/:id/roles", adminHandler.GrantUserRole)
	admin.Delete("/users/:id/roles/:role", adminHandler.RevokeUserRole)
	admin.Get("/courses/:id/purchases", adminHandler.ListCoursePurchases)
}
