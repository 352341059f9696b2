package routes

import (
	"database/sql"

	"github.com/khomabhena/imali-api/handlers"
	"github.com/khomabhena/imali-api/services"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/refresh", authHandler.Refresh)
}

// SetupBudgetRoutes wires the allocation, affordability, purchase and
// deduction engines behind the protected API surface.
func SetupBudgetRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	bucketService := services.NewBucketService(db)
	balanceService := services.NewBalanceService(db)
	settingsService := services.NewSettingsService(db)

	incomeHandler := &handlers.IncomeHandler{
		Allocations: services.NewAllocationService(db),
		Settings:    settingsService,
		WS:          ws,
	}
	purchaseHandler := &handlers.PurchaseHandler{
		Purchases: services.NewPurchaseService(db),
		Buckets:   bucketService,
		Balances:  balanceService,
		Settings:  settingsService,
		WS:        ws,
	}
	expenseHandler := &handlers.ExpenseHandler{
		Expenses: services.NewExpenseService(db),
		WS:       ws,
	}
	wishlistHandler := &handlers.WishlistHandler{
		Wishlist: services.NewWishlistService(db),
		WS:       ws,
	}
	bucketHandler := &handlers.BucketHandler{
		Buckets:  bucketService,
		Settings: settingsService,
	}
	transactionHandler := &handlers.TransactionHandler{
		Transactions: services.NewTransactionService(db),
	}
	analyticsHandler := &handlers.AnalyticsHandler{
		Analytics: services.NewAnalyticsService(db),
		Settings:  settingsService,
	}
	settingsHandler := &handlers.SettingsHandler{Settings: settingsService}

	rg.GET("/buckets", bucketHandler.GetBuckets)
	rg.POST("/buckets", bucketHandler.CreateBucket)

	rg.POST("/income", incomeHandler.RecordIncome)

	rg.POST("/purchases", purchaseHandler.RecordPurchase)
	rg.POST("/affordability", purchaseHandler.CheckAffordability)

	rg.GET("/expenses", expenseHandler.GetExpenses)
	rg.POST("/expenses", expenseHandler.CreateExpense)
	rg.PUT("/expenses/:id", expenseHandler.UpdateExpense)
	rg.POST("/expenses/:id/payments", expenseHandler.RecordPayment)
	rg.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

	rg.GET("/wishlist", wishlistHandler.GetItems)
	rg.POST("/wishlist", wishlistHandler.CreateItem)
	rg.PUT("/wishlist/:id", wishlistHandler.UpdateItem)
	rg.DELETE("/wishlist/:id", wishlistHandler.DeleteItem)
	rg.POST("/wishlist/:id/purchase", wishlistHandler.PurchaseItem)

	rg.GET("/transactions", transactionHandler.GetTransactions)

	rg.GET("/analytics/summary", analyticsHandler.GetSummary)
	rg.GET("/analytics/months", analyticsHandler.GetMonths)

	rg.GET("/settings", settingsHandler.GetSettings)
	rg.PUT("/settings", settingsHandler.UpdateSettings)
}

// SetupUserRoutes sets up protected profile and 2FA routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
}
