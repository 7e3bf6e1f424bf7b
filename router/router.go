package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/controllers"
	"github.com/SolomonOP/smart-waiter-system-sub000/kds"
	"github.com/SolomonOP/smart-waiter-system-sub000/lifecycle"
	"github.com/SolomonOP/smart-waiter-system-sub000/middlewares"
)

func SetupRouter(db *gorm.DB, coordinator *lifecycle.Coordinator, hub *kds.Hub) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.StaffIdentity())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	orderCtrl := controllers.NewOrderController(coordinator)
	tableCtrl := controllers.NewTableController(db, coordinator)
	requestCtrl := controllers.NewServiceRequestController(coordinator)
	menuCtrl := controllers.NewMenuController(db)
	customerCtrl := controllers.NewCustomerController(db)
	userCtrl := controllers.NewUserController(db)
	notificationCtrl := controllers.NewNotificationController(db)
	kdsCtrl := controllers.NewKDSController(hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Live event stream for kitchen and floor displays
	r.GET("/kds/ws", kdsCtrl.Stream)

	// ----------------------------------------------------------------
	//                      GUEST ROUTES
	// ----------------------------------------------------------------
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/:table_number/scan", customerCtrl.ScanTable)
	r.GET("/tables/:table_number/session", customerCtrl.GetActiveSession)
	r.POST("/customers/:customer_id/close", customerCtrl.CloseSession)

	// Placing orders is throttled; the rest of the guest surface is not
	placing := r.Group("/")
	placing.Use(middlewares.NewStrictRateLimiter(rate.Limit(5), 10))
	{
		placing.POST("/orders", orderCtrl.CreateOrder)
		placing.POST("/orders/:order_id/items", orderCtrl.AddOrderItems)
		placing.POST("/orders/:order_id/service-requests", requestCtrl.CreateServiceRequest)
	}

	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.GET("/orders/:order_id/history", orderCtrl.GetOrderHistory)
	r.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)
	r.POST("/orders/:order_id/payment", orderCtrl.PayOrder)
	r.POST("/orders/:order_id/feedback", orderCtrl.SubmitFeedback)
	r.POST("/service-requests/:request_id/cancel", requestCtrl.CancelServiceRequest)

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	staff := r.Group("/staff")

	// Order lifecycle
	staff.GET("/orders", orderCtrl.GetAllOrders)
	staff.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	staff.GET("/orders/:order_id/history", orderCtrl.GetOrderHistory)
	staff.POST("/orders/:order_id/confirm", orderCtrl.ConfirmOrder)
	staff.POST("/orders/:order_id/accept", orderCtrl.AcceptOrder)
	staff.POST("/orders/:order_id/ready", orderCtrl.MarkOrderReady)
	staff.POST("/orders/:order_id/complete", orderCtrl.CompleteOrder)
	staff.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)
	staff.POST("/orders/:order_id/reject", orderCtrl.RejectOrder)
	staff.GET("/kitchen/queue", orderCtrl.GetKitchenQueue)

	// Service requests
	staff.GET("/service-requests/pending", requestCtrl.GetPendingRequests)
	staff.POST("/service-requests/:request_id/accept", requestCtrl.AcceptServiceRequest)
	staff.POST("/service-requests/:request_id/complete", requestCtrl.CompleteServiceRequest)

	// Floor management
	staff.POST("/tables", tableCtrl.CreateTable)
	staff.GET("/tables/:table_number", tableCtrl.GetTableByNumber)
	staff.PATCH("/tables/:table_number/status", tableCtrl.UpdateTableStatus)
	staff.DELETE("/tables/:table_number", tableCtrl.RetireTable)
	staff.GET("/floor/stats", tableCtrl.GetFloorStats)

	// Menu catalog
	staff.POST("/menus", menuCtrl.CreateMenu)
	staff.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	staff.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
	staff.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

	// Staff directory
	staff.GET("/users", userCtrl.GetAllUsers)
	staff.POST("/users", userCtrl.CreateUser)
	staff.GET("/users/:user_id", userCtrl.GetUserByID)
	staff.PATCH("/users/:user_id", userCtrl.UpdateUser)

	// Sessions and notifications
	staff.GET("/customers", customerCtrl.GetAllCustomers)
	staff.GET("/notifications", notificationCtrl.GetAllNotifications)
	staff.POST("/notifications", notificationCtrl.CreateNotification)
	staff.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkNotificationRead)
	staff.POST("/notifications/read-all", notificationCtrl.MarkAllNotificationsRead)

	return r
}
