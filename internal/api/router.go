package api

import (
	"github.com/gin-gonic/gin"

	"github.com/anouarkehili/DADAGYM3/config"
	"github.com/anouarkehili/DADAGYM3/internal/api/handler"
	"github.com/anouarkehili/DADAGYM3/internal/api/middleware"
)

type Router struct {
	authHandler         *handler.AuthHandler
	attendanceHandler   *handler.AttendanceHandler
	memberHandler       *handler.MemberHandler
	subscriptionHandler *handler.SubscriptionHandler
	exportHandler       *handler.ExportHandler
	websocketHandler    *handler.WebSocketHandler
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	attendanceHandler *handler.AttendanceHandler,
	memberHandler *handler.MemberHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	exportHandler *handler.ExportHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		attendanceHandler:   attendanceHandler,
		memberHandler:       memberHandler,
		subscriptionHandler: subscriptionHandler,
		exportHandler:       exportHandler,
		websocketHandler:    websocketHandler,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/login/qr", r.authHandler.LoginQR)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.POST("/auth/logout", r.authHandler.Logout)

			// 考勤
			attendance := authenticated.Group("/attendance")
			{
				attendance.POST("", r.attendanceHandler.Record)
				attendance.GET("", r.attendanceHandler.History)
				attendance.POST("/scan", r.attendanceHandler.Scan)
				attendance.GET("/gym-qr", r.attendanceHandler.GymQR)
				attendance.POST("/sync", r.attendanceHandler.Sync)
			}

			// 订阅
			authenticated.GET("/subscription/status", r.subscriptionHandler.Status)
		}

		// 管理员接口
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.AdminOnly())
		{
			members := admin.Group("/members")
			{
				members.GET("", r.memberHandler.List)
				members.POST("", r.memberHandler.Create)
				members.GET("/pending", r.memberHandler.Pending)
				members.GET("/:id", r.memberHandler.Get)
				members.PUT("/:id", r.memberHandler.Update)
				members.DELETE("/:id", r.memberHandler.Delete)
				members.POST("/:id/approve", r.memberHandler.Approve)
			}

			admin.GET("/stats", r.memberHandler.Stats)

			export := admin.Group("/export")
			{
				export.GET("/attendance", r.exportHandler.Attendance)
				export.GET("/members", r.exportHandler.Members)
			}
		}
	}

	return engine
}
