package main

import (
	"context"
	"fmt"
	"log"

	"github.com/anouarkehili/DADAGYM3/config"
	"github.com/anouarkehili/DADAGYM3/internal/api"
	"github.com/anouarkehili/DADAGYM3/internal/api/handler"
	"github.com/anouarkehili/DADAGYM3/internal/cache"
	"github.com/anouarkehili/DADAGYM3/internal/database"
	"github.com/anouarkehili/DADAGYM3/internal/gateway"
	"github.com/anouarkehili/DADAGYM3/internal/model"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/cron"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/pubsub"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/queue"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/ws"
	"github.com/anouarkehili/DADAGYM3/internal/service"
	"github.com/anouarkehili/DADAGYM3/internal/store"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 选择远程后端
	var gw gateway.Gateway
	switch cfg.Gateway.Backend {
	case "sheets":
		gw = gateway.NewSheetsGateway(&cfg.Gateway)
		log.Println("Using sheets gateway")
	default:
		db, err := database.NewMySQL(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect database: %v", err)
		}
		gw = gateway.NewDatabaseGateway(db)
		log.Println("Using database gateway")
	}

	// 本地快照：先从缓存恢复离线数据，再尽量用远程刷一遍
	dataCache := cache.NewCache(rdb)
	snapshot := store.New(dataCache)
	snapshot.LoadCached(context.Background())

	// 初始化 Queue 和 Pub/Sub
	syncQueue := queue.NewQueue(rdb, cfg.Sync.QueueName)
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// 考勤事件 → 管理端实时推送
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.AttendanceEvent) {
			if err := wsHub.BroadcastToRole(model.RoleAdmin, &ws.Message{
				Type: event.Type,
				Data: event,
			}); err != nil {
				log.Printf("Broadcast attendance event failed: %v", err)
			}
		})
		if err != nil && err != context.Canceled {
			log.Printf("Attendance event subscription stopped: %v", err)
		}
	}()

	// 初始化 Service
	authService := service.NewAuthService(snapshot, gw, dataCache, cfg.JWT, cfg.QR)
	attendanceService := service.NewAttendanceService(snapshot, gw, syncQueue, publisher, cfg.QR.GymName)
	syncService := service.NewSyncService(snapshot, gw, cfg.Sync.BatchSize)
	subscriptionService := service.NewSubscriptionService(snapshot, gw)
	memberService := service.NewMemberService(snapshot, gw)

	// 启动时做一次全量刷新，远程不可用就继续用缓存快照
	if err := syncService.RefreshData(context.Background()); err != nil {
		log.Printf("Initial refresh failed, serving cached snapshot: %v", err)
	}

	// 定时任务：周期同步 + 每日到期扫描
	cronService := cron.NewService(syncService, subscriptionService, cfg.Sync.IntervalMinutes)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, syncService)
	memberHandler := handler.NewMemberHandler(memberService, subscriptionService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	exportHandler := handler.NewExportHandler(snapshot, attendanceService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		attendanceHandler,
		memberHandler,
		subscriptionHandler,
		exportHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
