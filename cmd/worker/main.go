package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anouarkehili/DADAGYM3/config"
	"github.com/anouarkehili/DADAGYM3/internal/cache"
	"github.com/anouarkehili/DADAGYM3/internal/database"
	"github.com/anouarkehili/DADAGYM3/internal/gateway"
	"github.com/anouarkehili/DADAGYM3/internal/pkg/queue"
	"github.com/anouarkehili/DADAGYM3/internal/service"
	"github.com/anouarkehili/DADAGYM3/internal/store"
	"github.com/anouarkehili/DADAGYM3/internal/worker"
)

// 重试 worker：消费同步队列，把离线期间积压的考勤推到远程。
// 与 server 内置的周期同步二选一部署（server 侧 sync.interval_minutes 设 0）
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

	// 快照从缓存恢复，worker 和 server 共享同一份缓存数据
	dataCache := cache.NewCache(rdb)
	snapshot := store.New(dataCache)
	snapshot.LoadCached(context.Background())

	syncQueue := queue.NewQueue(rdb, cfg.Sync.QueueName)
	syncService := service.NewSyncService(snapshot, gw, cfg.Sync.BatchSize)
	processor := worker.NewProcessor(syncService)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	log.Println("Sync worker started")

	for {
		select {
		case <-ctx.Done():
			log.Println("Worker shutdown complete")
			return
		default:
			msg, err := syncQueue.Pop(ctx, 5*time.Second)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("Failed to pop from queue: %v", err)
				continue
			}
			if msg == nil {
				continue // 超时，继续等待
			}

			if err := processor.Process(ctx, msg); err != nil {
				log.Printf("Retry for record %s failed: %v", msg.RecordID, err)
			}
		}
	}
}
