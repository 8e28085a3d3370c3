package main

import (
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/LinkUp/config"
	"github.com/Gopher0727/LinkUp/internal/consumer"
	"github.com/Gopher0727/LinkUp/internal/handlers"
	"github.com/Gopher0727/LinkUp/internal/notify"
	"github.com/Gopher0727/LinkUp/internal/presence"
	"github.com/Gopher0727/LinkUp/internal/repositories"
	"github.com/Gopher0727/LinkUp/internal/routers"
	"github.com/Gopher0727/LinkUp/internal/services"
	"github.com/Gopher0727/LinkUp/internal/storage"
	"github.com/Gopher0727/LinkUp/internal/utils"
	"github.com/Gopher0727/LinkUp/internal/ws"
	logger "github.com/Gopher0727/LinkUp/middleware/log"
	"github.com/Gopher0727/LinkUp/pkg/mq"
	pkgutils "github.com/Gopher0727/LinkUp/pkg/utils"
)

func main() {
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("配置初始化失败: %v", err)
	}

	// 初始化日志
	appLogger, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer appLogger.Close()

	if cfg.JWT.Secret != "" {
		pkgutils.SetJWTSecret(cfg.JWT.Secret)
	}

	// 初始化全局 Worker Pool (协程池)
	// 用于异步处理请求和通知扇出，防止高并发下 Goroutine 暴涨
	utils.InitGlobalWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize)

	// 初始化 PostgreSQL
	dsn := storage.BuildDSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	postgres, err := storage.InitPostgres(dsn, cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns)
	if err != nil {
		log.Fatalf("postgres 初始化失败: %v", err)
	}

	// 初始化 Redis
	redisClient, err := storage.InitRedis(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, cfg.Redis.MinIdleConns)
	if err != nil {
		log.Fatalf("redis 初始化失败: %v", err)
	}

	// 初始化仓储层
	userRepo := repositories.NewUserRepository(postgres)
	groupRepo := repositories.NewGroupRepository(postgres)
	connectionRepo := repositories.NewConnectionRepository(postgres)
	invitationRepo := repositories.NewInvitationRepository(postgres)
	chatRepo := repositories.NewChatRepository(postgres)

	// 初始化 WebSocket Hub 与在线状态
	hub := ws.NewHub()
	go hub.Run()
	tracker := presence.NewTracker(redisClient, cfg.Node.ID, 90*time.Second)

	// 初始化 Kafka Producer（多节点部署时转发通知）
	var kafkaProducer *mq.KafkaProducer
	if cfg.Kafka.Enabled {
		kafkaProducer, err = mq.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Printf("Kafka 生产者初始化失败: %v。系统将以单节点模式运行。", err)
			kafkaProducer = nil
		} else {
			defer kafkaProducer.Close()
		}
	}

	// 初始化通知引擎
	var producer notify.Producer
	if kafkaProducer != nil {
		producer = kafkaProducer
	}
	notifier := notify.NewEngine(hub, producer, utils.GlobalWorkerPool, appLogger)

	// 初始化 Kafka Consumer (如果 Kafka 可用)
	// 每个节点独立的消费者组，接收其他节点转发的通知
	if kafkaProducer != nil {
		notifConsumer := consumer.NewNotificationConsumer(hub)
		consumer.StartConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID+"-"+cfg.Node.ID, cfg.Kafka.Topic, notifConsumer)
	}

	// 初始化服务层
	userService := services.NewUserService(userRepo)
	groupService := services.NewGroupService(groupRepo, userRepo, invitationRepo, chatRepo, notifier)
	connectionService := services.NewConnectionService(connectionRepo, userRepo, chatRepo, notifier)
	invitationService := services.NewInvitationService(invitationRepo, groupRepo, userRepo, notifier)

	// 初始化处理器
	userHandler := handlers.NewUserHandler(userService)
	groupHandler := handlers.NewGroupHandler(groupService)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)

	// 配置并创建 Gin 引擎
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// 设置路由
	routers.SetupRoutes(r,
		userHandler,
		groupHandler,
		connectionHandler,
		invitationHandler,
		hub,
		tracker,
	)

	// 启动服务器
	log.Printf("正在启动服务器，监听端口 :%d\n", cfg.Server.Port)
	if err := r.Run(":" + strconv.FormatInt(int64(cfg.Server.Port), 10)); err != nil {
		log.Fatalf("启动服务器失败: %v", err)
	}
}
