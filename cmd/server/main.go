// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"csr-portal-go/internal/config"
	"csr-portal-go/internal/handler"
	"csr-portal-go/internal/middleware"
	"csr-portal-go/internal/pipeline"
	"csr-portal-go/internal/repository"
	"csr-portal-go/internal/service"
	"csr-portal-go/pkg/database"
	"csr-portal-go/pkg/es"
	"csr-portal-go/pkg/kafka"
	"csr-portal-go/pkg/log"
	"csr-portal-go/pkg/storage"
	"csr-portal-go/pkg/token"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis、对象存储、检索与消息队列
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	objectStore := storage.InitMinIO(cfg.MinIO)
	esClient, err := es.InitES(cfg.Elasticsearch)
	if err != nil {
		log.Errorf("es 初始化失败 %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	// 4. 初始化 Repository
	userRepo := repository.NewUserRepository(database.DB)
	corpRepo := repository.NewCorpRepository(database.DB)
	deptRepo := repository.NewDeptRepository(database.DB)
	menuRepo := repository.NewMenuRepository(database.DB)
	codeRepo := repository.NewCommCodeRepository(database.DB)
	noticeRepo := repository.NewNoticeRepository(database.DB)
	reqRepo := repository.NewReqRepository(database.DB)
	relRepo := repository.NewAdminRelRepository(database.DB)

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	userService := service.NewUserService(userRepo, jwtManager)
	corpService := service.NewCorpService(corpRepo)
	deptService := service.NewDeptService(deptRepo)
	menuService := service.NewMenuService(menuRepo)
	codeService := service.NewCommCodeService(codeRepo)
	noticeService := service.NewNoticeService(noticeRepo, objectStore, esClient)
	reqService := service.NewReqService(reqRepo, objectStore, kafka.Producer())
	adminService := service.NewAdminService(relRepo, menuRepo, userRepo)

	// 6. 初始化审计管道并启动后台 Kafka 消费者
	processor := pipeline.NewProcessor(esClient)
	go kafka.StartConsumer(cfg.Kafka, processor)

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 8. 注册路由
	authHandler := handler.NewAuthHandler(userService)
	userHandler := handler.NewUserHandler(userService)
	corpHandler := handler.NewCorpHandler(corpService)
	deptHandler := handler.NewDeptHandler(deptService)
	menuHandler := handler.NewMenuHandler(menuService)
	codeHandler := handler.NewCommCodeHandler(codeService)
	noticeHandler := handler.NewNoticeHandler(noticeService)
	reqHandler := handler.NewReqHandler(reqService)
	adminHandler := handler.NewAdminHandler(adminService)

	authed := middleware.AuthMiddleware(jwtManager, userService)

	apiV1 := r.Group("/api/v1")
	{
		// Auth 路由组
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refreshToken", authHandler.RefreshToken)

			authedAuth := auth.Group("/")
			authedAuth.Use(authed)
			{
				authedAuth.POST("/logout", authHandler.Logout)
				authedAuth.GET("/me", authHandler.GetProfile)
				authedAuth.PUT("/password", authHandler.ChangePassword)
			}
		}

		// 请求单路由组，登录用户可访问
		reqs := apiV1.Group("/reqs")
		reqs.Use(authed)
		{
			reqs.GET("", reqHandler.ListReqs)
			reqs.GET("/:id", reqHandler.GetReq)
			reqs.POST("", reqHandler.CreateReq)
			reqs.PUT("/:id", reqHandler.UpdateReq)
			reqs.DELETE("/:id", reqHandler.DeleteReq)
			reqs.GET("/files/:fileId", reqHandler.DownloadFile)
		}

		// 公告路由组，查看公开、管理需要管理员
		notices := apiV1.Group("/notices")
		notices.Use(authed)
		{
			notices.GET("", noticeHandler.ListNotices)
			notices.GET("/search", noticeHandler.SearchNotices)
			notices.GET("/:id", noticeHandler.GetNotice)
			notices.GET("/files/:fileId", noticeHandler.DownloadFile)

			noticeAdmin := notices.Group("")
			noticeAdmin.Use(middleware.AdminAuthMiddleware())
			{
				noticeAdmin.POST("", noticeHandler.CreateNotice)
				noticeAdmin.PUT("/:id", noticeHandler.UpdateNotice)
				noticeAdmin.DELETE("/:id", noticeHandler.DeleteNotice)
			}
		}

		// 菜单树与代码组是全员可读的基础数据
		base := apiV1.Group("/")
		base.Use(authed)
		{
			base.GET("/menus/tree", menuHandler.GetTree)
			base.GET("/codes/tree", codeHandler.GetTree)
			base.GET("/codes/group/:group", codeHandler.GetCodeGroup)
			base.GET("/corps", corpHandler.ListCorps)
			base.GET("/depts/tree", deptHandler.GetTree)
		}

		// 管理员路由组，需要同时通过认证和管理员授权两个中间件
		admin := apiV1.Group("/admin")
		admin.Use(authed, middleware.AdminAuthMiddleware())
		{
			users := admin.Group("/users")
			{
				users.GET("", userHandler.ListUsers)
				users.GET("/:id", userHandler.GetUser)
				users.POST("", userHandler.CreateUser)
				users.PUT("/:id", userHandler.UpdateUser)
				users.DELETE("/:id", userHandler.DeleteUser)
				users.GET("/:id/menus", adminHandler.GetUserMenus)
				users.PUT("/:id/menus", adminHandler.AssignMenus)
			}

			corps := admin.Group("/corps")
			{
				corps.GET("/:corCd", corpHandler.GetCorp)
				corps.POST("", corpHandler.CreateCorp)
				corps.PUT("/:corCd", corpHandler.UpdateCorp)
			}

			depts := admin.Group("/depts")
			{
				depts.GET("/:id", deptHandler.GetDept)
				depts.POST("", deptHandler.CreateDept)
				depts.PUT("/:id", deptHandler.UpdateDept)
				depts.DELETE("/:id", deptHandler.DeleteDept)
				depts.PUT("/:id/move-up", deptHandler.MoveUp)
				depts.PUT("/:id/move-down", deptHandler.MoveDown)
			}

			menus := admin.Group("/menus")
			{
				menus.GET("/:id", menuHandler.GetMenu)
				menus.GET("/:id/parent-candidates", menuHandler.ListParentCandidates)
				menus.GET("/:id/admins", adminHandler.GetMenuAdmins)
				menus.POST("", menuHandler.CreateMenu)
				menus.PUT("/:id", menuHandler.UpdateMenu)
				menus.DELETE("/:id", menuHandler.DeleteMenu)
				menus.PUT("/:id/move-up", menuHandler.MoveUp)
				menus.PUT("/:id/move-down", menuHandler.MoveDown)
			}

			codes := admin.Group("/codes")
			{
				codes.POST("", codeHandler.CreateCode)
				codes.PUT("/:id", codeHandler.UpdateCode)
				codes.DELETE("/:id", codeHandler.DeleteCode)
			}
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
