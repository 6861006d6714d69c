package app

import (
	"github.com/ayxworxfr/go_blog/internal/app/router"
	"github.com/ayxworxfr/go_blog/internal/handler"
	"github.com/ayxworxfr/go_blog/internal/middleware"
)

func (a *App) SetupRoutes() {
	root := a.Group("/")
	root.GET("/health", handler.HelloHandler)

	api := a.Group("/api")
	api.GET("/hello", handler.HelloHandler)

	// 公开路由：登录、刷新、注册
	router.AutoRegister.RegisterStruct(
		api,
		handler.LoginHandlerInstance,
	)

	// 公开只读路由：文章和主题浏览不要求登录
	router.AutoRegister.RegisterRouterByFunc(
		api,
		handler.ArticleHandlerInstance.GetArticle,
		handler.ArticleHandlerInstance.GetArticleList,
		handler.ArticleHandlerInstance.GetArticleListByTopics,
		handler.ArticleHandlerInstance.SearchArticleList,
		handler.TopicHandlerInstance.GetTopic,
		handler.TopicHandlerInstance.GetTopicList,
		handler.CommentHandlerInstance.GetCommentList,
	)

	// 使用JWT中间件保护的路由
	protected := api.Group("/protected")
	protected.Use(middleware.JWTMiddleware())

	// 写操作与作者信息路由
	router.AutoRegister.RegisterStruct(protected, handler.AllHandlerInstance...)
	// router.TagRegister.RegisterByPackage(protected, "internal/handler/blog")
}
