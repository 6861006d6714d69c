package service

// Service 实例变量
var (
	AuthServiceInstance    *AuthService
	ArticleServiceInstance *ArticleService
	TopicServiceInstance   *TopicService
	CommentServiceInstance *CommentService
)

// dao层初始化完成后，调用Init函数
func Init() error {
	// 初始化核心服务
	AuthServiceInstance = NewAuthService()
	ArticleServiceInstance = NewArticleService()
	TopicServiceInstance = NewTopicService()
	CommentServiceInstance = NewCommentService()

	return nil
}
