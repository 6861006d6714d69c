package handler

import (
	"fmt"
	"reflect"

	auth_handler "github.com/ayxworxfr/go_blog/internal/handler/auth"
	blog_handler "github.com/ayxworxfr/go_blog/internal/handler/blog"
)

var (
	AllHandlerInstance     []any
	LoginHandlerInstance   auth_handler.ILoginHandler
	PersonHandlerInstance  auth_handler.IPersonHandler
	ArticleHandlerInstance blog_handler.IArticleHandler
	TopicHandlerInstance   blog_handler.ITopicHandler
	CommentHandlerInstance blog_handler.ICommentHandler
	TokenHandlerInstance   blog_handler.ITokenHandler
)

func init() {
	LoginHandlerInstance = &auth_handler.LoginHandler{}

	// 下列实例使用包扫描自动注册路由
	// createAndRegister(&LoginHandlerInstance, &auth_handler.LoginHandler{})
	createAndRegister(&PersonHandlerInstance, &auth_handler.PersonHandler{})
	createAndRegister(&ArticleHandlerInstance, &blog_handler.ArticleHandler{})
	createAndRegister(&TopicHandlerInstance, &blog_handler.TopicHandler{})
	createAndRegister(&CommentHandlerInstance, &blog_handler.CommentHandler{})
	createAndRegister(&TokenHandlerInstance, &blog_handler.TokenHandler{})
}

func createAndRegister(addressPtr any, handler any) {
	// 获取addressPtr的反射值
	addressValue := reflect.ValueOf(addressPtr)

	// 确保addressPtr是指针
	if addressValue.Kind() != reflect.Ptr {
		panic("addressPtr must be a pointer")
	}

	// 获取指针指向的值
	addressElem := addressValue.Elem()

	// 确保可以设置值
	if !addressElem.CanSet() {
		panic("addressPtr value cannot be set")
	}

	// 验证handler类型是否可以赋值给addressElem
	handlerType := reflect.TypeOf(handler)
	if !handlerType.Implements(addressElem.Type()) {
		panic(fmt.Sprintf("handler type %v does not implement interface %v", handlerType, addressElem.Type()))
	}

	// 设置值
	addressElem.Set(reflect.ValueOf(handler))

	// 添加到AllHandlerInstance
	AllHandlerInstance = append(AllHandlerInstance, handler)
}
