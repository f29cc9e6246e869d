package route_catalog

import "github.com/gin-gonic/gin"

// Guards 各路由组共用的中间件
type Guards struct {
	Auth  gin.HandlerFunc // 会话校验
	Admin gin.HandlerFunc // 管理员校验，需在 Auth 之后
	Limit gin.HandlerFunc // 限流
}
