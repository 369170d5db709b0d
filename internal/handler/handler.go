package handler

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/trendscope/internal/config"
	"github.com/user/trendscope/internal/repository"
	"github.com/user/trendscope/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Repos     *repository.Repositories
	Config    *config.Config
	Stats     *service.StatsService
	Dashboard *service.DashboardService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	// 创建抓取客户端与统计服务
	serp := service.NewSerpClient(cfg)
	stats := service.NewStatsService(repos, serp)

	return &Handler{
		Repos:     repos,
		Config:    cfg,
		Stats:     stats,
		Dashboard: service.NewDashboardService(repos),
	}
}

var countryCode = regexp.MustCompile(`^[a-zA-Z]{2}$`)

// RegisterValidators 注册请求校验规则
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// country 校验：两位国家代码，留空表示全球
		v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value == "" || countryCode.MatchString(value)
		})
	}
}
