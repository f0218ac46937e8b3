package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
)

// SystemModule serves /healthz and, when a registry is given, /metrics.
type SystemModule struct {
	Metrics prometheus.Gatherer
}

func NewSystemModule(metrics prometheus.Gatherer) *SystemModule {
	return &SystemModule{Metrics: metrics}
}

func (m *SystemModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", handlers.Health)
	if m.Metrics != nil {
		rg.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Metrics, promhttp.HandlerOpts{})))
	}
}
