package server

import (
	"errors"
	"net/http"
	"strconv"

	orderdomain "github.com/dakshina-arts/boxoffice/internal/order/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateOrder(c *gin.Context) {
	var req orderdomain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	gatewayOrder, err := s.ordersvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gatewayOrder)
}

func (s *Server) VerifyOrder(c *gin.Context) {
	var req orderdomain.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.ordersvc.Verify(c.Request.Context(), req)
	if err != nil && !errors.Is(err, orderdomain.ErrAlreadyProcessed) {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RecentOrders lists the latest recorded orders for reconciliation against
// the gateway dashboard.
func (s *Server) RecentOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	orders, err := s.ordersvc.Recent(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
