package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
)

type handlers struct {
	deps Deps
}

type productListResponse struct {
	Count   int              `json:"count"`
	Results []domain.Product `json:"results"`
}

func (h *handlers) listProducts(c *gin.Context) {
	filter := catalogsvc.Filter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}
	products, err := h.deps.CatalogSvc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, productListResponse{Count: len(products), Results: products})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.CatalogSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) listCategories(c *gin.Context) {
	cats, err := h.deps.CatalogSvc.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": cats})
}

type loginRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"tokenType"`
	ExpiresIn int         `json:"expiresIn"`
	SessionID string      `json:"sessionId"`
	User      domain.User `json:"user"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidBody(err))
		return
	}
	token, sess, err := h.deps.SessionSvc.Login(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: h.deps.SessionSvc.TTLSeconds(),
		SessionID: sess.ID,
		User:      sess.User,
	})
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.deps.SessionSvc.Logout(c.Request.Context(), c.GetString(ctxTokenKey)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type meResponse struct {
	SessionID string      `json:"sessionId"`
	User      domain.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func (h *handlers) me(c *gin.Context) {
	sess := sessionFrom(c)
	c.JSON(http.StatusOK, meResponse{SessionID: sess.ID, User: sess.User, ExpiresAt: sess.ExpiresAt})
}

type cartResponse struct {
	Items    []domain.LineItem `json:"items"`
	Count    int               `json:"count"`
	Total    int64             `json:"total"`
	Currency string            `json:"currency"`
	Version  uint64            `json:"version"`
}

func (h *handlers) cartJSON(c *gin.Context, status int, sum cartsvc.Summary) {
	c.JSON(status, cartResponse{
		Items:    sum.Items,
		Count:    sum.Count,
		Total:    sum.Total,
		Currency: h.deps.Currency,
		Version:  sum.Version,
	})
}

func (h *handlers) getCart(c *gin.Context) {
	h.cartJSON(c, http.StatusOK, h.deps.CartSvc.Summary(cartFrom(c)))
}

type addItemRequest struct {
	ProductID string  `json:"productId"`
	Quantity  *int    `json:"quantity"`
	Color     *string `json:"color"`
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		writeError(c, invalidBody(err))
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	sum, err := h.deps.CartSvc.AddProduct(c.Request.Context(), cartFrom(c), cartsvc.AddInput{
		ProductID: req.ProductID,
		Quantity:  qty,
		Color:     req.Color,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	h.cartJSON(c, http.StatusOK, sum)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	h.cartJSON(c, http.StatusOK, h.deps.CartSvc.Remove(cartFrom(c), id))
}

func (h *handlers) clearCart(c *gin.Context) {
	h.cartJSON(c, http.StatusOK, h.deps.CartSvc.Clear(cartFrom(c)))
}
