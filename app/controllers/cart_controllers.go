package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/tienda/app/models"
	"github.com/shashiranjanraj/tienda/app/services"
	"github.com/shashiranjanraj/tienda/pkg/bind"
	"github.com/shashiranjanraj/tienda/pkg/response"
)

const msgCartNotFound = "Carrito no encontrado"

type CartController struct {
	carts *services.CartService
}

func NewCart(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// Create opens a cart. The body is optional; when present it may seed the
// cart with one product.
func (cc *CartController) Create(w http.ResponseWriter, r *http.Request) {
	// both body spellings are seen in the wild
	var in struct {
		Product   int64 `json:"product"`
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}
	if r.ContentLength != 0 {
		if _, err := bind.JSON(r, &in); err != nil {
			response.BadRequest(w, "cuerpo de la petición inválido")
			return
		}
	}
	productID := in.Product
	if productID == 0 {
		productID = in.ProductID
	}
	c, err := cc.carts.Create(r.Context(), productID, in.Quantity)
	if err != nil {
		fail(w, r, err, msgProductNotFound)
		return
	}
	response.Created(w, c)
}

// Show returns the cart with catalog data joined onto each line.
func (cc *CartController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "cid")
	if !ok {
		response.NotFound(w, msgCartNotFound)
		return
	}
	c, err := cc.carts.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err, msgCartNotFound)
		return
	}
	response.Success(w, c)
}

// AddProduct adds one product to the cart. The optional body carries a
// quantity; absent, one unit is added.
func (cc *CartController) AddProduct(w http.ResponseWriter, r *http.Request) {
	cartID, ok := pathID(r, "cid")
	if !ok {
		response.NotFound(w, msgCartNotFound)
		return
	}
	productID, ok := pathID(r, "pid")
	if !ok {
		response.NotFound(w, msgProductNotFound)
		return
	}
	in := struct {
		Quantity int `json:"quantity"`
	}{Quantity: 1}
	if r.ContentLength != 0 {
		if _, err := bind.JSON(r, &in); err != nil {
			response.BadRequest(w, "cuerpo de la petición inválido")
			return
		}
	}
	c, err := cc.carts.AddProduct(r.Context(), cartID, productID, in.Quantity)
	if err != nil {
		fail(w, r, err, msgCartNotFound)
		return
	}
	response.Success(w, c)
}

// Replace swaps the cart contents with the posted product list.
func (cc *CartController) Replace(w http.ResponseWriter, r *http.Request) {
	cartID, ok := pathID(r, "cid")
	if !ok {
		response.NotFound(w, msgCartNotFound)
		return
	}
	var in struct {
		Products []models.CartItem `json:"products"`
	}
	if _, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "cuerpo de la petición inválido")
		return
	}
	c, err := cc.carts.Replace(r.Context(), cartID, in.Products)
	if err != nil {
		fail(w, r, err, msgCartNotFound)
		return
	}
	response.Success(w, c)
}

// RemoveItem drops one product from the cart.
func (cc *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := pathID(r, "cid")
	if !ok {
		response.NotFound(w, msgCartNotFound)
		return
	}
	productID, ok := pathID(r, "pid")
	if !ok {
		response.NotFound(w, msgProductNotFound)
		return
	}
	c, err := cc.carts.RemoveItem(r.Context(), cartID, productID)
	if err != nil {
		fail(w, r, err, msgCartNotFound)
		return
	}
	response.Success(w, c)
}
