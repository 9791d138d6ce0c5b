package public

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/service"
)

func decodeCart(t *testing.T, resp envelope) service.CartView {
	t.Helper()
	var view service.CartView
	if err := json.Unmarshal(resp.Data, &view); err != nil {
		t.Fatalf("decode cart failed: %v", err)
	}
	return view
}

func TestCartEndpointsAndCheckout(t *testing.T) {
	env := setupHandlerTest(t)
	buyer := env.createUser(t, "buyer@example.com", constants.RoleUser)
	chair := env.createProduct(t, "Chair", 10, 5, "Red", "Blue")
	lamp := env.createProduct(t, "Lamp", 3, 9)
	r := env.engine(buyer)

	w, resp := doJSON(t, r, http.MethodGet, "/cart", nil)
	expectStatus(t, w, resp, http.StatusOK, "")
	if view := decodeCart(t, resp); len(view.Items) != 0 || view.ItemCount != 0 {
		t.Fatalf("new cart should be empty: %+v", view)
	}

	w, resp = doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{"product_id": chair.ID, "color_variant": "Blue", "quantity": 2})
	expectStatus(t, w, resp, http.StatusOK, "")
	w, resp = doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{"product_id": lamp.ID})
	expectStatus(t, w, resp, http.StatusOK, "")
	view := decodeCart(t, resp)
	if view.ItemCount != 3 || view.Total.String() != "23.00" {
		t.Fatalf("unexpected cart: %+v", view)
	}
	if view.Items[1].ColorVariant != constants.CartDefaultColorVariant {
		t.Fatalf("product without variants should use the default color: %+v", view.Items[1])
	}

	w, resp = doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{"product_id": chair.ID, "color_variant": "Green"})
	expectStatus(t, w, resp, http.StatusBadRequest, "color variant is not available for this product")

	w, resp = doJSON(t, r, http.MethodPut, "/cart/items", map[string]interface{}{"product_id": chair.ID, "color_variant": "Blue", "quantity": 99})
	expectStatus(t, w, resp, http.StatusOK, "")
	if view := decodeCart(t, resp); view.Items[0].Quantity != 5 {
		t.Fatalf("quantity should be clamped to stock: %+v", view.Items[0])
	}

	w, resp = doJSON(t, r, http.MethodDelete, "/cart/items?product_id=999", nil)
	expectStatus(t, w, resp, http.StatusNotFound, "cart item not found")

	w, resp = doJSON(t, r, http.MethodPost, "/cart/checkout", map[string]interface{}{"order_number": ""})
	expectStatus(t, w, resp, http.StatusBadRequest, "PO Number is required")

	w, resp = doJSON(t, r, http.MethodPost, "/cart/checkout", map[string]interface{}{"order_number": "PO-CART-1"})
	expectStatus(t, w, resp, http.StatusCreated, "")
	var order models.Order
	if err := json.Unmarshal(resp.Data, &order); err != nil {
		t.Fatalf("decode order failed: %v", err)
	}
	if order.TotalAmount.String() != "53.00" || len(order.Items) != 2 {
		t.Fatalf("unexpected order: %+v", order)
	}

	w, resp = doJSON(t, r, http.MethodGet, "/cart", nil)
	if view := decodeCart(t, resp); len(view.Items) != 0 {
		t.Fatalf("cart should be cleared after checkout: %+v", view)
	}
	w, resp = doJSON(t, r, http.MethodPost, "/cart/checkout", map[string]interface{}{"order_number": "PO-CART-2"})
	expectStatus(t, w, resp, http.StatusBadRequest, "cart is empty")
}

func TestDeleteCartItemAndClear(t *testing.T) {
	env := setupHandlerTest(t)
	buyer := env.createUser(t, "buyer@example.com", constants.RoleUser)
	chair := env.createProduct(t, "Chair", 10, 5, "Red", "Blue")
	r := env.engine(buyer)

	for _, color := range []string{"Red", "Blue"} {
		w, resp := doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{"product_id": chair.ID, "color_variant": color})
		expectStatus(t, w, resp, http.StatusOK, "")
	}

	w, resp := doJSON(t, r, http.MethodDelete, "/cart/items", map[string]interface{}{"product_id": chair.ID, "color_variant": "Blue"})
	expectStatus(t, w, resp, http.StatusOK, "")
	view := decodeCart(t, resp)
	if len(view.Items) != 1 || view.Items[0].ColorVariant != "Red" {
		t.Fatalf("only the blue line should be removed: %+v", view)
	}

	w, resp = doJSON(t, r, http.MethodDelete, "/cart", nil)
	expectStatus(t, w, resp, http.StatusOK, "")
	if view := decodeCart(t, resp); len(view.Items) != 0 || view.Total.String() != "0.00" {
		t.Fatalf("cart should be empty: %+v", view)
	}
}
