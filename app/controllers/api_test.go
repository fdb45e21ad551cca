package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/tienda/app/controllers"
	"github.com/shashiranjanraj/tienda/app/routes"
	"github.com/shashiranjanraj/tienda/app/services"
	"github.com/shashiranjanraj/tienda/app/store"
	"github.com/shashiranjanraj/tienda/pkg/event"
	"github.com/shashiranjanraj/tienda/pkg/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	products := store.NewFileProducts(dir)
	carts := store.NewFileCarts(dir)
	catalog := services.NewCatalog(products, false)
	cartSvc := services.NewCart(carts, products)

	gc, err := controllers.NewGraphQL(catalog, cartSvc)
	require.NoError(t, err)

	r := router.New()
	routes.RegisterAPI(r, routes.Controllers{
		Products: controllers.NewProduct(catalog),
		Carts:    controllers.NewCart(cartSvc),
		Realtime: controllers.NewRealtime(catalog),
		GraphQL:  gc,
	})
	t.Cleanup(event.Flush)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func productBody(code string) map[string]interface{} {
	return map[string]interface{}{
		"title":       "Teclado",
		"description": "Switches rojos",
		"code":        code,
		"price":       74.99,
		"stock":       10,
		"category":    "periféricos",
	}
}

func createProduct(t *testing.T, srv *httptest.Server, code string) int64 {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/products", productBody(code))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	payload := body["payload"].(map[string]interface{})
	return int64(payload["id"].(float64))
}

func TestCreateAndFetchProduct(t *testing.T) {
	srv := newTestServer(t)

	id := createProduct(t, srv, "TEC-001")
	assert.Equal(t, int64(1), id)

	resp, body := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/products/%d", srv.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
	payload := body["payload"].(map[string]interface{})
	assert.Equal(t, "Teclado", payload["title"])
	assert.Equal(t, true, payload["status"], "status defaults to true")
	assert.Equal(t, []interface{}{}, payload["thumbnails"])
}

func TestCreateProductValidation(t *testing.T) {
	srv := newTestServer(t)

	bad := productBody("X")
	bad["price"] = 0
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/products", bad)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "error", body["status"])
	assert.NotEmpty(t, body["error"])
}

func TestProductNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/products/99", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Producto no encontrado", body["error"])

	// non-numeric ids behave the same as absent ones
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/products/abc", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Producto no encontrado", body["error"])
}

func TestListPagination(t *testing.T) {
	srv := newTestServer(t)
	for _, code := range []string{"A", "B", "C"} {
		createProduct(t, srv, code)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/products?limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
	assert.Len(t, body["payload"], 2)
	assert.Equal(t, float64(2), body["totalPages"])
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, true, body["hasNextPage"])
	assert.Equal(t, false, body["hasPrevPage"])
	assert.Nil(t, body["prevLink"])
	require.NotNil(t, body["nextLink"])
	assert.Contains(t, body["nextLink"].(string), "page=2")
	assert.Contains(t, body["nextLink"].(string), "limit=2")

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/products?limit=2&page=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["payload"], 1)
	assert.Equal(t, true, body["hasPrevPage"])
	assert.Nil(t, body["nextLink"])
}

func TestUpdateIgnoresBodyID(t *testing.T) {
	srv := newTestServer(t)
	id := createProduct(t, srv, "A")

	resp, body := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/products/%d", srv.URL, id), map[string]interface{}{
		"id":    999,
		"title": "Teclado nuevo",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := body["payload"].(map[string]interface{})
	assert.Equal(t, float64(id), payload["id"])
	assert.Equal(t, "Teclado nuevo", payload["title"])
	assert.Equal(t, "Switches rojos", payload["description"], "absent fields survive")

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/products/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteProduct(t *testing.T) {
	srv := newTestServer(t)
	id := createProduct(t, srv, "A")

	resp, _ := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/products/%d", srv.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/products/%d", srv.URL, id), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartFlow(t *testing.T) {
	srv := newTestServer(t)
	pid := createProduct(t, srv, "A")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/carts", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cid := int64(body["payload"].(map[string]interface{})["id"].(float64))

	url := fmt.Sprintf("%s/api/carts/%d/products/%d", srv.URL, cid, pid)
	resp, _ = doJSON(t, http.MethodPost, url, map[string]interface{}{"quantity": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = doJSON(t, http.MethodPost, url, map[string]interface{}{"quantity": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items := body["payload"].(map[string]interface{})["products"].([]interface{})
	require.Len(t, items, 1, "adding the same product merges quantities")
	assert.Equal(t, float64(5), items[0].(map[string]interface{})["quantity"])
}

func TestCartShowsPlaceholderAfterProductDeletion(t *testing.T) {
	srv := newTestServer(t)
	pid := createProduct(t, srv, "A")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/carts", map[string]interface{}{
		"product": pid, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cid := int64(body["payload"].(map[string]interface{})["id"].(float64))

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/products/%d", srv.URL, pid), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/carts/%d", srv.URL, cid), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["payload"].(map[string]interface{})["products"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, "Producto no disponible", line["title"])
	assert.Equal(t, false, line["available"])
	assert.Equal(t, float64(2), line["quantity"])
}

func TestCartNotFound(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/carts/42", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Carrito no encontrado", body["error"])
}

func TestCartReplaceRejectsUnknownProducts(t *testing.T) {
	srv := newTestServer(t)
	pid := createProduct(t, srv, "A")
	_, body := doJSON(t, http.MethodPost, srv.URL+"/api/carts", nil)
	cid := int64(body["payload"].(map[string]interface{})["id"].(float64))

	resp, body := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/carts/%d", srv.URL, cid), map[string]interface{}{
		"products": []map[string]interface{}{
			{"product": pid, "quantity": 1},
			{"product": 42, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Uno o más productos no existen", body["error"])
}

func TestGraphQLProductsQuery(t *testing.T) {
	srv := newTestServer(t)
	createProduct(t, srv, "A")
	createProduct(t, srv, "B")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/graphql", map[string]interface{}{
		"query": `{ products(limit: 10) { id title price } }`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Nil(t, body["errors"], "graphql errors: %v", body["errors"])
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["products"], 2)
}

func TestWebsocketReceivesCatalog(t *testing.T) {
	srv := newTestServer(t)
	createProduct(t, srv, "A")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// newcomers get the current catalog immediately
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg struct {
		Event   string                   `json:"event"`
		Payload []map[string]interface{} `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "products", msg.Event)
	require.Len(t, msg.Payload, 1)

	// a create pushes the whole catalog again
	createProduct(t, srv, "B")
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "products", msg.Event)
	assert.Len(t, msg.Payload, 2)
}

func TestWebsocketClientMutatesCatalog(t *testing.T) {
	srv := newTestServer(t)
	existing := createProduct(t, srv, "A")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var msg struct {
		Event   string                   `json:"event"`
		Payload []map[string]interface{} `json:"payload"`
	}
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Len(t, msg.Payload, 1)

	// clients can create products over the socket; everyone gets the
	// refreshed catalog back
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"event":   "crearProducto",
		"payload": productBody("B"),
	}))
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "products", msg.Event)
	require.Len(t, msg.Payload, 2)

	// and delete them
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"event":   "eliminarProducto",
		"payload": existing,
	}))
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Len(t, msg.Payload, 1)
	assert.Equal(t, "B", msg.Payload[0]["code"])

	resp, _ := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/products/%d", srv.URL, existing), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
}
