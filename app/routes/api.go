package routes

import (
	"net/http"

	"github.com/shashiranjanraj/tienda/app/controllers"
	"github.com/shashiranjanraj/tienda/pkg/metrics"
	"github.com/shashiranjanraj/tienda/pkg/response"
	"github.com/shashiranjanraj/tienda/pkg/router"
	"github.com/shashiranjanraj/tienda/pkg/storage"
)

// Controllers bundles everything RegisterAPI mounts.
type Controllers struct {
	Products *controllers.ProductController
	Carts    *controllers.CartController
	Realtime *controllers.RealtimeController
	GraphQL  *controllers.GraphQLController
}

func RegisterAPI(r *router.Router, c Controllers) {
	api := r.Group("/api")

	products := api.Group("/products")
	products.Get("", "products.index", c.Products.List)
	products.Get("/{pid}", "products.show", c.Products.Show)
	products.Post("", "products.store", c.Products.Create)
	products.Put("/{pid}", "products.update", c.Products.Update)
	products.Delete("/{pid}", "products.destroy", c.Products.Delete)
	products.Post("/{pid}/thumbnails", "products.thumbnails", c.Products.UploadThumbnail)

	carts := api.Group("/carts")
	carts.Post("", "carts.store", c.Carts.Create)
	carts.Get("/{cid}", "carts.show", c.Carts.Show)
	carts.Post("/{cid}/products/{pid}", "carts.add", c.Carts.AddProduct)
	carts.Put("/{cid}", "carts.replace", c.Carts.Replace)
	carts.Delete("/{cid}/products/{pid}", "carts.remove", c.Carts.RemoveItem)

	r.Get("/ws", "realtime.products", c.Realtime.ServeWS)
	r.HandleFunc("/graphql", c.GraphQL.Handle)
	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Message(w, "ok")
	})

	// locally stored thumbnails
	fs := http.StripPrefix("/storage/", http.FileServer(http.Dir(storage.LocalRoot())))
	r.Mount("/storage", fs)
}
