package controllers

import (
	"fmt"
	"net/http"

	gql "github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/tienda/app/models"
	"github.com/shashiranjanraj/tienda/app/services"
	"github.com/shashiranjanraj/tienda/app/store"
	"github.com/shashiranjanraj/tienda/pkg/graphql"
)

// GraphQLController exposes a read-only query surface over the catalog and
// carts. Mutations stay on the REST routes.
type GraphQLController struct {
	handler http.HandlerFunc
}

func NewGraphQL(catalog *services.CatalogService, carts *services.CartService) (*GraphQLController, error) {
	productType := gql.NewObject(gql.ObjectConfig{
		Name: "Product",
		Fields: gql.Fields{
			"id":          &gql.Field{Type: gql.NewNonNull(gql.Int)},
			"title":       &gql.Field{Type: gql.NewNonNull(gql.String)},
			"description": &gql.Field{Type: gql.String},
			"code":        &gql.Field{Type: gql.String},
			"price":       &gql.Field{Type: gql.NewNonNull(gql.Float)},
			"stock":       &gql.Field{Type: gql.Int},
			"category":    &gql.Field{Type: gql.String},
			"status":      &gql.Field{Type: gql.Boolean},
			"thumbnails":  &gql.Field{Type: gql.NewList(gql.String)},
		},
	})

	cartItemType := gql.NewObject(gql.ObjectConfig{
		Name: "CartItem",
		Fields: gql.Fields{
			"product":     &gql.Field{Type: gql.NewNonNull(gql.Int), Resolve: fieldOf(func(i models.EnrichedItem) interface{} { return i.ProductID })},
			"quantity":    &gql.Field{Type: gql.NewNonNull(gql.Int), Resolve: fieldOf(func(i models.EnrichedItem) interface{} { return i.Quantity })},
			"title":       &gql.Field{Type: gql.String, Resolve: fieldOf(func(i models.EnrichedItem) interface{} { return i.Title })},
			"description": &gql.Field{Type: gql.String, Resolve: fieldOf(func(i models.EnrichedItem) interface{} { return i.Description })},
			"price":       &gql.Field{Type: gql.Float, Resolve: fieldOf(func(i models.EnrichedItem) interface{} { return i.Price })},
			"available":   &gql.Field{Type: gql.Boolean, Resolve: fieldOf(func(i models.EnrichedItem) interface{} { return i.Available })},
		},
	})

	cartType := gql.NewObject(gql.ObjectConfig{
		Name: "Cart",
		Fields: gql.Fields{
			"id": &gql.Field{Type: gql.NewNonNull(gql.Int)},
			"products": &gql.Field{
				Type: gql.NewList(cartItemType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					c, ok := p.Source.(*models.EnrichedCart)
					if !ok {
						return nil, fmt.Errorf("unexpected cart source %T", p.Source)
					}
					return c.Items, nil
				},
			},
		},
	})

	rootQuery := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"products": &gql.Field{
				Type: gql.NewList(productType),
				Args: gql.FieldConfigArgument{
					"limit":    &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 10},
					"page":     &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 1},
					"sort":     &gql.ArgumentConfig{Type: gql.String},
					"category": &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					q := store.ListQuery{
						Limit: intArg(p, "limit"),
						Page:  intArg(p, "page"),
					}
					q.Sort, _ = p.Args["sort"].(string)
					q.Category, _ = p.Args["category"].(string)
					page, err := catalog.List(p.Context, q)
					if err != nil {
						return nil, err
					}
					return page.Items, nil
				},
			},
			"product": &gql.Field{
				Type: productType,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return catalog.Get(p.Context, int64(intArg(p, "id")))
				},
			},
			"cart": &gql.Field{
				Type: cartType,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return carts.Get(p.Context, int64(intArg(p, "id")))
				},
			},
		},
	})

	schema, err := graphql.NewSchema(rootQuery)
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	return &GraphQLController{handler: graphql.Handler(schema)}, nil
}

func (gc *GraphQLController) Handle(w http.ResponseWriter, r *http.Request) {
	gc.handler(w, r)
}

func intArg(p gql.ResolveParams, name string) int {
	n, _ := p.Args[name].(int)
	return n
}

func fieldOf(get func(models.EnrichedItem) interface{}) gql.FieldResolveFn {
	return func(p gql.ResolveParams) (interface{}, error) {
		item, ok := p.Source.(models.EnrichedItem)
		if !ok {
			return nil, fmt.Errorf("unexpected item source %T", p.Source)
		}
		return get(item), nil
	}
}
