package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/tienda/app/models"
	"github.com/shashiranjanraj/tienda/pkg/metrics"
	"github.com/shashiranjanraj/tienda/pkg/paginate"
)

// ConnectMongo dials the server and pings it before returning the database
// handle.
func ConnectMongo(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client.Database(dbName), nil
}

// MongoProducts keeps catalog records in a "products" collection with a
// unique index on code. Filtering, sorting and paging all run server side.
type MongoProducts struct {
	coll *mongo.Collection
}

func NewMongoProducts(ctx context.Context, db *mongo.Database) (*MongoProducts, error) {
	coll := db.Collection("products")
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create code index: %w", err)
	}
	return &MongoProducts{coll: coll}, nil
}

func (s *MongoProducts) All(ctx context.Context) ([]models.Product, error) {
	defer metrics.ObserveStoreOp("mongo", "products.all", time.Now())
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	var items []models.Product
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return items, nil
}

func (s *MongoProducts) Paginate(ctx context.Context, q ListQuery) (*ProductPage, error) {
	defer metrics.ObserveStoreOp("mongo", "products.paginate", time.Now())
	q = q.Normalize()
	filter := bson.D{}
	if q.Category != "" {
		filter = bson.D{{Key: "category", Value: q.Category}}
	}
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	opts := options.Find().
		SetSkip(int64(paginate.Offset(q.Limit, q.Page))).
		SetLimit(int64(q.Limit))
	switch q.Sort {
	case "asc":
		opts.SetSort(bson.D{{Key: "price", Value: 1}})
	case "desc":
		opts.SetSort(bson.D{{Key: "price", Value: -1}})
	}
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	var items []models.Product
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return &ProductPage{Items: items, Meta: paginate.NewMeta(total, q.Limit, q.Page)}, nil
}

func (s *MongoProducts) Get(ctx context.Context, id int64) (*models.Product, error) {
	defer metrics.ObserveStoreOp("mongo", "products.get", time.Now())
	var p models.Product
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &p, nil
}

func (s *MongoProducts) MaxID(ctx context.Context) (int64, error) {
	var p models.Product
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	err := s.coll.FindOne(ctx, bson.D{}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find max product id: %w", err)
	}
	return p.ID, nil
}

func (s *MongoProducts) Insert(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveStoreOp("mongo", "products.insert", time.Now())
	_, err := s.coll.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateCode
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *MongoProducts) Update(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveStoreOp("mongo", "products.update", time.Now())
	res, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: p.ID}}, p)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateCode
	}
	if err != nil {
		return fmt.Errorf("replace product %d: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoProducts) Delete(ctx context.Context, id int64) error {
	defer metrics.ObserveStoreOp("mongo", "products.delete", time.Now())
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoProducts) CountByIDs(ctx context.Context, ids []int64) (int64, error) {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return 0, fmt.Errorf("count products by id: %w", err)
	}
	return n, nil
}

func (s *MongoProducts) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	filter := bson.D{
		{Key: "code", Value: code},
		{Key: "_id", Value: bson.D{{Key: "$ne", Value: excludeID}}},
	}
	n, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("count products by code: %w", err)
	}
	return n > 0, nil
}

// MongoCarts keeps carts in a "carts" collection. Cart ids come from an
// atomic $inc on a counters document, so concurrent creates never collide.
type MongoCarts struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewMongoCarts(db *mongo.Database) *MongoCarts {
	return &MongoCarts{
		coll:     db.Collection("carts"),
		counters: db.Collection("counters"),
	}
}

func (s *MongoCarts) nextID(ctx context.Context) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: "carts"}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next cart id: %w", err)
	}
	return doc.Seq, nil
}

func (s *MongoCarts) Create(ctx context.Context, c *models.Cart) error {
	defer metrics.ObserveStoreOp("mongo", "carts.create", time.Now())
	id, err := s.nextID(ctx)
	if err != nil {
		return err
	}
	c.ID = id
	if _, err := s.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

func (s *MongoCarts) Get(ctx context.Context, id int64) (*models.Cart, error) {
	defer metrics.ObserveStoreOp("mongo", "carts.get", time.Now())
	var c models.Cart
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart %d: %w", id, err)
	}
	return &c, nil
}

func (s *MongoCarts) Save(ctx context.Context, c *models.Cart) error {
	defer metrics.ObserveStoreOp("mongo", "carts.save", time.Now())
	res, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: c.ID}}, c)
	if err != nil {
		return fmt.Errorf("replace cart %d: %w", c.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
